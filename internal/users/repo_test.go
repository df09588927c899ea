package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rmjobsites/jobsites-api/pkg/db/models"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func strPtr(v string) *string { return &v }

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{Email: " Buyer@Example.com", PasswordHash: "hash", GivenName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", created.Email)

	byEmail, err := repo.FindByEmail(ctx, "BUYER@example.com ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", byID.GivenName)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateProfileSkipsBlankFields(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Email: "a@example.com", PasswordHash: "hash", GivenName: "Ada", FamilyName: "Lovelace"})
	require.NoError(t, err)

	updated, err := repo.UpdateProfile(ctx, user.ID, ProfilePatch{
		GivenName:    strPtr("  "),
		PhoneNumber:  strPtr("303-555-0100"),
		AddressLine1: strPtr("1 Main St"),
		City:         strPtr("Denver"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.GivenName)
	assert.Equal(t, "Lovelace", updated.FamilyName)
	assert.Equal(t, "303-555-0100", updated.PhoneNumber)
	assert.Equal(t, "1 Main St", updated.AddressLine1)
	assert.Equal(t, "Denver", updated.City)

	unchanged, err := repo.UpdateProfile(ctx, user.ID, ProfilePatch{})
	require.NoError(t, err)
	assert.Equal(t, "Denver", unchanged.City)
}

func TestLinkRemoteCustomerIsSticky(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Email: "link@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	linked, err := repo.LinkRemoteCustomer(ctx, user.ID, "CUST1")
	require.NoError(t, err)
	assert.True(t, linked)

	linked, err = repo.LinkRemoteCustomer(ctx, user.ID, "CUST2")
	require.NoError(t, err)
	assert.False(t, linked)

	reloaded, err := repo.FindByRemoteCustomerID(ctx, "CUST1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, reloaded.ID)

	_, err = repo.FindByRemoteCustomerID(ctx, "CUST2")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListAdmins(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserDTO{Email: "zed@example.com", PasswordHash: "h", Admin: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateUserDTO{Email: "amy@example.com", PasswordHash: "h", Admin: true, GivenName: "Amy"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateUserDTO{Email: "customer@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	admins, err := repo.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, "amy@example.com", admins[0].Email)

	assert.Equal(t, "Amy", SummaryFromModel(admins[0]).Name)
	assert.Equal(t, "zed@example.com", SummaryFromModel(admins[1]).Name)
}

func TestFromModelHidesBlankCustomerLink(t *testing.T) {
	blank := ""
	dto := FromModel(&models.User{Email: "a@example.com", RemoteCustomerID: &blank})
	assert.Nil(t, dto.SquareCustomerID)

	id := "CUST9"
	dto = FromModel(&models.User{Email: "a@example.com", RemoteCustomerID: &id})
	require.NotNil(t, dto.SquareCustomerID)
	assert.Equal(t, "CUST9", *dto.SquareCustomerID)
	assert.Nil(t, FromModel(nil))
}
