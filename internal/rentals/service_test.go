package rentals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rmjobsites/jobsites-api/pkg/db/models"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
)

func setupRentalsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func validInput() CreateInput {
	return CreateInput{
		CustomerFirstName:       "Casey",
		CustomerLastName:        "Nguyen",
		CustomerEmail:           "casey@example.com",
		CustomerPhone:           "303-555-0100",
		EquipmentType:           "Rotary laser",
		PickupDate:              "2026-04-01",
		ReturnDate:              "2026-04-05",
		RentalAgreementAccepted: true,
		PaymentMethod:           "card",
	}
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupRentalsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func TestCreateRental(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	dto, err := svc.Create(context.Background(), &userID, validInput())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, dto.ID)
	assert.Equal(t, &userID, dto.UserID)
	assert.Equal(t, "2026-04-01", dto.PickupDate)
	assert.Equal(t, "card", dto.PaymentMethod)
}

func TestCreateRentalValidation(t *testing.T) {
	svc, db := newTestService(t)

	cases := map[string]struct {
		mutate func(*CreateInput)
		want   string
	}{
		"blank name":        {func(in *CreateInput) { in.CustomerFirstName = " " }, "Customer first name can't be blank"},
		"bad email":         {func(in *CreateInput) { in.CustomerEmail = "not-an-email" }, "Customer email is invalid"},
		"return too early":  {func(in *CreateInput) { in.ReturnDate = "2026-03-30" }, "Return date must be after pickup date"},
		"same day":          {func(in *CreateInput) { in.ReturnDate = in.PickupDate }, "Return date must be after pickup date"},
		"agreement missing": {func(in *CreateInput) { in.RentalAgreementAccepted = false }, "Rental agreement accepted must be accepted"},
		"bad date":          {func(in *CreateInput) { in.PickupDate = "April 1" }, "Pickup date must be a date (YYYY-MM-DD)"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), nil, in)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.Contains(t, typed.Details(), tc.want)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.EquipmentRentalRequest{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListCompactNewestFirst(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	older, err := svc.Create(ctx, nil, validInput())
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.EquipmentRentalRequest{}).Where("id = ?", older.ID).
		Update("created_at", older.CreatedAt.Add(-time.Hour)).Error)
	in := validInput()
	in.EquipmentType = "Total station"
	newer, err := svc.Create(ctx, nil, in)
	require.NoError(t, err)

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, "Casey Nguyen", rows[0].CustomerName)
	assert.Equal(t, "2026-04-01 - 2026-04-05", rows[0].Date)
	assert.Equal(t, "Total station", rows[0].Equipment)
	assert.Equal(t, older.ID, rows[1].ID)
}
