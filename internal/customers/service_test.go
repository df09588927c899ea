package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmjobsites/jobsites-api/internal/users"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

func newTestService(t *testing.T, repo *users.Repository, gw *stubGateway) Service {
	t.Helper()
	resolver, err := NewResolver(gw)
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{Users: repo, Gateway: gw, Resolver: resolver, Logger: testLogger()})
	require.NoError(t, err)
	return svc
}

func TestShowFallsBackToLocalProfile(t *testing.T) {
	repo := setupCustomersTestDB(t)
	user := createUser(t, repo, "me@example.com", false)
	svc := newTestService(t, repo, newStubGateway())

	profile, err := svc.Show(context.Background(), Actor{UserID: user.ID}, SelfAlias)
	require.NoError(t, err)
	assert.Equal(t, "local_"+user.ID.String(), profile.ID)
	assert.False(t, profile.HasSquareCustomer)
	assert.Equal(t, "US", profile.Address.Country)
	assert.Equal(t, user.ID, profile.LocalUserID)
}

func TestShowMergesRemoteCustomer(t *testing.T) {
	repo := setupCustomersTestDB(t)
	ctx := context.Background()
	user := createUser(t, repo, "me@example.com", false)
	_, err := repo.LinkRemoteCustomer(ctx, user.ID, "CUST1")
	require.NoError(t, err)

	gw := newStubGateway()
	gw.customers["CUST1"] = square.Customer{ID: "CUST1", GivenName: "Remote"}
	svc := newTestService(t, repo, gw)

	profile, err := svc.Show(ctx, Actor{UserID: user.ID}, "CUST1")
	require.NoError(t, err)
	assert.True(t, profile.HasSquareCustomer)
	assert.Equal(t, "Remote", profile.GivenName)

	gw.getErr = pkgerrors.New(pkgerrors.CodeDependency, "down")
	profile, err = svc.Show(ctx, Actor{UserID: user.ID}, SelfAlias)
	require.NoError(t, err)
	assert.Equal(t, "CUST1", profile.ID)
	assert.False(t, profile.HasSquareCustomer)
}

func TestAccessIsAdminOrSelf(t *testing.T) {
	repo := setupCustomersTestDB(t)
	ctx := context.Background()
	owner := createUser(t, repo, "owner@example.com", false)
	other := createUser(t, repo, "other@example.com", false)
	admin := createUser(t, repo, "admin@example.com", true)
	_, err := repo.LinkRemoteCustomer(ctx, owner.ID, "CUST1")
	require.NoError(t, err)

	gw := newStubGateway()
	gw.customers["CUST1"] = square.Customer{ID: "CUST1"}
	svc := newTestService(t, repo, gw)

	_, err = svc.Show(ctx, Actor{UserID: other.ID}, "CUST1")
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))

	_, err = svc.Show(ctx, Actor{UserID: admin.ID, Admin: true}, "CUST1")
	assert.NoError(t, err)

	_, err = svc.Show(ctx, Actor{UserID: admin.ID, Admin: true}, "UNKNOWN")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	_, err = svc.Show(ctx, Actor{}, SelfAlias)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}

func TestUpdateCreatesAndLinksCustomer(t *testing.T) {
	repo := setupCustomersTestDB(t)
	ctx := context.Background()
	user := createUser(t, repo, "me@example.com", false)
	gw := newStubGateway()
	svc := newTestService(t, repo, gw)

	profile, err := svc.Update(ctx, Actor{UserID: user.ID}, SelfAlias, UpdateInput{
		GivenName: strPtr("Ada"),
		Address:   &AddressInput{AddressLine1: "1 Main St", Locality: "Denver"},
	})
	require.NoError(t, err)
	assert.True(t, profile.HasSquareCustomer)
	assert.Equal(t, 1, gw.createCalls)

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", reloaded.GivenName)
	assert.Equal(t, "US", reloaded.Country)
	require.NotNil(t, reloaded.RemoteCustomerID)
	assert.Equal(t, profile.ID, *reloaded.RemoteCustomerID)
}

func TestUpdatePushesToLinkedCustomer(t *testing.T) {
	repo := setupCustomersTestDB(t)
	ctx := context.Background()
	user := createUser(t, repo, "me@example.com", false)
	_, err := repo.LinkRemoteCustomer(ctx, user.ID, "CUST1")
	require.NoError(t, err)
	gw := newStubGateway()
	gw.customers["CUST1"] = square.Customer{ID: "CUST1"}
	svc := newTestService(t, repo, gw)

	profile, err := svc.Update(ctx, Actor{UserID: user.ID}, SelfAlias, UpdateInput{GivenName: strPtr("Grace")})
	require.NoError(t, err)
	assert.Equal(t, "Grace", profile.GivenName)
	require.Len(t, gw.updates, 1)
	assert.Equal(t, 0, gw.createCalls)
}

func TestOrdersAndCardsEmptyWithoutLink(t *testing.T) {
	repo := setupCustomersTestDB(t)
	ctx := context.Background()
	user := createUser(t, repo, "me@example.com", false)
	gw := newStubGateway()
	gw.cards = []square.Card{{ID: "CARD1"}}
	svc := newTestService(t, repo, gw)
	actor := Actor{UserID: user.ID}

	orders, err := svc.Orders(ctx, actor, SelfAlias)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)

	cards, err := svc.Cards(ctx, actor, SelfAlias)
	require.NoError(t, err)
	assert.Empty(t, cards)

	err = svc.DeleteCard(ctx, actor, SelfAlias, "CARD1")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	err = svc.DeleteCard(ctx, actor, SelfAlias, " ")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = repo.LinkRemoteCustomer(ctx, user.ID, "CUST1")
	require.NoError(t, err)
	cards, err = svc.Cards(ctx, actor, SelfAlias)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
	require.NoError(t, svc.DeleteCard(ctx, actor, SelfAlias, "CARD1"))
	assert.Equal(t, []string{"CARD1"}, gw.disabled)
}

func TestDeleteCardRequiresOwnership(t *testing.T) {
	repo := setupCustomersTestDB(t)
	ctx := context.Background()
	user := createUser(t, repo, "me@example.com", false)
	_, err := repo.LinkRemoteCustomer(ctx, user.ID, "CUST-ME")
	require.NoError(t, err)

	gw := newStubGateway()
	gw.cardsByID = map[string][]square.Card{
		"CUST-ME":    {{ID: "CARD-MINE"}},
		"CUST-OTHER": {{ID: "CARD-OTHER"}},
	}
	svc := newTestService(t, repo, gw)
	actor := Actor{UserID: user.ID}

	err = svc.DeleteCard(ctx, actor, SelfAlias, "CARD-OTHER")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	assert.Empty(t, gw.disabled)

	require.NoError(t, svc.DeleteCard(ctx, actor, SelfAlias, "CARD-MINE"))
	assert.Equal(t, []string{"CARD-MINE"}, gw.disabled)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)
}
