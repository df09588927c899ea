package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rmjobsites/jobsites-api/pkg/db/models"
	"github.com/rmjobsites/jobsites-api/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestRepositoryAttemptLifecycle(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	attempt := &models.CheckoutAttempt{
		Email:           "buyer@example.com",
		FulfillmentType: enums.FulfillmentTypePickup,
		State:           enums.CheckoutStateValidating,
		Currency:        "USD",
	}
	require.NoError(t, repo.Create(ctx, attempt))
	require.NotEqual(t, uuid.Nil, attempt.ID)

	require.NoError(t, repo.Update(ctx, attempt.ID, map[string]any{
		"state":           enums.CheckoutStateFailed,
		"remote_order_id": "ORDER-9",
		"amount_cents":    int64(4200),
	}))

	rows, err := repo.List(ctx, AttemptFilter{UnpaidOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ORDER-9", *rows[0].RemoteOrderID)
	assert.Equal(t, int64(4200), rows[0].AmountCents)
	assert.True(t, rows[0].IsUnpaidRemoteOrder())
}

func TestRepositoryListFilters(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	paid := "PAY-1"
	order := "ORDER-1"
	done := &models.CheckoutAttempt{Email: "a@example.com", FulfillmentType: enums.FulfillmentTypePickup, State: enums.CheckoutStateDone, RemoteOrderID: &order, RemotePaymentID: &paid}
	rejected := &models.CheckoutAttempt{Email: "b@example.com", FulfillmentType: enums.FulfillmentTypeShipment, State: enums.CheckoutStateFailed}
	require.NoError(t, repo.Create(ctx, done))
	require.NoError(t, repo.Create(ctx, rejected))

	failed := enums.CheckoutStateFailed
	rows, err := repo.List(ctx, AttemptFilter{State: &failed})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, rejected.ID, rows[0].ID)

	unpaid, err := repo.List(ctx, AttemptFilter{UnpaidOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unpaid)

	all, err := repo.List(ctx, AttemptFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Update(ctx, done.ID, nil))
}
