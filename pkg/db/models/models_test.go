package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rmjobsites/jobsites-api/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(All()...))
	return conn
}

func TestUserBeforeCreateAssignsIDAndNormalizesEmail(t *testing.T) {
	db := openTestDB(t)

	user := &User{Email: "  Buyer@Example.COM ", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "buyer@example.com", user.Email)
	assert.False(t, user.HasRemoteCustomer())
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{GivenName: "Ada", FamilyName: "Lovelace"}).FullName())
	assert.Equal(t, "Ada", (&User{GivenName: "Ada"}).FullName())
	assert.Equal(t, "", (&User{}).FullName())
}

func TestCheckoutAttemptUnpaidRemoteOrder(t *testing.T) {
	orderID := "ORDER1"
	attempt := &CheckoutAttempt{State: enums.CheckoutStateFailed, RemoteOrderID: &orderID}
	assert.True(t, attempt.IsUnpaidRemoteOrder())

	paymentID := "PAY1"
	attempt.RemotePaymentID = &paymentID
	assert.False(t, attempt.IsUnpaidRemoteOrder())

	attempt = &CheckoutAttempt{State: enums.CheckoutStateFailed}
	assert.False(t, attempt.IsUnpaidRemoteOrder())
}
