package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmjobsites/jobsites-api/pkg/enums"
)

// CheckoutAttempt records how far one order creation got. Rows that end in failed with a
// remote order id are unpaid remote orders awaiting manual reconciliation.
type CheckoutAttempt struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	UserID           *uuid.UUID            `gorm:"column:user_id;type:uuid;index"`
	Email            string                `gorm:"column:email;not null"`
	FulfillmentType  enums.FulfillmentType `gorm:"column:fulfillment_type;type:text;not null"`
	State            enums.CheckoutState   `gorm:"column:state;type:text;not null;index"`
	RemoteCustomerID *string               `gorm:"column:remote_customer_id"`
	RemoteOrderID    *string               `gorm:"column:remote_order_id;index"`
	RemotePaymentID  *string               `gorm:"column:remote_payment_id"`
	AmountCents      int64                 `gorm:"column:amount_cents;not null;default:0"`
	Currency         string                `gorm:"column:currency;not null;default:'USD'"`
	FailureReason    *string               `gorm:"column:failure_reason"`
	NotificationSent bool                  `gorm:"column:notification_sent;not null;default:false"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CheckoutAttempt) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// IsUnpaidRemoteOrder reports whether the attempt left a remote order without a payment.
func (c *CheckoutAttempt) IsUnpaidRemoteOrder() bool {
	return c != nil && c.State == enums.CheckoutStateFailed && c.RemoteOrderID != nil && c.RemotePaymentID == nil
}
