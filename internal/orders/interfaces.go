package orders

import (
	"context"

	"github.com/google/uuid"

	"github.com/rmjobsites/jobsites-api/internal/notifications"
	"github.com/rmjobsites/jobsites-api/pkg/db/models"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

// Gateway is the slice of the commerce client used by checkout.
type Gateway interface {
	CreateOrder(ctx context.Context, params square.OrderCreateParams) (*square.Order, error)
	CalculateOrder(ctx context.Context, params square.OrderCreateParams) (*square.Order, error)
	CreatePayment(ctx context.Context, params square.PaymentCreateParams) (*square.Payment, error)
	LocationID() string
}

// AttemptRepository persists checkout attempts.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.CheckoutAttempt) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	List(ctx context.Context, filter AttemptFilter) ([]models.CheckoutAttempt, error)
}

// Metrics receives state machine counters.
type Metrics interface {
	IncTransition(state string)
	IncOutcome(outcome string)
}

// ConfirmationSender dispatches the order confirmation email.
type ConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, msg notifications.OrderConfirmation) bool
}

type noopMetrics struct{}

func (noopMetrics) IncTransition(string) {}
func (noopMetrics) IncOutcome(string)    {}
