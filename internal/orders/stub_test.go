package orders

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/rmjobsites/jobsites-api/internal/customers"
	"github.com/rmjobsites/jobsites-api/internal/notifications"
	"github.com/rmjobsites/jobsites-api/pkg/db/models"
	"github.com/rmjobsites/jobsites-api/pkg/enums"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

type stubGateway struct {
	order        *square.Order
	calculated   *square.Order
	payment      *square.Payment
	orderErr     error
	paymentErr   error
	calculateErr error
	orderCalls   []square.OrderCreateParams
	paymentCalls []square.PaymentCreateParams
	calcCalls    []square.OrderCreateParams
}

func (s *stubGateway) CreateOrder(_ context.Context, params square.OrderCreateParams) (*square.Order, error) {
	s.orderCalls = append(s.orderCalls, params)
	if s.orderErr != nil {
		return nil, s.orderErr
	}
	return s.order, nil
}

func (s *stubGateway) CalculateOrder(_ context.Context, params square.OrderCreateParams) (*square.Order, error) {
	s.calcCalls = append(s.calcCalls, params)
	if s.calculateErr != nil {
		return nil, s.calculateErr
	}
	return s.calculated, nil
}

func (s *stubGateway) CreatePayment(_ context.Context, params square.PaymentCreateParams) (*square.Payment, error) {
	s.paymentCalls = append(s.paymentCalls, params)
	if s.paymentErr != nil {
		return nil, s.paymentErr
	}
	return s.payment, nil
}

func (s *stubGateway) LocationID() string { return "LOC-1" }

func (s *stubGateway) calls() int {
	return len(s.orderCalls) + len(s.paymentCalls) + len(s.calcCalls)
}

type stubResolver struct {
	customer *square.Customer
	err      error
	calls    []customers.Identity
}

func (s *stubResolver) Resolve(_ context.Context, identity customers.Identity) (*square.Customer, error) {
	s.calls = append(s.calls, identity)
	if s.err != nil {
		return nil, s.err
	}
	return s.customer, nil
}

type stubSync struct {
	err   error
	calls []customers.SyncInput
}

func (s *stubSync) Sync(_ context.Context, in customers.SyncInput) (customers.SyncResult, error) {
	s.calls = append(s.calls, in)
	return customers.SyncResult{User: in.User}, s.err
}

type stubNotifier struct {
	result bool
	calls  []notifications.OrderConfirmation
}

func (s *stubNotifier) SendOrderConfirmation(_ context.Context, msg notifications.OrderConfirmation) bool {
	s.calls = append(s.calls, msg)
	return s.result
}

type memAttempts struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*models.CheckoutAttempt
	createErr error
}

func newMemAttempts() *memAttempts {
	return &memAttempts{rows: map[uuid.UUID]*models.CheckoutAttempt{}}
}

func (m *memAttempts) Create(_ context.Context, attempt *models.CheckoutAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	copied := *attempt
	m.rows[attempt.ID] = &copied
	return nil
}

func (m *memAttempts) Update(_ context.Context, id uuid.UUID, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return errors.New("attempt not found")
	}
	for key, value := range fields {
		switch key {
		case "state":
			row.State = value.(enums.CheckoutState)
		case "remote_customer_id":
			v := value.(string)
			row.RemoteCustomerID = &v
		case "remote_order_id":
			v := value.(string)
			row.RemoteOrderID = &v
		case "remote_payment_id":
			v := value.(string)
			row.RemotePaymentID = &v
		case "amount_cents":
			row.AmountCents = value.(int64)
		case "currency":
			row.Currency = value.(string)
		case "failure_reason":
			v := value.(string)
			row.FailureReason = &v
		case "notification_sent":
			row.NotificationSent = value.(bool)
		}
	}
	return nil
}

func (m *memAttempts) List(_ context.Context, _ AttemptFilter) ([]models.CheckoutAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.CheckoutAttempt, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (m *memAttempts) only(t *testing.T) models.CheckoutAttempt {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.rows) != 1 {
		t.Fatalf("expected one attempt, got %d", len(m.rows))
	}
	for _, row := range m.rows {
		return *row
	}
	return models.CheckoutAttempt{}
}

type countingMetrics struct {
	transitions []string
	outcomes    []string
}

func (c *countingMetrics) IncTransition(state string) { c.transitions = append(c.transitions, state) }
func (c *countingMetrics) IncOutcome(outcome string)  { c.outcomes = append(c.outcomes, outcome) }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})
}

type fixture struct {
	gateway  *stubGateway
	resolver *stubResolver
	sync     *stubSync
	notifier *stubNotifier
	attempts *memAttempts
	metrics  *countingMetrics
	svc      Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		gateway: &stubGateway{
			order: &square.Order{
				ID:         "ORDER-1",
				LocationID: "LOC-1",
				CustomerID: "CUST-1",
				TotalMoney: &square.Money{Amount: 2150, Currency: "USD"},
			},
			payment: &square.Payment{ID: "PAY-1", Status: "COMPLETED", OrderID: "ORDER-1"},
		},
		resolver: &stubResolver{customer: &square.Customer{ID: "CUST-1", EmailAddress: "buyer@example.com"}},
		sync:     &stubSync{},
		notifier: &stubNotifier{result: true},
		attempts: newMemAttempts(),
		metrics:  &countingMetrics{},
	}
	validator := newTestValidator(t)
	svc, err := NewService(ServiceParams{
		Gateway:     f.gateway,
		Resolver:    f.resolver,
		ProfileSync: f.sync,
		Notifier:    f.notifier,
		Attempts:    f.attempts,
		Metrics:     f.metrics,
		Validator:   validator,
		Logger:      testLogger(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}
