package orders

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rmjobsites/jobsites-api/internal/customers"
	"github.com/rmjobsites/jobsites-api/internal/notifications"
	"github.com/rmjobsites/jobsites-api/pkg/db/models"
	"github.com/rmjobsites/jobsites-api/pkg/enums"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

const (
	msgResolveFailed = "Failed to resolve customer"
	msgOrderFailed   = "Failed to create order"
	msgPaymentFailed = "Payment failed"

	outcomeSucceeded = "succeeded"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

// Service exposes order creation and calculation.
type Service interface {
	Create(ctx context.Context, in CreateInput) (*CreateResult, error)
	Calculate(ctx context.Context, req CalculateRequest) (*Calculation, error)
	ListAttempts(ctx context.Context, filter AttemptFilter) ([]AttemptDTO, error)
}

// ServiceParams bundles the dependencies required to build the order service.
type ServiceParams struct {
	Gateway     Gateway
	Resolver    customers.Resolver
	ProfileSync customers.ProfileSync
	Notifier    ConfirmationSender
	Attempts    AttemptRepository
	Metrics     Metrics
	Validator   *Validator
	Logger      *logger.Logger
}

type service struct {
	gateway   Gateway
	resolver  customers.Resolver
	profiles  customers.ProfileSync
	notifier  ConfirmationSender
	attempts  AttemptRepository
	metrics   Metrics
	validator *Validator
	logg      *logger.Logger
}

// NewService constructs the checkout orchestrator.
func NewService(params ServiceParams) (Service, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order gateway required")
	}
	if params.Resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer resolver required")
	}
	if params.ProfileSync == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "profile sync required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier required")
	}
	if params.Attempts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "attempt repository required")
	}
	if params.Validator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "validator required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	metrics := params.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &service{
		gateway:   params.Gateway,
		resolver:  params.Resolver,
		profiles:  params.ProfileSync,
		notifier:  params.Notifier,
		attempts:  params.Attempts,
		metrics:   metrics,
		validator: params.Validator,
		logg:      params.Logger,
	}, nil
}

// Create runs one checkout: validate, resolve the customer, create the order, capture
// payment, then notify. Each remote step depends on the previous one and runs in order.
// A created order whose payment fails is not rolled back. The attempt row records it.
func (s *service) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	req := in.Request
	run := s.begin(ctx, in)
	ctx = run.ctx

	fulfillment, err := s.validator.ValidateCreate(req)
	if err != nil {
		run.fail(err, outcomeRejected)
		return nil, err
	}
	info := *req.CustomerInfo

	run.advance(enums.CheckoutStateResolvingCustomer, nil)
	customer, err := s.resolver.Resolve(ctx, customers.Identity{
		Email:       info.Email,
		GivenName:   info.GivenName,
		FamilyName:  info.FamilyName,
		PhoneNumber: info.PhoneNumber,
		ReferenceID: referenceFor(in.User),
	})
	if err != nil {
		err = shapeGatewayError(err, msgResolveFailed)
		run.fail(err, outcomeFailed)
		return nil, err
	}
	s.syncProfile(ctx, in.User, customer.ID, info, fulfillment)

	run.advance(enums.CheckoutStateBuildingOrder, map[string]any{"remote_customer_id": customer.ID})
	fulfillment = fulfillment.WithRecipient(RecipientFor(info))
	order, err := s.gateway.CreateOrder(ctx, square.OrderCreateParams{
		LocationID:     s.gateway.LocationID(),
		CustomerID:     customer.ID,
		LineItems:      toGatewayLineItems(req.LineItems),
		Fulfillments:   []square.Fulfillment{fulfillment.toGateway()},
		IdempotencyKey: orderIdempotencyKey(in.CallerID, in.IdempotencyKey),
	})
	if err != nil {
		err = shapeGatewayError(err, msgOrderFailed)
		run.fail(err, outcomeFailed)
		return nil, err
	}

	amount := order.TotalMoney.AmountOrZero()
	currency := order.Currency()
	run.advance(enums.CheckoutStateCapturingPayment, map[string]any{
		"remote_order_id": order.ID,
		"amount_cents":    amount,
		"currency":        currency,
	})
	payment, err := s.gateway.CreatePayment(ctx, square.PaymentCreateParams{
		SourceID:       req.PaymentToken,
		AmountCents:    amount,
		Currency:       currency,
		OrderID:        order.ID,
		CustomerID:     customer.ID,
		LocationID:     order.LocationID,
		Note:           fmt.Sprintf("RM Jobsites order %s", order.ID),
		IdempotencyKey: "payment-" + order.ID,
	})
	if err != nil {
		err = shapeGatewayError(err, msgPaymentFailed)
		run.fail(err, outcomeFailed)
		s.logg.Warn(s.logg.WithField(ctx, "order_id", order.ID), "checkout.unpaid_remote_order")
		return nil, err
	}

	run.advance(enums.CheckoutStateNotifying, map[string]any{"remote_payment_id": payment.ID})
	sent := s.notifier.SendOrderConfirmation(ctx, notifications.OrderConfirmation{
		Order:           order,
		Payment:         payment,
		Customer:        customer,
		FulfillmentType: fulfillment.Type(),
	})
	if !sent {
		s.logg.Warn(ctx, "checkout.confirmation_not_sent")
	}

	run.advance(enums.CheckoutStateDone, map[string]any{"notification_sent": sent})
	s.metrics.IncOutcome(outcomeSucceeded)
	return &CreateResult{Order: order, Payment: payment, Customer: customer}, nil
}

// syncProfile refreshes the caller's local profile. Failures never abort checkout.
func (s *service) syncProfile(ctx context.Context, user *models.User, customerID string, info CustomerInfo, fulfillment Fulfillment) {
	if user == nil {
		return
	}
	in := customers.SyncInput{
		User:        user,
		CustomerID:  customerID,
		GivenName:   info.GivenName,
		FamilyName:  info.FamilyName,
		PhoneNumber: info.PhoneNumber,
	}
	if shipment, ok := fulfillment.(Shipment); ok {
		in.Shipping = shipment.Address.toGateway()
	}
	if _, err := s.profiles.Sync(ctx, in); err != nil {
		s.logg.Error(ctx, "checkout.profile_sync_failed", err)
	}
}

func (s *service) ListAttempts(ctx context.Context, filter AttemptFilter) ([]AttemptDTO, error) {
	if filter.State != nil && !filter.State.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout state")
	}
	rows, err := s.attempts.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list checkout attempts")
	}
	out := make([]AttemptDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, attemptFromModel(row))
	}
	return out, nil
}

// attemptRun tracks one checkout through the state machine and mirrors it to storage.
type attemptRun struct {
	s      *service
	ctx    context.Context
	id     uuid.UUID
	state  enums.CheckoutState
	stored bool
}

func (s *service) begin(ctx context.Context, in CreateInput) *attemptRun {
	run := &attemptRun{s: s, id: uuid.New(), state: enums.CheckoutStateValidating}
	ctx = s.logg.WithAttemptID(ctx, run.id.String())
	if in.User != nil {
		ctx = s.logg.WithUserID(ctx, in.User.ID.String())
	}
	run.ctx = ctx

	attempt := &models.CheckoutAttempt{
		ID:              run.id,
		Email:           attemptEmail(in.Request),
		FulfillmentType: enums.FulfillmentType(strings.TrimSpace(in.Request.FulfillmentType)),
		State:           run.state,
		Currency:        "USD",
	}
	if in.User != nil {
		userID := in.User.ID
		attempt.UserID = &userID
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		s.logg.Error(ctx, "checkout.attempt_create_failed", err)
	} else {
		run.stored = true
	}
	s.metrics.IncTransition(string(run.state))
	s.logState(ctx, run.state)
	return run
}

func (r *attemptRun) advance(next enums.CheckoutState, fields map[string]any) {
	if !r.state.CanTransition(next) {
		r.s.logg.Error(r.ctx, "checkout.invalid_transition", fmt.Errorf("%s -> %s", r.state, next))
		return
	}
	r.state = next
	if fields == nil {
		fields = map[string]any{}
	}
	fields["state"] = next
	r.persist(fields)
	r.s.metrics.IncTransition(string(next))
	r.s.logState(r.ctx, next)
}

func (r *attemptRun) fail(err error, outcome string) {
	from := r.state
	r.advance(enums.CheckoutStateFailed, map[string]any{"failure_reason": failureReason(err)})
	r.s.metrics.IncOutcome(outcome)
	ctx := r.s.logg.WithField(r.ctx, "failed_from", string(from))
	if outcome == outcomeRejected {
		r.s.logg.Info(ctx, "checkout.rejected: "+err.Error())
		return
	}
	r.s.logg.Error(ctx, "checkout.failed", err)
}

func (r *attemptRun) persist(fields map[string]any) {
	if !r.stored {
		return
	}
	if err := r.s.attempts.Update(r.ctx, r.id, fields); err != nil {
		r.s.logg.Error(r.ctx, "checkout.attempt_update_failed", err)
	}
}

func (s *service) logState(ctx context.Context, state enums.CheckoutState) {
	s.logg.Info(s.logg.WithField(ctx, "state", string(state)), "checkout.state")
}

// shapeGatewayError keeps transport failures generic and labels remote rejections with
// the step that failed, passing the remote details through.
func shapeGatewayError(err error, message string) error {
	switch pkgerrors.CodeOf(err) {
	case pkgerrors.CodeDependency, pkgerrors.CodeInternal:
		return err
	case pkgerrors.CodeValidation:
		return err
	}
	var details any = square.Details(err)
	if typed := pkgerrors.As(err); typed != nil && typed.Details() != nil {
		details = typed.Details()
	}
	return pkgerrors.Wrap(pkgerrors.CodeGateway, err, message).WithDetails(details)
}

func failureReason(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return fmt.Sprintf("%s: %s", typed.Code(), typed.Message())
	}
	return err.Error()
}

// orderIdempotencyKey derives the remote order key from the caller and the client key.
// Square caps keys at 192 characters, so the pair is hashed.
func orderIdempotencyKey(callerID, clientKey string) string {
	key := strings.TrimSpace(clientKey)
	if key == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(strings.TrimSpace(callerID) + "|" + key))
	return "order-" + hex.EncodeToString(sum[:])
}

func referenceFor(user *models.User) string {
	if user == nil {
		return ""
	}
	return user.ID.String()
}

func attemptEmail(req CreateRequest) string {
	if req.CustomerInfo == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(req.CustomerInfo.Email))
}
