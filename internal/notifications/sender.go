package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/rmjobsites/jobsites-api/pkg/config"
	"github.com/rmjobsites/jobsites-api/pkg/enums"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

// Notifier sends transactional email. Every method reports delivery and never fails the caller.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) bool
	SendAssignment(ctx context.Context, msg Assignment) bool
}

// OrderConfirmation is everything the confirmation email renders.
type OrderConfirmation struct {
	Order           *square.Order
	Payment         *square.Payment
	Customer        *square.Customer
	FulfillmentType enums.FulfillmentType
}

type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Observer records whether a send was delivered.
type Observer interface {
	IncNotification(sent bool)
}

// Sender delivers mail through SendGrid.
type Sender struct {
	client         mailClient
	from           *mail.Email
	logg           *logger.Logger
	observer       Observer
	location       *time.Location
	pickupLocation string
	now            func() time.Time
}

type Option func(*Sender)

// WithObserver reports each send outcome.
func WithObserver(o Observer) Option {
	return func(s *Sender) { s.observer = o }
}

// WithClock overrides the clock used for the copyright year.
func WithClock(now func() time.Time) Option {
	return func(s *Sender) { s.now = now }
}

func withClient(c mailClient) Option {
	return func(s *Sender) { s.client = c }
}

// NewSender builds a sender. Without an API key every send returns false.
func NewSender(cfg config.SendgridConfig, checkout config.CheckoutConfig, logg *logger.Logger, opts ...Option) (*Sender, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	loc, err := checkout.Location()
	if err != nil {
		return nil, err
	}
	s := &Sender{
		from:           mail.NewEmail(cfg.FromName, cfg.FromEmail),
		logg:           logg,
		location:       loc,
		pickupLocation: checkout.PickupLocation,
		now:            time.Now,
	}
	if cfg.Enabled() {
		s.client = sendgrid.NewSendClient(strings.TrimSpace(cfg.APIKey))
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SendOrderConfirmation emails the buyer a summary of the order.
func (s *Sender) SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) bool {
	if msg.Order == nil || msg.Customer == nil {
		s.logg.Warn(ctx, "notification.confirmation_skipped: order and customer required")
		return s.record(false)
	}
	ctx = s.logg.WithField(ctx, "order_id", msg.Order.ID)

	to := strings.TrimSpace(msg.Customer.EmailAddress)
	if to == "" {
		s.logg.Warn(ctx, "notification.confirmation_skipped: customer has no email")
		return s.record(false)
	}

	view := s.confirmationView(msg)
	text, html, err := renderConfirmation(view)
	if err != nil {
		s.logg.Error(ctx, "notification.render_failed", err)
		return s.record(false)
	}

	subject := fmt.Sprintf("Order Confirmation #%s", msg.Order.ID)
	return s.deliver(ctx, mail.NewSingleEmail(s.from, subject, mail.NewEmail(view.CustomerName, to), text, html))
}

func (s *Sender) deliver(ctx context.Context, message *mail.SGMailV3) bool {
	if s.client == nil {
		s.logg.Warn(ctx, "notification.skipped: sendgrid api key not configured")
		return s.record(false)
	}
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.logg.Error(ctx, "notification.send_failed", err)
		return s.record(false)
	}
	if resp == nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		status := 0
		body := ""
		if resp != nil {
			status, body = resp.StatusCode, resp.Body
		}
		ctx = s.logg.WithFields(ctx, map[string]any{"status": status, "body": body})
		s.logg.Error(ctx, "notification.send_rejected", fmt.Errorf("sendgrid returned status %d", status))
		return s.record(false)
	}
	s.logg.Info(ctx, "notification.sent")
	return s.record(true)
}

func (s *Sender) record(sent bool) bool {
	if s.observer != nil {
		s.observer.IncNotification(sent)
	}
	return sent
}
