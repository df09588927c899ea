package notifications

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/rmjobsites/jobsites-api/pkg/config"
	"github.com/rmjobsites/jobsites-api/pkg/enums"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

type stubMailClient struct {
	status   int
	err      error
	messages []*mail.SGMailV3
}

func (s *stubMailClient) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	s.messages = append(s.messages, email)
	if s.err != nil {
		return nil, s.err
	}
	return &rest.Response{StatusCode: s.status, Body: "{}"}, nil
}

type countingObserver struct {
	sent, failed int
}

func (c *countingObserver) IncNotification(sent bool) {
	if sent {
		c.sent++
		return
	}
	c.failed++
}

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{Timezone: "America/Denver", PickupLocation: "7204 E 53rd Pl, Commerce City, CO 80022"}
}

func newTestSender(t *testing.T, apiKey string, opts ...Option) *Sender {
	t.Helper()
	cfg := config.SendgridConfig{APIKey: apiKey, FromEmail: "orders@rmjobsites.com", FromName: "RM Jobsites"}
	opts = append(opts, WithClock(func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }))
	s, err := NewSender(cfg, testCheckoutConfig(), logger.New(logger.Options{ServiceName: "test", Output: io.Discard}), opts...)
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	return s
}

func pickupConfirmation() OrderConfirmation {
	return OrderConfirmation{
		Order: &square.Order{
			ID:        "ORDER1",
			CreatedAt: "2026-03-02T16:30:00Z",
			LineItems: []square.OrderLineItem{{
				Name:          "Rotary Laser",
				Quantity:      "2",
				TotalMoney:    &square.Money{Amount: 21598, Currency: "USD"},
				TotalTaxMoney: &square.Money{Amount: 1598, Currency: "USD"},
			}},
			Fulfillments: []square.Fulfillment{{
				Type:          "PICKUP",
				PickupDetails: &square.PickupDetails{PickupAt: "2026-03-03T16:00:00Z", Note: "Bring ID"},
			}},
			TotalMoney:    &square.Money{Amount: 21598, Currency: "USD"},
			TotalTaxMoney: &square.Money{Amount: 1598, Currency: "USD"},
		},
		Payment: &square.Payment{
			ID:          "PAY1",
			CardDetails: &square.CardPaymentDetails{Card: &square.Card{CardBrand: "VISA", Last4: "1111"}},
		},
		Customer:        &square.Customer{ID: "CUST1", EmailAddress: "buyer@example.com", GivenName: "Ada", FamilyName: "Lovelace"},
		FulfillmentType: enums.FulfillmentTypePickup,
	}
}

func TestSendOrderConfirmationWithoutKey(t *testing.T) {
	obs := &countingObserver{}
	s := newTestSender(t, "", WithObserver(obs))
	if s.SendOrderConfirmation(context.Background(), pickupConfirmation()) {
		t.Fatalf("expected false without an api key")
	}
	if obs.failed != 1 {
		t.Fatalf("expected failure to be observed")
	}
}

func TestSendOrderConfirmationDelivers(t *testing.T) {
	client := &stubMailClient{status: 202}
	obs := &countingObserver{}
	s := newTestSender(t, "key", withClient(client), WithObserver(obs))

	if !s.SendOrderConfirmation(context.Background(), pickupConfirmation()) {
		t.Fatalf("expected delivery")
	}
	if len(client.messages) != 1 || obs.sent != 1 {
		t.Fatalf("expected one message, got %d", len(client.messages))
	}
	msg := client.messages[0]
	if msg.Subject != "Order Confirmation #ORDER1" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if len(msg.Content) != 2 {
		t.Fatalf("expected text and html content, got %d", len(msg.Content))
	}
	text := msg.Content[0].Value
	for _, want := range []string{
		"Hi Ada Lovelace,",
		"prepared for pickup",
		"7204 E 53rd Pl",
		"Commerce City, CO 80022",
		"Tuesday, March 03, 2026 at 09:00 AM",
		"Rotary Laser (Qty: 2) - $215.98",
		"Subtotal: $200.00",
		"Tax: $15.98",
		"Shipping: $0.00",
		"Total: $215.98",
		"VISA ending in 1111",
		"March 02, 2026 at 09:30 AM",
		"support@rmjobsites.com",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("text body missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(msg.Content[1].Value, "<td style=\"padding: 12px; border-bottom: 1px solid #e5e7eb;\">Rotary Laser</td>") {
		t.Fatalf("html body missing line item")
	}
}

func TestSendOrderConfirmationFailuresReturnFalse(t *testing.T) {
	cases := map[string]*stubMailClient{
		"transport": {err: errors.New("dial tcp: timeout")},
		"non-2xx":   {status: 400},
	}
	for name, client := range cases {
		t.Run(name, func(t *testing.T) {
			s := newTestSender(t, "key", withClient(client))
			if s.SendOrderConfirmation(context.Background(), pickupConfirmation()) {
				t.Fatalf("expected false")
			}
		})
	}
}

func TestSendOrderConfirmationRequiresRecipient(t *testing.T) {
	client := &stubMailClient{status: 202}
	s := newTestSender(t, "key", withClient(client))
	msg := pickupConfirmation()
	msg.Customer.EmailAddress = ""
	if s.SendOrderConfirmation(context.Background(), msg) {
		t.Fatalf("expected false without a recipient")
	}
	if len(client.messages) != 0 {
		t.Fatalf("nothing should be sent")
	}
}

func TestShipmentConfirmationView(t *testing.T) {
	s := newTestSender(t, "")
	msg := pickupConfirmation()
	msg.FulfillmentType = enums.FulfillmentTypeShipment
	msg.Payment = nil
	msg.Customer = &square.Customer{EmailAddress: "buyer@example.com"}
	msg.Order.Fulfillments = []square.Fulfillment{{
		Type: "SHIPMENT",
		ShipmentDetails: &square.ShipmentDetails{Recipient: &square.Recipient{
			DisplayName: "buyer@example.com",
			Address:     &square.Address{AddressLine1: "1 Main St", Locality: "Denver", AdministrativeDistrictLevel1: "CO", PostalCode: "80202"},
		}},
	}}

	view := s.confirmationView(msg)
	if view.CustomerName != "buyer@example.com" {
		t.Fatalf("expected email fallback, got %q", view.CustomerName)
	}
	if view.NextStep != "shipped" || view.PaymentMethod != "Card on file" {
		t.Fatalf("unexpected view %+v", view)
	}
	if len(view.ShipLines) != 2 || view.ShipLines[1] != "Denver, CO, 80202" {
		t.Fatalf("unexpected ship lines %v", view.ShipLines)
	}
	if view.PickupLocation != nil {
		t.Fatalf("pickup block should be empty for shipments")
	}
}

func TestSendAssignment(t *testing.T) {
	client := &stubMailClient{status: 202}
	s := newTestSender(t, "key", withClient(client))
	ok := s.SendAssignment(context.Background(), Assignment{
		RequestID:        "SR1",
		CustomerName:     "Jane Builder",
		ServiceRequested: "Calibration",
		AssigneeEmail:    "tech@rmjobsites.com",
		AssigneeName:     "Tech",
		PickupDate:       time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		ReturnDate:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		NeedsRush:        true,
	})
	if !ok {
		t.Fatalf("expected delivery")
	}
	msg := client.messages[0]
	if msg.Subject != "New Service Request Assignment: Jane Builder" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.Content[0].Value, "RUSH REQUEST") || !strings.Contains(msg.Content[0].Value, "March 10, 2026") {
		t.Fatalf("unexpected body %s", msg.Content[0].Value)
	}

	if s.SendAssignment(context.Background(), Assignment{RequestID: "SR2"}) {
		t.Fatalf("expected false without assignee email")
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[int64]string{0: "$0.00", 5: "$0.05", 1999: "$19.99", 100000: "$1000.00"}
	for cents, want := range cases {
		if got := formatMoney(cents); got != want {
			t.Fatalf("formatMoney(%d) = %q, want %q", cents, got, want)
		}
	}
}
