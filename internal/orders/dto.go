package orders

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rmjobsites/jobsites-api/pkg/checkout"
	"github.com/rmjobsites/jobsites-api/pkg/db/models"
	"github.com/rmjobsites/jobsites-api/pkg/enums"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

// LineItemInput references a catalog variation. variation_id is accepted as an alias.
type LineItemInput struct {
	CatalogObjectID string   `json:"catalog_object_id"`
	VariationID     string   `json:"variation_id"`
	Quantity        Quantity `json:"quantity"`
}

// Quantity accepts a JSON number or a numeric string, as storefront forms post either.
// Unparseable values decode to zero so line item validation reports them.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(data)), `"`))
	n, err := strconv.Atoi(raw)
	if err != nil {
		*q = 0
		return nil
	}
	*q = Quantity(n)
	return nil
}

// CatalogID returns the catalog object id, falling back to the variation alias.
func (l LineItemInput) CatalogID() string {
	if id := strings.TrimSpace(l.CatalogObjectID); id != "" {
		return id
	}
	return strings.TrimSpace(l.VariationID)
}

// CustomerInfo identifies the buyer.
type CustomerInfo struct {
	Email       string `json:"email"`
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	PhoneNumber string `json:"phone_number"`
}

// Address is a shipping address using the gateway's field names.
type Address struct {
	AddressLine1                 string `json:"address_line_1"`
	AddressLine2                 string `json:"address_line_2"`
	Locality                     string `json:"locality"`
	AdministrativeDistrictLevel1 string `json:"administrative_district_level_1"`
	PostalCode                   string `json:"postal_code"`
	Country                      string `json:"country"`
}

func (a Address) toGateway() *square.Address {
	return &square.Address{
		AddressLine1:                 strings.TrimSpace(a.AddressLine1),
		AddressLine2:                 strings.TrimSpace(a.AddressLine2),
		Locality:                     strings.TrimSpace(a.Locality),
		AdministrativeDistrictLevel1: strings.TrimSpace(a.AdministrativeDistrictLevel1),
		PostalCode:                   strings.TrimSpace(a.PostalCode),
		Country:                      strings.TrimSpace(a.Country),
	}
}

// PickupDetails carries the requested pickup slot as entered by the buyer.
type PickupDetails struct {
	Date string `json:"date"`
	Time string `json:"time"`
	Note string `json:"note"`
}

// CreateRequest is the body of POST /api/orders.
type CreateRequest struct {
	LineItems       []LineItemInput `json:"line_items"`
	PaymentToken    string          `json:"payment_token"`
	CustomerInfo    *CustomerInfo   `json:"customer_info"`
	FulfillmentType string          `json:"fulfillment_type"`
	ShippingAddress *Address        `json:"shipping_address"`
	PickupDetails   *PickupDetails  `json:"pickup_details"`
}

// CalculateRequest is the body of POST /api/orders/calculate.
type CalculateRequest struct {
	LineItems       []LineItemInput `json:"line_items"`
	FulfillmentType string          `json:"fulfillment_type"`
}

// CreateInput wraps the request with its caller context.
type CreateInput struct {
	Request CreateRequest
	// User is nil for anonymous checkout.
	User           *models.User
	IdempotencyKey string
	// CallerID scopes IdempotencyKey so equal keys from different callers never share a remote order.
	CallerID string
}

// CreateResult is returned on success.
type CreateResult struct {
	Order    *square.Order    `json:"order"`
	Payment  *square.Payment  `json:"payment"`
	Customer *square.Customer `json:"customer"`
}

// CalculatedLineItem is one priced line of a calculation.
type CalculatedLineItem struct {
	CatalogObjectID string `json:"catalog_object_id"`
	Quantity        string `json:"quantity"`
	Name            string `json:"name"`
	Total           int64  `json:"total"`
}

// Calculation holds totals in minor units.
type Calculation struct {
	Subtotal  int64                `json:"subtotal"`
	Taxes     int64                `json:"taxes"`
	Shipping  int64                `json:"shipping"`
	Total     int64                `json:"total"`
	Currency  string               `json:"currency"`
	LineItems []CalculatedLineItem `json:"line_items"`
}

// AttemptFilter narrows the checkout attempt listing.
type AttemptFilter struct {
	State      *enums.CheckoutState
	UnpaidOnly bool
	Limit      int
}

// AttemptDTO is the admin view of a checkout attempt.
type AttemptDTO struct {
	ID               uuid.UUID             `json:"id"`
	UserID           *uuid.UUID            `json:"user_id,omitempty"`
	Email            string                `json:"email"`
	FulfillmentType  enums.FulfillmentType `json:"fulfillment_type"`
	State            enums.CheckoutState   `json:"state"`
	RemoteCustomerID *string               `json:"square_customer_id,omitempty"`
	RemoteOrderID    *string               `json:"square_order_id,omitempty"`
	RemotePaymentID  *string               `json:"square_payment_id,omitempty"`
	AmountCents      int64                 `json:"amount_cents"`
	Currency         string                `json:"currency"`
	FailureReason    *string               `json:"failure_reason,omitempty"`
	NotificationSent bool                  `json:"notification_sent"`
	Unpaid           bool                  `json:"unpaid"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

func attemptFromModel(m models.CheckoutAttempt) AttemptDTO {
	return AttemptDTO{
		ID:               m.ID,
		UserID:           m.UserID,
		Email:            m.Email,
		FulfillmentType:  m.FulfillmentType,
		State:            m.State,
		RemoteCustomerID: m.RemoteCustomerID,
		RemoteOrderID:    m.RemoteOrderID,
		RemotePaymentID:  m.RemotePaymentID,
		AmountCents:      m.AmountCents,
		Currency:         m.Currency,
		FailureReason:    m.FailureReason,
		NotificationSent: m.NotificationSent,
		Unpaid:           m.IsUnpaidRemoteOrder(),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toGatewayLineItems(items []LineItemInput) []square.LineItem {
	out := make([]square.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, square.LineItem{CatalogObjectID: item.CatalogID(), Quantity: int(item.Quantity)})
	}
	return out
}

func toCheckoutLineItems(items []LineItemInput) []checkout.LineItemInput {
	out := make([]checkout.LineItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, checkout.LineItemInput{CatalogObjectID: item.CatalogID(), Quantity: int(item.Quantity)})
	}
	return out
}
