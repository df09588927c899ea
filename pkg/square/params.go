package square

import (
	"strconv"
	"strings"

	sq "github.com/square/square-go-sdk"
)

const defaultCurrency = "USD"

// CustomerCreateParams defines the payload to create a Square customer.
type CustomerCreateParams struct {
	Email          string
	GivenName      string
	FamilyName     string
	PhoneNumber    string
	ReferenceID    string
	Address        *Address
	IdempotencyKey string
}

func (p CustomerCreateParams) toSquareRequest(idempotencyKey string) *sq.CreateCustomerRequest {
	return &sq.CreateCustomerRequest{
		IdempotencyKey: ptrString(idempotencyKey),
		EmailAddress:   ptrString(strings.TrimSpace(p.Email)),
		GivenName:      ptrString(strings.TrimSpace(p.GivenName)),
		FamilyName:     ptrString(strings.TrimSpace(p.FamilyName)),
		PhoneNumber:    ptrString(strings.TrimSpace(p.PhoneNumber)),
		ReferenceID:    ptrString(strings.TrimSpace(p.ReferenceID)),
		Address:        toSquareAddress(p.Address),
	}
}

// CustomerUpdateParams carries a partial update. Nil fields are left untouched remotely.
type CustomerUpdateParams struct {
	CustomerID   string
	GivenName    *string
	FamilyName   *string
	EmailAddress *string
	PhoneNumber  *string
	Address      *Address
}

// IsEmpty reports whether the update would change nothing.
func (p CustomerUpdateParams) IsEmpty() bool {
	return p.GivenName == nil && p.FamilyName == nil && p.EmailAddress == nil && p.PhoneNumber == nil && p.Address.IsZero()
}

func (p CustomerUpdateParams) toSquareRequest() *sq.UpdateCustomerRequest {
	return &sq.UpdateCustomerRequest{
		CustomerID:   p.CustomerID,
		GivenName:    p.GivenName,
		FamilyName:   p.FamilyName,
		EmailAddress: p.EmailAddress,
		PhoneNumber:  p.PhoneNumber,
		Address:      toSquareAddress(p.Address),
	}
}

// LineItem references a catalog variation and a positive quantity.
type LineItem struct {
	CatalogObjectID string
	Quantity        int
}

// OrderCreateParams groups everything needed to create or price an order.
type OrderCreateParams struct {
	LocationID     string
	CustomerID     string
	LineItems      []LineItem
	Fulfillments   []Fulfillment
	IdempotencyKey string
}

func (p OrderCreateParams) toSquareOrder() *sq.Order {
	order := &sq.Order{
		LocationID: p.LocationID,
		CustomerID: ptrString(p.CustomerID),
	}
	for _, item := range p.LineItems {
		order.LineItems = append(order.LineItems, &sq.OrderLineItem{
			CatalogObjectID: ptrString(item.CatalogObjectID),
			Quantity:        strconv.Itoa(item.Quantity),
		})
	}
	for _, f := range p.Fulfillments {
		order.Fulfillments = append(order.Fulfillments, toSquareFulfillment(f))
	}
	return order
}

// PaymentCreateParams encapsulates the inputs for a Square payment.
type PaymentCreateParams struct {
	SourceID       string
	AmountCents    int64
	Currency       string
	OrderID        string
	CustomerID     string
	LocationID     string
	Note           string
	IdempotencyKey string
}

func (p PaymentCreateParams) toSquareRequest(idempotencyKey string) *sq.CreatePaymentRequest {
	return &sq.CreatePaymentRequest{
		IdempotencyKey: idempotencyKey,
		SourceID:       p.SourceID,
		AmountMoney:    moneyPtr(p.AmountCents, p.Currency),
		OrderID:        ptrString(p.OrderID),
		CustomerID:     ptrString(p.CustomerID),
		LocationID:     ptrString(p.LocationID),
		Note:           ptrString(strings.TrimSpace(p.Note)),
	}
}

func toSquareFulfillment(f Fulfillment) *sq.Fulfillment {
	kind := sq.FulfillmentType(f.Type)
	state := sq.FulfillmentState(f.State)
	if f.State == "" {
		state = sq.FulfillmentState("PROPOSED")
	}
	out := &sq.Fulfillment{Type: &kind, State: &state}
	if f.PickupDetails != nil {
		out.PickupDetails = &sq.FulfillmentPickupDetails{
			Recipient: toSquareRecipient(f.PickupDetails.Recipient),
			PickupAt:  ptrString(f.PickupDetails.PickupAt),
			Note:      ptrString(f.PickupDetails.Note),
		}
	}
	if f.ShipmentDetails != nil {
		out.ShipmentDetails = &sq.FulfillmentShipmentDetails{
			Recipient: toSquareRecipient(f.ShipmentDetails.Recipient),
		}
	}
	return out
}

func toSquareRecipient(r *Recipient) *sq.FulfillmentRecipient {
	if r == nil {
		return nil
	}
	return &sq.FulfillmentRecipient{
		DisplayName:  ptrString(r.DisplayName),
		EmailAddress: ptrString(r.EmailAddress),
		PhoneNumber:  ptrString(r.PhoneNumber),
		Address:      toSquareAddress(r.Address),
	}
}

func toSquareAddress(a *Address) *sq.Address {
	if a.IsZero() {
		return nil
	}
	out := &sq.Address{
		AddressLine1:                 ptrString(a.AddressLine1),
		AddressLine2:                 ptrString(a.AddressLine2),
		Locality:                     ptrString(a.Locality),
		AdministrativeDistrictLevel1: ptrString(a.AdministrativeDistrictLevel1),
		PostalCode:                   ptrString(a.PostalCode),
	}
	if country := strings.ToUpper(strings.TrimSpace(a.Country)); country != "" {
		c := sq.Country(country)
		out.Country = &c
	}
	return out
}

func ptrString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func int64Ptr(value int64) *int64 {
	return &value
}

func boolPtr(value bool) *bool {
	return &value
}

func currencyPtr(code string) *sq.Currency {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		trimmed = defaultCurrency
	}
	c := sq.Currency(trimmed)
	return &c
}

func moneyPtr(amount int64, currency string) *sq.Money {
	return &sq.Money{
		Amount:   int64Ptr(amount),
		Currency: currencyPtr(currency),
	}
}
