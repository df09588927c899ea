package square

import (
	"encoding/json"
	"fmt"
)

// The gateway exposes its own snake_case types so callers never depend on SDK unions.
// Responses are converted by re-decoding the SDK's canonical JSON.

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

// AmountOrZero tolerates missing money blocks.
func (m *Money) AmountOrZero() int64 {
	if m == nil {
		return 0
	}
	return m.Amount
}

type Address struct {
	AddressLine1                 string `json:"address_line_1,omitempty"`
	AddressLine2                 string `json:"address_line_2,omitempty"`
	Locality                     string `json:"locality,omitempty"`
	AdministrativeDistrictLevel1 string `json:"administrative_district_level_1,omitempty"`
	PostalCode                   string `json:"postal_code,omitempty"`
	Country                      string `json:"country,omitempty"`
}

// IsZero reports whether no address field is set.
func (a *Address) IsZero() bool {
	return a == nil || *a == Address{}
}

type Customer struct {
	ID           string   `json:"id"`
	GivenName    string   `json:"given_name,omitempty"`
	FamilyName   string   `json:"family_name,omitempty"`
	EmailAddress string   `json:"email_address,omitempty"`
	PhoneNumber  string   `json:"phone_number,omitempty"`
	Address      *Address `json:"address,omitempty"`
	ReferenceID  string   `json:"reference_id,omitempty"`
	CreatedAt    string   `json:"created_at,omitempty"`
	UpdatedAt    string   `json:"updated_at,omitempty"`
}

type OrderLineItem struct {
	UID             string `json:"uid,omitempty"`
	CatalogObjectID string `json:"catalog_object_id,omitempty"`
	Name            string `json:"name,omitempty"`
	VariationName   string `json:"variation_name,omitempty"`
	Quantity        string `json:"quantity"`
	BasePriceMoney  *Money `json:"base_price_money,omitempty"`
	TotalTaxMoney   *Money `json:"total_tax_money,omitempty"`
	TotalMoney      *Money `json:"total_money,omitempty"`
}

type Recipient struct {
	DisplayName  string   `json:"display_name,omitempty"`
	EmailAddress string   `json:"email_address,omitempty"`
	PhoneNumber  string   `json:"phone_number,omitempty"`
	Address      *Address `json:"address,omitempty"`
}

type PickupDetails struct {
	Recipient *Recipient `json:"recipient,omitempty"`
	PickupAt  string     `json:"pickup_at,omitempty"`
	Note      string     `json:"note,omitempty"`
}

type ShipmentDetails struct {
	Recipient *Recipient `json:"recipient,omitempty"`
}

type Fulfillment struct {
	UID             string           `json:"uid,omitempty"`
	Type            string           `json:"type"`
	State           string           `json:"state,omitempty"`
	PickupDetails   *PickupDetails   `json:"pickup_details,omitempty"`
	ShipmentDetails *ShipmentDetails `json:"shipment_details,omitempty"`
}

type Order struct {
	ID                      string          `json:"id,omitempty"`
	LocationID              string          `json:"location_id"`
	CustomerID              string          `json:"customer_id,omitempty"`
	State                   string          `json:"state,omitempty"`
	LineItems               []OrderLineItem `json:"line_items,omitempty"`
	Fulfillments            []Fulfillment   `json:"fulfillments,omitempty"`
	TotalMoney              *Money          `json:"total_money,omitempty"`
	TotalTaxMoney           *Money          `json:"total_tax_money,omitempty"`
	TotalDiscountMoney      *Money          `json:"total_discount_money,omitempty"`
	TotalServiceChargeMoney *Money          `json:"total_service_charge_money,omitempty"`
	CreatedAt               string          `json:"created_at,omitempty"`
	UpdatedAt               string          `json:"updated_at,omitempty"`
}

// Subtotal sums line totals net of line taxes, in minor units.
func (o *Order) Subtotal() int64 {
	if o == nil {
		return 0
	}
	var total int64
	for _, item := range o.LineItems {
		total += item.TotalMoney.AmountOrZero() - item.TotalTaxMoney.AmountOrZero()
	}
	return total
}

// Currency returns the order currency, defaulting to USD.
func (o *Order) Currency() string {
	if o != nil && o.TotalMoney != nil && o.TotalMoney.Currency != "" {
		return o.TotalMoney.Currency
	}
	return defaultCurrency
}

type Card struct {
	ID             string `json:"id"`
	CardBrand      string `json:"card_brand,omitempty"`
	Last4          string `json:"last_4,omitempty"`
	ExpMonth       int64  `json:"exp_month,omitempty"`
	ExpYear        int64  `json:"exp_year,omitempty"`
	CardholderName string `json:"cardholder_name,omitempty"`
	CustomerID     string `json:"customer_id,omitempty"`
	Enabled        bool   `json:"enabled"`
}

type CardPaymentDetails struct {
	Status string `json:"status,omitempty"`
	Card   *Card  `json:"card,omitempty"`
}

type Payment struct {
	ID          string              `json:"id"`
	Status      string              `json:"status,omitempty"`
	OrderID     string              `json:"order_id,omitempty"`
	CustomerID  string              `json:"customer_id,omitempty"`
	LocationID  string              `json:"location_id,omitempty"`
	SourceType  string              `json:"source_type,omitempty"`
	AmountMoney *Money              `json:"amount_money,omitempty"`
	TotalMoney  *Money              `json:"total_money,omitempty"`
	CardDetails *CardPaymentDetails `json:"card_details,omitempty"`
	ReceiptURL  string              `json:"receipt_url,omitempty"`
	CreatedAt   string              `json:"created_at,omitempty"`
}

// CatalogObject keeps the subset of the catalog union used by the storefront.
type CatalogObject struct {
	Type                  string                `json:"type"`
	ID                    string                `json:"id"`
	UpdatedAt             string                `json:"updated_at,omitempty"`
	IsDeleted             bool                  `json:"is_deleted,omitempty"`
	ItemData              *CatalogItem          `json:"item_data,omitempty"`
	ItemVariationData     *CatalogItemVariation `json:"item_variation_data,omitempty"`
	CategoryData          *CatalogCategory      `json:"category_data,omitempty"`
	ImageData             *CatalogImage         `json:"image_data,omitempty"`
	PresentAtAllLocations bool                  `json:"present_at_all_locations,omitempty"`
}

type CatalogItem struct {
	Name            string               `json:"name,omitempty"`
	Description     string               `json:"description,omitempty"`
	DescriptionHTML string               `json:"description_html,omitempty"`
	Categories      []CatalogCategoryRef `json:"categories,omitempty"`
	CategoryID      string               `json:"category_id,omitempty"`
	ImageIDs        []string             `json:"image_ids,omitempty"`
	Variations      []CatalogObject      `json:"variations,omitempty"`
}

type CatalogCategoryRef struct {
	ID string `json:"id"`
}

type CatalogItemVariation struct {
	ItemID     string   `json:"item_id,omitempty"`
	Name       string   `json:"name,omitempty"`
	SKU        string   `json:"sku,omitempty"`
	PriceMoney *Money   `json:"price_money,omitempty"`
	ImageIDs   []string `json:"image_ids,omitempty"`
}

type CatalogCategory struct {
	Name     string   `json:"name,omitempty"`
	ImageIDs []string `json:"image_ids,omitempty"`
}

type CatalogImage struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// decode re-encodes an SDK value and decodes it into dst.
func decode(src, dst any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode square response: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode square response: %w", err)
	}
	return nil
}
