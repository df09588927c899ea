package orders

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rmjobsites/jobsites-api/pkg/config"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
)

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		Timezone:        "America/Denver",
		PickupOpenHour:  8,
		PickupCloseHour: 17,
		PickupNote:      "Bring ID",
	}
}

// testNow is Wednesday 2026-03-04 10:00 in Denver.
func testNow() time.Time {
	loc, err := time.LoadLocation("America/Denver")
	if err != nil {
		panic(err)
	}
	return time.Date(2026, time.March, 4, 10, 0, 0, 0, loc)
}

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(testCheckoutConfig(), testNow)
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	return v
}

func validPickupRequest() CreateRequest {
	return CreateRequest{
		LineItems:       []LineItemInput{{CatalogObjectID: "V1", Quantity: 2}},
		PaymentToken:    "cnon:card-nonce-ok",
		CustomerInfo:    &CustomerInfo{Email: "buyer@example.com", GivenName: "Ada", FamilyName: "Lovelace"},
		FulfillmentType: "PICKUP",
		PickupDetails:   &PickupDetails{Date: "2026-03-05", Time: "09:00"},
	}
}

func validShipmentRequest() CreateRequest {
	req := validPickupRequest()
	req.FulfillmentType = "SHIPMENT"
	req.PickupDetails = nil
	req.ShippingAddress = &Address{
		AddressLine1:                 "1 Main St",
		Locality:                     "Denver",
		AdministrativeDistrictLevel1: "CO",
		PostalCode:                   "80202",
	}
	return req
}

func assertValidation(t *testing.T, err error, message string) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", typed.Code())
	}
	if message != "" && typed.Message() != message {
		t.Fatalf("expected message %q, got %q", message, typed.Message())
	}
}

func TestValidateCreateAcceptsPickup(t *testing.T) {
	v := newTestValidator(t)
	f, err := v.ValidateCreate(validPickupRequest())
	if err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	pickup, ok := f.(Pickup)
	if !ok {
		t.Fatalf("expected Pickup, got %T", f)
	}
	if pickup.PickupAt.Hour() != 9 || pickup.PickupAt.Day() != 5 {
		t.Fatalf("unexpected pickup time %s", pickup.PickupAt)
	}
	if pickup.Note != "Bring ID" {
		t.Fatalf("expected default note, got %q", pickup.Note)
	}
}

func TestValidateCreateRequiredFields(t *testing.T) {
	v := newTestValidator(t)
	cases := map[string]func(*CreateRequest){
		"no line items": func(r *CreateRequest) { r.LineItems = nil },
		"no token":      func(r *CreateRequest) { r.PaymentToken = " " },
		"no customer":   func(r *CreateRequest) { r.CustomerInfo = nil },
		"no email":      func(r *CreateRequest) { r.CustomerInfo.Email = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validPickupRequest()
			mutate(&req)
			_, err := v.ValidateCreate(req)
			assertValidation(t, err, msgRequiredFields)
		})
	}
}

func TestValidateCreateLineItems(t *testing.T) {
	v := newTestValidator(t)
	req := validPickupRequest()
	req.LineItems = []LineItemInput{{VariationID: "V1", Quantity: 1}, {CatalogObjectID: "V2", Quantity: 0}}
	_, err := v.ValidateCreate(req)
	assertValidation(t, err, "invalid line items: 1 rejected")
}

func TestLineItemQuantityAcceptsStrings(t *testing.T) {
	var items []LineItemInput
	body := `[{"catalog_object_id":"V1","quantity":"2"},{"catalog_object_id":"V2","quantity":3},{"catalog_object_id":"V3","quantity":"lots"}]`
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if items[0].Quantity != 2 || items[1].Quantity != 3 || items[2].Quantity != 0 {
		t.Fatalf("unexpected quantities %+v", items)
	}

	v := newTestValidator(t)
	req := validPickupRequest()
	req.LineItems = items
	_, err := v.ValidateCreate(req)
	assertValidation(t, err, "invalid line items: 1 rejected")
}

func TestValidateFulfillmentType(t *testing.T) {
	v := newTestValidator(t)
	for _, kind := range []string{"", "pickup", "DELIVERY", "SHIPMENT "} {
		req := validPickupRequest()
		req.FulfillmentType = kind
		_, err := v.ValidateCreate(req)
		assertValidation(t, err, msgInvalidType)
	}
}

func TestValidateShipmentRequiresEachField(t *testing.T) {
	v := newTestValidator(t)
	if _, err := v.ValidateCreate(validShipmentRequest()); err != nil {
		t.Fatalf("expected valid shipment, got %v", err)
	}

	blanks := map[string]func(*Address){
		"address_line_1":                  func(a *Address) { a.AddressLine1 = "" },
		"locality":                        func(a *Address) { a.Locality = " " },
		"administrative_district_level_1": func(a *Address) { a.AdministrativeDistrictLevel1 = "" },
		"postal_code":                     func(a *Address) { a.PostalCode = "" },
	}
	for field, blank := range blanks {
		t.Run(field, func(t *testing.T) {
			req := validShipmentRequest()
			blank(req.ShippingAddress)
			_, err := v.ValidateCreate(req)
			assertValidation(t, err, msgShippingRequired)
			details, _ := pkgerrors.As(err).Details().(map[string]string)
			if details["field"] != "shipping_address."+field {
				t.Fatalf("expected field %s, got %+v", field, details)
			}
		})
	}

	req := validShipmentRequest()
	req.ShippingAddress = nil
	_, err := v.ValidateCreate(req)
	assertValidation(t, err, msgShippingRequired)
}

func TestValidatePickupDates(t *testing.T) {
	v := newTestValidator(t)
	cases := []struct {
		date    string
		message string
	}{
		{"2026-03-04", ""},
		{"2026-03-03", msgPastPickupDate},
		{"2026-03-07", msgWeekendPickup},
		{"2026-03-08", msgWeekendPickup},
		{"03/05/2026", msgInvalidPickupDate},
	}
	for _, tc := range cases {
		req := validPickupRequest()
		req.PickupDetails.Date = tc.date
		_, err := v.ValidateCreate(req)
		if tc.message == "" {
			if err != nil {
				t.Fatalf("date %s: expected accepted, got %v", tc.date, err)
			}
			continue
		}
		assertValidation(t, err, tc.message)
	}
}

func TestValidatePickupHours(t *testing.T) {
	v := newTestValidator(t)
	cases := []struct {
		value    string
		accepted bool
	}{
		{"07:59", false},
		{"08:00", true},
		{"16:59", true},
		{"17:00", false},
		{"9:30 am", true},
		{"4:45PM", true},
		{"3 PM", true},
		{"5 PM", false},
		{"16:00:00", true},
	}
	for _, tc := range cases {
		req := validPickupRequest()
		req.PickupDetails.Time = tc.value
		_, err := v.ValidateCreate(req)
		if tc.accepted {
			if err != nil {
				t.Fatalf("time %q: expected accepted, got %v", tc.value, err)
			}
			continue
		}
		assertValidation(t, err, "pickup time must be between 8:00 AM and 5:00 PM")
	}
}

func TestValidatePickupTimeFormat(t *testing.T) {
	v := newTestValidator(t)
	req := validPickupRequest()
	req.PickupDetails.Time = "noon"
	_, err := v.ValidateCreate(req)
	assertValidation(t, err, msgInvalidPickupTime)

	req = validPickupRequest()
	req.PickupDetails.Time = ""
	_, err = v.ValidateCreate(req)
	assertValidation(t, err, msgPickupRequired)
}

func TestNewValidatorRejectsBadHours(t *testing.T) {
	cfg := testCheckoutConfig()
	cfg.PickupOpenHour, cfg.PickupCloseHour = 18, 9
	if _, err := NewValidator(cfg, testNow); err == nil {
		t.Fatal("expected error for inverted hours")
	}
	cfg = testCheckoutConfig()
	cfg.Timezone = "Mars/Olympus"
	if _, err := NewValidator(cfg, testNow); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
