package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/rmjobsites/jobsites-api/pkg/checkout"
	"github.com/rmjobsites/jobsites-api/pkg/config"
	"github.com/rmjobsites/jobsites-api/pkg/enums"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
)

const (
	pickupDateLayout = "2006-01-02"

	msgRequiredFields    = "line items, payment token, and customer info are required"
	msgInvalidType       = "invalid fulfillment type"
	msgShippingRequired  = "shipping address with address_line_1, locality, administrative_district_level_1, and postal_code is required"
	msgPickupRequired    = "pickup date and time are required"
	msgInvalidPickupDate = "invalid pickup date format"
	msgPastPickupDate    = "pickup date cannot be in the past"
	msgWeekendPickup     = "pickup not available on weekends"
	msgInvalidPickupTime = "invalid pickup time format"
)

var pickupTimeLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3 PM", "3PM"}

// Validator applies the checkout rules that run before any remote call.
type Validator struct {
	now       func() time.Time
	location  *time.Location
	openHour  int
	closeHour int
	note      string
}

// NewValidator builds a validator for the business timezone and pickup hours.
func NewValidator(cfg config.CheckoutConfig, now func() time.Time) (*Validator, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	open, closing := cfg.PickupOpenHour, cfg.PickupCloseHour
	if open == 0 && closing == 0 {
		open, closing = 8, 17
	}
	if open < 0 || closing > 24 || open >= closing {
		return nil, fmt.Errorf("invalid pickup hours %d-%d", open, closing)
	}
	return &Validator{now: now, location: loc, openHour: open, closeHour: closing, note: cfg.PickupNote}, nil
}

// ValidateCreate checks the required fields, then the line items, then the fulfillment.
func (v *Validator) ValidateCreate(req CreateRequest) (Fulfillment, error) {
	if len(req.LineItems) == 0 || strings.TrimSpace(req.PaymentToken) == "" || req.CustomerInfo == nil || strings.TrimSpace(req.CustomerInfo.Email) == "" {
		return nil, validationError(msgRequiredFields, "required_fields", "")
	}
	if err := checkout.ValidateLineItems(toCheckoutLineItems(req.LineItems)); err != nil {
		return nil, err
	}
	return v.ValidateFulfillment(req.FulfillmentType, req.ShippingAddress, req.PickupDetails)
}

// ValidateFulfillment returns the fulfillment without a recipient, or the first rule it breaks.
func (v *Validator) ValidateFulfillment(kind string, shipping *Address, pickup *PickupDetails) (Fulfillment, error) {
	switch enums.FulfillmentType(kind) {
	case enums.FulfillmentTypeShipment:
		return v.validateShipment(shipping)
	case enums.FulfillmentTypePickup:
		return v.validatePickup(pickup)
	default:
		return nil, validationError(msgInvalidType, "fulfillment_type", "fulfillment_type")
	}
}

func (v *Validator) validateShipment(addr *Address) (Fulfillment, error) {
	if addr == nil {
		return nil, validationError(msgShippingRequired, "shipping_address", "shipping_address")
	}
	required := []struct {
		field string
		value string
	}{
		{"address_line_1", addr.AddressLine1},
		{"locality", addr.Locality},
		{"administrative_district_level_1", addr.AdministrativeDistrictLevel1},
		{"postal_code", addr.PostalCode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, validationError(msgShippingRequired, "shipping_address", "shipping_address."+r.field)
		}
	}
	return Shipment{Address: *addr}, nil
}

func (v *Validator) validatePickup(details *PickupDetails) (Fulfillment, error) {
	if details == nil || strings.TrimSpace(details.Date) == "" || strings.TrimSpace(details.Time) == "" {
		return nil, validationError(msgPickupRequired, "pickup_details", "pickup_details")
	}

	date, err := time.ParseInLocation(pickupDateLayout, strings.TrimSpace(details.Date), v.location)
	if err != nil {
		return nil, validationError(msgInvalidPickupDate, "pickup_date_format", "pickup_details.date")
	}

	now := v.now().In(v.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, v.location)
	if date.Before(today) {
		return nil, validationError(msgPastPickupDate, "pickup_date_past", "pickup_details.date")
	}
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return nil, validationError(msgWeekendPickup, "pickup_weekend", "pickup_details.date")
	}

	clock, err := parsePickupTime(details.Time)
	if err != nil {
		return nil, validationError(msgInvalidPickupTime, "pickup_time_format", "pickup_details.time")
	}
	if clock.Hour() < v.openHour || clock.Hour() >= v.closeHour {
		return nil, validationError(v.hoursMessage(), "pickup_time_hours", "pickup_details.time")
	}

	note := strings.TrimSpace(details.Note)
	if note == "" {
		note = v.note
	}
	return Pickup{
		PickupAt: time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, v.location),
		Note:     note,
	}, nil
}

func (v *Validator) hoursMessage() string {
	return fmt.Sprintf("pickup time must be between %s and %s", clockLabel(v.openHour), clockLabel(v.closeHour))
}

func parsePickupTime(raw string) (time.Time, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	var lastErr error
	for _, layout := range pickupTimeLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// clockLabel renders an hour as "8:00 AM".
func clockLabel(hour int) string {
	return time.Date(2000, 1, 1, hour%24, 0, 0, 0, time.UTC).Format("3:04 PM")
}

func validationError(message, rule, field string) error {
	details := map[string]string{"rule": rule}
	if field != "" {
		details["field"] = field
	}
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(details)
}
