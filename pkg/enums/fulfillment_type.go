package enums

import (
	"fmt"
	"strings"
)

// FulfillmentType selects how purchased goods reach the customer.
type FulfillmentType string

const (
	FulfillmentTypePickup   FulfillmentType = "PICKUP"
	FulfillmentTypeShipment FulfillmentType = "SHIPMENT"
)

var validFulfillmentTypes = []FulfillmentType{
	FulfillmentTypePickup,
	FulfillmentTypeShipment,
}

// String implements fmt.Stringer.
func (f FulfillmentType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FulfillmentType.
func (f FulfillmentType) IsValid() bool {
	for _, candidate := range validFulfillmentTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFulfillmentType converts raw input into a FulfillmentType. Matching is exact.
func ParseFulfillmentType(value string) (FulfillmentType, error) {
	for _, candidate := range validFulfillmentTypes {
		if string(candidate) == strings.TrimSpace(value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fulfillment type %q", value)
}
