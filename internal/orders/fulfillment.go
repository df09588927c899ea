package orders

import (
	"strings"
	"time"

	"github.com/rmjobsites/jobsites-api/pkg/enums"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

// Fulfillment is either a Pickup or a Shipment. The marker method keeps the set closed.
type Fulfillment interface {
	Type() enums.FulfillmentType
	WithRecipient(r Recipient) Fulfillment
	toGateway() square.Fulfillment
	isFulfillment()
}

// Recipient is the person collecting or receiving the order.
type Recipient struct {
	DisplayName string
	Email       string
	Phone       string
}

// RecipientFor joins the given and family names, falling back to the email when both are blank.
func RecipientFor(info CustomerInfo) Recipient {
	name := strings.TrimSpace(strings.TrimSpace(info.GivenName) + " " + strings.TrimSpace(info.FamilyName))
	email := strings.TrimSpace(info.Email)
	if name == "" {
		name = email
	}
	return Recipient{DisplayName: name, Email: email, Phone: strings.TrimSpace(info.PhoneNumber)}
}

// Pickup is collected at the shop at PickupAt.
type Pickup struct {
	Recipient Recipient
	PickupAt  time.Time
	Note      string
}

// Shipment is delivered to Address.
type Shipment struct {
	Recipient Recipient
	Address   Address
}

func (Pickup) Type() enums.FulfillmentType   { return enums.FulfillmentTypePickup }
func (Shipment) Type() enums.FulfillmentType { return enums.FulfillmentTypeShipment }

func (Pickup) isFulfillment()   {}
func (Shipment) isFulfillment() {}

func (p Pickup) WithRecipient(r Recipient) Fulfillment {
	p.Recipient = r
	return p
}

func (s Shipment) WithRecipient(r Recipient) Fulfillment {
	s.Recipient = r
	return s
}

func (p Pickup) toGateway() square.Fulfillment {
	return square.Fulfillment{
		Type: string(enums.FulfillmentTypePickup),
		PickupDetails: &square.PickupDetails{
			Recipient: p.Recipient.toGateway(nil),
			PickupAt:  p.PickupAt.Format(time.RFC3339),
			Note:      p.Note,
		},
	}
}

func (s Shipment) toGateway() square.Fulfillment {
	return square.Fulfillment{
		Type: string(enums.FulfillmentTypeShipment),
		ShipmentDetails: &square.ShipmentDetails{
			Recipient: s.Recipient.toGateway(s.Address.toGateway()),
		},
	}
}

func (r Recipient) toGateway(addr *square.Address) *square.Recipient {
	return &square.Recipient{
		DisplayName:  r.DisplayName,
		EmailAddress: r.Email,
		PhoneNumber:  r.Phone,
		Address:      addr,
	}
}
