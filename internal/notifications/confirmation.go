package notifications

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rmjobsites/jobsites-api/pkg/enums"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

const (
	supportEmail     = "support@rmjobsites.com"
	pickupTimeLayout = "Monday, January 02, 2006 at 03:04 PM"
	orderDateLayout  = "January 02, 2006 at 03:04 PM"
)

type lineView struct {
	Name     string
	Quantity string
	Total    string
}

type confirmationView struct {
	OrderID        string
	CustomerName   string
	IsPickup       bool
	NextStep       string
	PickupLocation []string
	PickupTime     string
	PickupNote     string
	ShipTo         string
	ShipLines      []string
	LineItems      []lineView
	Subtotal       string
	Tax            string
	Shipping       string
	Total          string
	PaymentMethod  string
	OrderDate      string
	SupportEmail   string
	Year           int
}

func (s *Sender) confirmationView(msg OrderConfirmation) confirmationView {
	order := msg.Order
	view := confirmationView{
		OrderID:       order.ID,
		CustomerName:  displayName(msg.Customer),
		IsPickup:      msg.FulfillmentType == enums.FulfillmentTypePickup,
		Subtotal:      formatMoney(order.Subtotal()),
		Tax:           formatMoney(order.TotalTaxMoney.AmountOrZero()),
		Shipping:      formatMoney(order.TotalServiceChargeMoney.AmountOrZero()),
		Total:         formatMoney(order.TotalMoney.AmountOrZero()),
		PaymentMethod: paymentMethod(msg.Payment),
		OrderDate:     s.formatTime(order.CreatedAt, orderDateLayout),
		SupportEmail:  supportEmail,
		Year:          s.now().In(s.location).Year(),
	}
	view.NextStep = "shipped"
	if view.IsPickup {
		view.NextStep = "prepared for pickup"
	}

	for _, item := range order.LineItems {
		view.LineItems = append(view.LineItems, lineView{
			Name:     item.Name,
			Quantity: item.Quantity,
			Total:    formatMoney(item.TotalMoney.AmountOrZero()),
		})
	}

	var fulfillment *square.Fulfillment
	if len(order.Fulfillments) > 0 {
		fulfillment = &order.Fulfillments[0]
	}
	switch {
	case view.IsPickup && fulfillment != nil && fulfillment.PickupDetails != nil:
		view.PickupLocation = splitLocation(s.pickupLocation)
		view.PickupTime = "TBD"
		if at := fulfillment.PickupDetails.PickupAt; at != "" {
			view.PickupTime = s.formatTime(at, pickupTimeLayout)
		}
		view.PickupNote = fulfillment.PickupDetails.Note
	case !view.IsPickup && fulfillment != nil && fulfillment.ShipmentDetails != nil:
		if r := fulfillment.ShipmentDetails.Recipient; r != nil {
			view.ShipTo = r.DisplayName
			view.ShipLines = addressLines(r.Address)
		}
		if len(view.ShipLines) == 0 {
			view.ShipLines = []string{"Address not provided"}
		}
	}
	return view
}

func renderConfirmation(view confirmationView) (string, string, error) {
	var text, html bytes.Buffer
	if err := confirmationText.Execute(&text, view); err != nil {
		return "", "", err
	}
	if err := confirmationHTML.Execute(&html, view); err != nil {
		return "", "", err
	}
	return text.String(), html.String(), nil
}

// formatMoney renders minor units as dollars, e.g. 1999 -> $19.99.
func formatMoney(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}

func (s *Sender) formatTime(raw, layout string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return parsed.In(s.location).Format(layout)
}

func displayName(c *square.Customer) string {
	name := strings.TrimSpace(c.GivenName + " " + c.FamilyName)
	if name == "" {
		return c.EmailAddress
	}
	return name
}

func paymentMethod(p *square.Payment) string {
	if p == nil || p.CardDetails == nil || p.CardDetails.Card == nil {
		return "Card on file"
	}
	return p.CardDetails.Card.CardBrand + " ending in " + p.CardDetails.Card.Last4
}

func addressLines(a *square.Address) []string {
	if a.IsZero() {
		return nil
	}
	var lines []string
	for _, l := range []string{a.AddressLine1, a.AddressLine2} {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	var cityStateZip []string
	for _, part := range []string{a.Locality, a.AdministrativeDistrictLevel1, a.PostalCode} {
		if strings.TrimSpace(part) != "" {
			cityStateZip = append(cityStateZip, part)
		}
	}
	if len(cityStateZip) > 0 {
		lines = append(lines, strings.Join(cityStateZip, ", "))
	}
	return lines
}

// splitLocation turns "street, city, state zip" into a street line and a locality line.
func splitLocation(location string) []string {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil
	}
	street, rest, found := strings.Cut(location, ",")
	if !found {
		return []string{location}
	}
	return []string{strings.TrimSpace(street), strings.TrimSpace(rest)}
}

var confirmationText = texttemplate.Must(texttemplate.New("confirmation.txt").Parse(`THANK YOU FOR YOUR ORDER!

Order #{{.OrderID}}

Hi {{.CustomerName}},

We've received your order and will process it shortly. You'll receive another email when your order has been {{.NextStep}}.
{{if .PickupLocation}}
PICKUP INFORMATION
==================
Location:
{{range .PickupLocation}}{{.}}
{{end}}
Scheduled Pickup: {{.PickupTime}}
{{.PickupNote}}
{{else if .ShipLines}}
SHIPPING INFORMATION
====================
Ship To:
{{.ShipTo}}
{{range .ShipLines}}{{.}}
{{end}}{{end}}
ORDER SUMMARY
=============
{{range .LineItems}}
{{.Name}} (Qty: {{.Quantity}}) - {{.Total}}{{end}}

Subtotal: {{.Subtotal}}
Tax: {{.Tax}}
Shipping: {{.Shipping}}
----------------------------------
Total: {{.Total}}

PAYMENT & ORDER INFO
====================
Payment Method: {{.PaymentMethod}}
Order Date: {{.OrderDate}}

Questions about your order? Contact us at {{.SupportEmail}}

(c) {{.Year}} RM Jobsites. All rights reserved.
`))

var confirmationHTML = htmltemplate.Must(htmltemplate.New("confirmation.html").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Order Confirmation</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #374151; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #111827; margin-bottom: 8px;">Thank You for Your Order!</h1>
    <p style="color: #6b7280; margin: 0;">Order #{{.OrderID}}</p>
  </div>
  <div style="background-color: #f9fafb; padding: 20px; border-radius: 8px; margin-bottom: 24px;">
    <p style="margin: 0 0 8px 0;">Hi {{.CustomerName}},</p>
    <p style="margin: 0;">We've received your order and will process it shortly. You'll receive another email when your order has been {{.NextStep}}.</p>
  </div>
  {{if .PickupLocation}}
  <div style="background-color: #f3f4f6; padding: 16px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #374151;">Pickup Information</h3>
    <p style="margin: 8px 0;"><strong>Location:</strong>{{range .PickupLocation}}<br/>{{.}}{{end}}</p>
    <p style="margin: 8px 0;"><strong>Scheduled Pickup:</strong> {{.PickupTime}}</p>
    <p style="margin: 8px 0; color: #6b7280; font-size: 14px;">{{.PickupNote}}</p>
  </div>
  {{else if .ShipLines}}
  <div style="background-color: #f3f4f6; padding: 16px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #374151;">Shipping Information</h3>
    <p style="margin: 8px 0;"><strong>Ship To:</strong><br/>{{.ShipTo}}{{range .ShipLines}}<br/>{{.}}{{end}}</p>
  </div>
  {{end}}
  <h2 style="color: #374151; border-bottom: 2px solid #e5e7eb; padding-bottom: 8px;">Order Summary</h2>
  <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
    <thead>
      <tr style="background-color: #f9fafb;">
        <th style="padding: 12px; text-align: left; border-bottom: 2px solid #e5e7eb;">Item</th>
        <th style="padding: 12px; text-align: center; border-bottom: 2px solid #e5e7eb;">Qty</th>
        <th style="padding: 12px; text-align: right; border-bottom: 2px solid #e5e7eb;">Price</th>
      </tr>
    </thead>
    <tbody>
      {{range .LineItems}}
      <tr>
        <td style="padding: 12px; border-bottom: 1px solid #e5e7eb;">{{.Name}}</td>
        <td style="padding: 12px; border-bottom: 1px solid #e5e7eb; text-align: center;">{{.Quantity}}</td>
        <td style="padding: 12px; border-bottom: 1px solid #e5e7eb; text-align: right;">{{.Total}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <div style="margin: 24px 0; padding: 16px; background-color: #f9fafb; border-radius: 8px;">
    <p style="margin: 8px 0;">Subtotal: {{.Subtotal}}</p>
    <p style="margin: 8px 0;">Tax: {{.Tax}}</p>
    <p style="margin: 8px 0;">Shipping: {{.Shipping}}</p>
    <p style="margin: 16px 0 0 0; padding-top: 12px; border-top: 2px solid #e5e7eb; font-size: 18px; font-weight: bold;">Total: {{.Total}}</p>
  </div>
  <div style="background-color: #f3f4f6; padding: 16px; border-radius: 8px; margin: 20px 0;">
    <p style="margin: 0 0 8px 0;"><strong>Payment Method:</strong> {{.PaymentMethod}}</p>
    <p style="margin: 0;"><strong>Order Date:</strong> {{.OrderDate}}</p>
  </div>
  <div style="margin-top: 32px; padding-top: 20px; border-top: 1px solid #e5e7eb; text-align: center; color: #6b7280; font-size: 14px;">
    <p>Questions about your order? Contact us at <a href="mailto:{{.SupportEmail}}" style="color: #2563eb;">{{.SupportEmail}}</a></p>
    <p style="margin-top: 16px;">&copy; {{.Year}} RM Jobsites. All rights reserved.</p>
  </div>
</body>
</html>
`))
