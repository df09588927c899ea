package orders

import (
	"context"
	"strings"

	"github.com/rmjobsites/jobsites-api/pkg/checkout"
	"github.com/rmjobsites/jobsites-api/pkg/enums"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

// Calculate prices the line items remotely. For pickup the remote service charge is
// dropped and the total is recomputed locally.
func (s *service) Calculate(ctx context.Context, req CalculateRequest) (*Calculation, error) {
	if err := checkout.ValidateLineItems(toCheckoutLineItems(req.LineItems)); err != nil {
		return nil, err
	}
	kind := strings.TrimSpace(req.FulfillmentType)
	if kind != "" {
		if _, err := enums.ParseFulfillmentType(kind); err != nil {
			return nil, validationError(msgInvalidType, "fulfillment_type", "fulfillment_type")
		}
	}

	order, err := s.gateway.CalculateOrder(ctx, square.OrderCreateParams{
		LocationID: s.gateway.LocationID(),
		LineItems:  toGatewayLineItems(req.LineItems),
	})
	if err != nil {
		return nil, shapeGatewayError(err, "Failed to calculate order")
	}
	return summarize(order, enums.FulfillmentType(kind)), nil
}

func summarize(order *square.Order, kind enums.FulfillmentType) *Calculation {
	calc := &Calculation{
		Subtotal:  order.Subtotal(),
		Taxes:     order.TotalTaxMoney.AmountOrZero(),
		Shipping:  order.TotalServiceChargeMoney.AmountOrZero(),
		Total:     order.TotalMoney.AmountOrZero(),
		Currency:  order.Currency(),
		LineItems: make([]CalculatedLineItem, 0, len(order.LineItems)),
	}
	for _, item := range order.LineItems {
		calc.LineItems = append(calc.LineItems, CalculatedLineItem{
			CatalogObjectID: item.CatalogObjectID,
			Quantity:        item.Quantity,
			Name:            item.Name,
			Total:           item.TotalMoney.AmountOrZero(),
		})
	}
	if kind == enums.FulfillmentTypePickup {
		calc.Shipping = 0
		calc.Total = calc.Subtotal + calc.Taxes + calc.Shipping
	}
	return calc
}
