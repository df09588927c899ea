package square

import (
	"context"

	sq "github.com/square/square-go-sdk"
)

// CreatePayment captures a payment for an order. Callers bind the idempotency key to the
// order so a replayed capture cannot charge twice.
func (c *Client) CreatePayment(ctx context.Context, params PaymentCreateParams) (*Payment, error) {
	params.LocationID = c.locationOr(params.LocationID)
	req := params.toSquareRequest(c.ensureIdempotencyKey("payment", params.IdempotencyKey))
	resp, err := call(ctx, c, "create_payment", map[string]any{
		"location_id": params.LocationID,
		"order_id":    params.OrderID,
		"customer_id": params.CustomerID,
		"amount":      params.AmountCents,
		"source_id":   params.SourceID,
	}, func(ctx context.Context) (*sq.CreatePaymentResponse, error) {
		return c.sdk.Payments.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Payment *Payment `json:"payment"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, decodeFailure("create_payment", err)
	}
	if out.Payment == nil || out.Payment.ID == "" {
		return nil, mapSquareError(emptyResponse("create_payment", "payment"))
	}
	c.log(ctx, "response", "create_payment", map[string]any{"payment_id": out.Payment.ID, "status": out.Payment.Status})
	return out.Payment, nil
}
