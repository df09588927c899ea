package square

import (
	"context"
	"sort"

	sq "github.com/square/square-go-sdk"
)

// CreateOrder creates an order at the configured location unless params name another.
func (c *Client) CreateOrder(ctx context.Context, params OrderCreateParams) (*Order, error) {
	params.LocationID = c.locationOr(params.LocationID)
	req := &sq.CreateOrderRequest{
		Order:          params.toSquareOrder(),
		IdempotencyKey: ptrString(c.ensureIdempotencyKey("order", params.IdempotencyKey)),
	}
	resp, err := call(ctx, c, "create_order", map[string]any{
		"location_id":  params.LocationID,
		"customer_id":  params.CustomerID,
		"line_items":   len(params.LineItems),
		"fulfillments": len(params.Fulfillments),
	}, func(ctx context.Context) (*sq.CreateOrderResponse, error) {
		return c.sdk.Orders.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	order, err := orderFrom("create_order", resp)
	if err != nil {
		return nil, err
	}
	c.log(ctx, "response", "create_order", map[string]any{"order_id": order.ID, "total": order.TotalMoney.AmountOrZero()})
	return order, nil
}

// CalculateOrder prices an order skeleton without persisting it.
func (c *Client) CalculateOrder(ctx context.Context, params OrderCreateParams) (*Order, error) {
	params.LocationID = c.locationOr(params.LocationID)
	req := &sq.CalculateOrderRequest{Order: params.toSquareOrder()}
	resp, err := call(ctx, c, "calculate_order", map[string]any{
		"location_id": params.LocationID,
		"line_items":  len(params.LineItems),
	}, func(ctx context.Context) (*sq.CalculateOrderResponse, error) {
		return c.sdk.Orders.Calculate(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return orderFrom("calculate_order", resp)
}

// SearchCustomerOrders lists open and completed orders for a customer, newest first.
func (c *Client) SearchCustomerOrders(ctx context.Context, customerID string) ([]Order, error) {
	req := &sq.SearchOrdersRequest{
		LocationIDs: []string{c.locationID},
		Query: &sq.SearchOrdersQuery{
			Filter: &sq.SearchOrdersFilter{
				CustomerFilter: &sq.SearchOrdersCustomerFilter{CustomerIDs: []string{customerID}},
				StateFilter: &sq.SearchOrdersStateFilter{
					States: []sq.OrderState{sq.OrderState("OPEN"), sq.OrderState("COMPLETED")},
				},
			},
		},
	}
	resp, err := call(ctx, c, "search_orders", map[string]any{"customer_id": customerID}, func(ctx context.Context) (*sq.SearchOrdersResponse, error) {
		return c.sdk.Orders.Search(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Orders []Order `json:"orders"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, decodeFailure("search_orders", err)
	}
	// RFC 3339 timestamps sort lexically.
	sort.SliceStable(out.Orders, func(i, j int) bool {
		return out.Orders[i].CreatedAt > out.Orders[j].CreatedAt
	})
	return out.Orders, nil
}

func (c *Client) locationOr(locationID string) string {
	if locationID != "" {
		return locationID
	}
	return c.locationID
}

func orderFrom(op string, resp any) (*Order, error) {
	var out struct {
		Order *Order `json:"order"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, decodeFailure(op, err)
	}
	if out.Order == nil {
		return nil, mapSquareError(emptyResponse(op, "order"))
	}
	return out.Order, nil
}
