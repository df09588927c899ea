package square

import (
	"context"
	"strings"

	sq "github.com/square/square-go-sdk"
)

// SearchCustomersByEmail returns customers whose email matches exactly, in the order Square
// returns them.
func (c *Client) SearchCustomersByEmail(ctx context.Context, email string) ([]Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	req := &sq.SearchCustomersRequest{
		Query: &sq.CustomerQuery{
			Filter: &sq.CustomerFilter{
				EmailAddress: &sq.CustomerTextFilter{Exact: ptrString(email)},
			},
		},
		Limit: int64Ptr(10),
	}
	resp, err := call(ctx, c, "search_customers", map[string]any{"email": email}, func(ctx context.Context) (*sq.SearchCustomersResponse, error) {
		return c.sdk.Customers.Search(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		Customers []Customer `json:"customers"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, decodeFailure("search_customers", err)
	}
	c.log(ctx, "response", "search_customers", map[string]any{"count": len(out.Customers)})
	return out.Customers, nil
}

// CreateCustomer creates a customer. The idempotency key is fixed before the first attempt.
func (c *Client) CreateCustomer(ctx context.Context, params CustomerCreateParams) (*Customer, error) {
	req := params.toSquareRequest(c.ensureIdempotencyKey("customer-create", params.IdempotencyKey))
	resp, err := call(ctx, c, "create_customer", map[string]any{"reference_id": params.ReferenceID}, func(ctx context.Context) (*sq.CreateCustomerResponse, error) {
		return c.sdk.Customers.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	customer, err := customerFrom("create_customer", resp)
	if err != nil {
		return nil, err
	}
	c.log(ctx, "response", "create_customer", map[string]any{"customer_id": customer.ID})
	return customer, nil
}

// UpdateCustomer applies a partial update to an existing customer.
func (c *Client) UpdateCustomer(ctx context.Context, params CustomerUpdateParams) (*Customer, error) {
	req := params.toSquareRequest()
	resp, err := call(ctx, c, "update_customer", map[string]any{"customer_id": params.CustomerID}, func(ctx context.Context) (*sq.UpdateCustomerResponse, error) {
		return c.sdk.Customers.Update(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return customerFrom("update_customer", resp)
}

// GetCustomer fetches one customer by id.
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	req := &sq.GetCustomersRequest{CustomerID: customerID}
	resp, err := call(ctx, c, "get_customer", map[string]any{"customer_id": customerID}, func(ctx context.Context) (*sq.GetCustomerResponse, error) {
		return c.sdk.Customers.Get(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return customerFrom("get_customer", resp)
}

func customerFrom(op string, resp any) (*Customer, error) {
	var out struct {
		Customer *Customer `json:"customer"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, decodeFailure(op, err)
	}
	if out.Customer == nil || out.Customer.ID == "" {
		return nil, mapSquareError(emptyResponse(op, "customer"))
	}
	return out.Customer, nil
}
