package customers

import (
	"context"
	"strings"

	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

// Gateway is the subset of the commerce gateway the customer flows rely on.
type Gateway interface {
	SearchCustomersByEmail(ctx context.Context, email string) ([]square.Customer, error)
	CreateCustomer(ctx context.Context, params square.CustomerCreateParams) (*square.Customer, error)
	UpdateCustomer(ctx context.Context, params square.CustomerUpdateParams) (*square.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*square.Customer, error)
	SearchCustomerOrders(ctx context.Context, customerID string) ([]square.Order, error)
	ListCustomerCards(ctx context.Context, customerID string) ([]square.Card, error)
	DisableCard(ctx context.Context, cardID string) (*square.Card, error)
}

// Identity is what checkout knows about the buyer.
type Identity struct {
	Email       string
	GivenName   string
	FamilyName  string
	PhoneNumber string
	ReferenceID string
}

// Resolver maps an identity to a remote customer with find-or-create semantics.
type Resolver interface {
	Resolve(ctx context.Context, identity Identity) (*square.Customer, error)
}

type resolver struct {
	gateway Gateway
}

// NewResolver builds a resolver bound to the gateway.
func NewResolver(gateway Gateway) (Resolver, error) {
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer gateway required")
	}
	return &resolver{gateway: gateway}, nil
}

// Resolve returns the first exact email match, or creates a customer when there is none.
// Search then create is not atomic, so two concurrent first-time checkouts for the same
// email can each create a customer.
func (r *resolver) Resolve(ctx context.Context, identity Identity) (*square.Customer, error) {
	email := strings.TrimSpace(identity.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}

	existing, err := r.gateway.SearchCustomersByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		found := existing[0]
		return &found, nil
	}

	return r.gateway.CreateCustomer(ctx, square.CustomerCreateParams{
		Email:       email,
		GivenName:   identity.GivenName,
		FamilyName:  identity.FamilyName,
		PhoneNumber: identity.PhoneNumber,
		ReferenceID: identity.ReferenceID,
	})
}
