package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rmjobsites/jobsites-api/internal/users"
	"github.com/rmjobsites/jobsites-api/pkg/db"
	"github.com/rmjobsites/jobsites-api/pkg/db/models"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

// SelfAlias addresses the caller's own customer record.
const SelfAlias = "me"

const defaultCountry = "US"

// Actor is the authenticated caller.
type Actor struct {
	UserID uuid.UUID
	Admin  bool
}

// Profile is a remote customer merged with its local owner, or a local stand-in.
type Profile struct {
	square.Customer
	LocalUserID       uuid.UUID `json:"local_user_id"`
	HasSquareCustomer bool      `json:"has_square_customer"`
}

// AddressInput uses the remote address field names.
type AddressInput struct {
	AddressLine1                 string `json:"address_line_1"`
	AddressLine2                 string `json:"address_line_2"`
	Locality                     string `json:"locality"`
	AdministrativeDistrictLevel1 string `json:"administrative_district_level_1"`
	PostalCode                   string `json:"postal_code"`
	Country                      string `json:"country"`
}

// UpdateInput is a partial profile update. Absent fields are left alone.
type UpdateInput struct {
	GivenName   *string       `json:"given_name"`
	FamilyName  *string       `json:"family_name"`
	Email       *string       `json:"email" validate:"omitempty,email"`
	PhoneNumber *string       `json:"phone_number"`
	Address     *AddressInput `json:"address"`
}

// Service backs the customer profile endpoints.
type Service interface {
	Show(ctx context.Context, actor Actor, id string) (*Profile, error)
	Update(ctx context.Context, actor Actor, id string, in UpdateInput) (*Profile, error)
	Orders(ctx context.Context, actor Actor, id string) ([]square.Order, error)
	Cards(ctx context.Context, actor Actor, id string) ([]square.Card, error)
	DeleteCard(ctx context.Context, actor Actor, id, cardID string) error
}

type service struct {
	users    userStore
	gateway  Gateway
	resolver Resolver
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build the profile service.
type ServiceParams struct {
	Users    userStore
	Gateway  Gateway
	Resolver Resolver
	Logger   *logger.Logger
}

// NewService constructs the profile service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user store required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer gateway required")
	}
	if params.Resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer resolver required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		users:    params.Users,
		gateway:  params.Gateway,
		resolver: params.Resolver,
		logg:     params.Logger,
	}, nil
}

func (s *service) Show(ctx context.Context, actor Actor, id string) (*Profile, error) {
	user, err := s.target(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if user.HasRemoteCustomer() {
		customer, err := s.gateway.GetCustomer(ctx, *user.RemoteCustomerID)
		if err == nil {
			return &Profile{Customer: *customer, LocalUserID: user.ID, HasSquareCustomer: true}, nil
		}
		s.logg.Warn(s.logg.WithUserID(ctx, user.ID.String()), "customer.remote_lookup_failed: "+err.Error())
	}
	return localProfile(user), nil
}

func (s *service) Update(ctx context.Context, actor Actor, id string, in UpdateInput) (*Profile, error) {
	user, err := s.target(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateProfile(ctx, user.ID, patchFromUpdate(in))
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}

	if updated.HasRemoteCustomer() {
		params := remoteUpdate(*updated.RemoteCustomerID, in)
		var customer *square.Customer
		if params.IsEmpty() {
			customer, err = s.gateway.GetCustomer(ctx, params.CustomerID)
		} else {
			customer, err = s.gateway.UpdateCustomer(ctx, params)
		}
		if err != nil {
			return nil, err
		}
		return &Profile{Customer: *customer, LocalUserID: updated.ID, HasSquareCustomer: true}, nil
	}

	customer, err := s.resolver.Resolve(ctx, Identity{
		Email:      updated.Email,
		GivenName:  updated.GivenName,
		FamilyName: updated.FamilyName,
	})
	if err != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, updated.ID.String()), "customer.resolve_failed: "+err.Error())
		return localProfile(updated), nil
	}
	if _, err := s.users.LinkRemoteCustomer(ctx, updated.ID, customer.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "link remote customer")
	}
	return &Profile{Customer: *customer, LocalUserID: updated.ID, HasSquareCustomer: true}, nil
}

func (s *service) Orders(ctx context.Context, actor Actor, id string) ([]square.Order, error) {
	user, err := s.target(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !user.HasRemoteCustomer() {
		return []square.Order{}, nil
	}
	orders, err := s.gateway.SearchCustomerOrders(ctx, *user.RemoteCustomerID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []square.Order{}
	}
	return orders, nil
}

func (s *service) Cards(ctx context.Context, actor Actor, id string) ([]square.Card, error) {
	user, err := s.target(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !user.HasRemoteCustomer() {
		return []square.Card{}, nil
	}
	cards, err := s.gateway.ListCustomerCards(ctx, *user.RemoteCustomerID)
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []square.Card{}
	}
	return cards, nil
}

func (s *service) DeleteCard(ctx context.Context, actor Actor, id, cardID string) error {
	if strings.TrimSpace(cardID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Card ID is required")
	}
	user, err := s.target(ctx, actor, id)
	if err != nil {
		return err
	}
	if !user.HasRemoteCustomer() {
		return pkgerrors.New(pkgerrors.CodeNotFound, "No Square customer found")
	}

	cardID = strings.TrimSpace(cardID)
	cards, err := s.gateway.ListCustomerCards(ctx, *user.RemoteCustomerID)
	if err != nil {
		return err
	}
	if !hasCard(cards, cardID) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Card not found")
	}
	_, err = s.gateway.DisableCard(ctx, cardID)
	return err
}

func hasCard(cards []square.Card, cardID string) bool {
	for _, card := range cards {
		if card.ID == cardID {
			return true
		}
	}
	return false
}

// target resolves the addressed user and enforces admin-or-self access.
func (s *service) target(ctx context.Context, actor Actor, id string) (*models.User, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	id = strings.TrimSpace(id)
	var (
		user *models.User
		err  error
	)
	if id == SelfAlias {
		user, err = s.users.FindByID(ctx, actor.UserID)
	} else {
		user, err = s.users.FindByRemoteCustomerID(ctx, id)
	}
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if !actor.Admin && user.ID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Unauthorized")
	}
	return user, nil
}

func localProfile(user *models.User) *Profile {
	id := "local_" + user.ID.String()
	if user.HasRemoteCustomer() {
		id = *user.RemoteCustomerID
	}
	country := user.Country
	if country == "" {
		country = defaultCountry
	}
	return &Profile{
		Customer: square.Customer{
			ID:           id,
			EmailAddress: user.Email,
			GivenName:    user.GivenName,
			FamilyName:   user.FamilyName,
			PhoneNumber:  user.PhoneNumber,
			Address: &square.Address{
				AddressLine1:                 user.AddressLine1,
				AddressLine2:                 user.AddressLine2,
				Locality:                     user.City,
				AdministrativeDistrictLevel1: user.State,
				PostalCode:                   user.PostalCode,
				Country:                      country,
			},
		},
		LocalUserID:       user.ID,
		HasSquareCustomer: false,
	}
}

func patchFromUpdate(in UpdateInput) users.ProfilePatch {
	patch := users.ProfilePatch{
		Email:       in.Email,
		GivenName:   in.GivenName,
		FamilyName:  in.FamilyName,
		PhoneNumber: in.PhoneNumber,
	}
	if a := in.Address; a != nil {
		country := a.Country
		if strings.TrimSpace(country) == "" {
			country = defaultCountry
		}
		patch.AddressLine1 = &a.AddressLine1
		patch.AddressLine2 = &a.AddressLine2
		patch.City = &a.Locality
		patch.State = &a.AdministrativeDistrictLevel1
		patch.PostalCode = &a.PostalCode
		patch.Country = &country
	}
	return patch
}

func remoteUpdate(customerID string, in UpdateInput) square.CustomerUpdateParams {
	params := square.CustomerUpdateParams{
		CustomerID:   customerID,
		GivenName:    in.GivenName,
		FamilyName:   in.FamilyName,
		EmailAddress: in.Email,
		PhoneNumber:  in.PhoneNumber,
	}
	if a := in.Address; a != nil {
		country := strings.TrimSpace(a.Country)
		if country == "" {
			country = defaultCountry
		}
		params.Address = &square.Address{
			AddressLine1:                 a.AddressLine1,
			AddressLine2:                 a.AddressLine2,
			Locality:                     a.Locality,
			AdministrativeDistrictLevel1: a.AdministrativeDistrictLevel1,
			PostalCode:                   a.PostalCode,
			Country:                      country,
		}
	}
	return params
}
