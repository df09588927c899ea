package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/rmjobsites/jobsites-api/internal/users"
	"github.com/rmjobsites/jobsites-api/pkg/db/models"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

type userStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByRemoteCustomerID(ctx context.Context, customerID string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch users.ProfilePatch) (*models.User, error)
	LinkRemoteCustomer(ctx context.Context, id uuid.UUID, customerID string) (bool, error)
}

// SyncInput is the checkout data that may refresh the local profile.
type SyncInput struct {
	User        *models.User
	CustomerID  string
	GivenName   string
	FamilyName  string
	PhoneNumber string
	// Shipping is set only for shipment checkouts. It is cached locally and pushed remotely.
	Shipping *square.Address
}

// SyncResult reports what the synchronizer changed.
type SyncResult struct {
	User          *models.User
	Linked        bool
	RemoteUpdated bool
}

// ProfileSync keeps the cached local profile in step with checkout input.
type ProfileSync interface {
	Sync(ctx context.Context, in SyncInput) (SyncResult, error)
}

type profileSync struct {
	users   userStore
	gateway Gateway
	logg    *logger.Logger
}

// NewProfileSync builds the synchronizer.
func NewProfileSync(store userStore, gateway Gateway, logg *logger.Logger) (ProfileSync, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user store required")
	}
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer gateway required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &profileSync{users: store, gateway: gateway, logg: logg}, nil
}

// Sync links the user to the resolved customer when no link exists, writes the non-blank
// profile values, then pushes a supplied shipping address to the remote customer. The
// returned error only covers local writes. Remote push failures are logged.
func (s *profileSync) Sync(ctx context.Context, in SyncInput) (SyncResult, error) {
	result := SyncResult{User: in.User}
	if in.User == nil {
		return result, nil
	}

	var errs error
	linked, err := s.users.LinkRemoteCustomer(ctx, in.User.ID, in.CustomerID)
	if err != nil {
		errs = multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "link remote customer"))
	}
	result.Linked = linked

	patch := patchFromCheckout(in)
	if linked || !patch.IsEmpty() {
		updated, err := s.users.UpdateProfile(ctx, in.User.ID, patch)
		if err != nil {
			errs = multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update local profile"))
		} else {
			result.User = updated
		}
	}

	if in.Shipping.IsZero() || strings.TrimSpace(in.CustomerID) == "" {
		return result, errs
	}
	if _, err := s.gateway.UpdateCustomer(ctx, square.CustomerUpdateParams{
		CustomerID: in.CustomerID,
		Address:    in.Shipping,
	}); err != nil {
		ctx = s.logg.WithField(ctx, "customer_id", in.CustomerID)
		s.logg.Warn(ctx, "profile.remote_address_update_failed: "+err.Error())
		return result, errs
	}
	result.RemoteUpdated = true
	return result, errs
}

func patchFromCheckout(in SyncInput) users.ProfilePatch {
	patch := users.ProfilePatch{
		GivenName:   &in.GivenName,
		FamilyName:  &in.FamilyName,
		PhoneNumber: &in.PhoneNumber,
	}
	if addr := in.Shipping; !addr.IsZero() {
		patch.AddressLine1 = &addr.AddressLine1
		patch.AddressLine2 = &addr.AddressLine2
		patch.City = &addr.Locality
		patch.State = &addr.AdministrativeDistrictLevel1
		patch.PostalCode = &addr.PostalCode
		patch.Country = &addr.Country
	}
	return patch
}
