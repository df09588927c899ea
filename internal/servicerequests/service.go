package servicerequests

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rmjobsites/jobsites-api/internal/notifications"
	"github.com/rmjobsites/jobsites-api/pkg/db"
	"github.com/rmjobsites/jobsites-api/pkg/db/models"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
)

// Service handles service request intake and admin triage.
type Service interface {
	Create(ctx context.Context, userID *uuid.UUID, in CreateInput) (*ServiceRequestDTO, error)
	List(ctx context.Context) ([]ServiceRequestDTO, error)
	Assign(ctx context.Context, requestID, assignedBy uuid.UUID, in AssignInput) (*ServiceRequestDTO, error)
}

type requestStore interface {
	Create(ctx context.Context, req *models.ServiceRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error)
	List(ctx context.Context) ([]models.ServiceRequest, error)
	UpsertAssignment(ctx context.Context, requestID, assigneeID, assignedBy uuid.UUID) (bool, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type assignmentNotifier interface {
	SendAssignment(ctx context.Context, msg notifications.Assignment) bool
}

// ServiceParams bundles the dependencies for the service request flows.
type ServiceParams struct {
	Requests requestStore
	Users    userLookup
	Notifier assignmentNotifier
	Logger   *logger.Logger
}

type service struct {
	requests requestStore
	users    userLookup
	notifier assignmentNotifier
	logg     *logger.Logger
}

// NewService constructs the service request service.
func NewService(params ServiceParams) (Service, error) {
	if params.Requests == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "service request store required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user store required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		requests: params.Requests,
		users:    params.Users,
		notifier: params.Notifier,
		logg:     params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, userID *uuid.UUID, in CreateInput) (*ServiceRequestDTO, error) {
	pickup, ret, err := parseRange(in.PickupDate, in.ReturnDate)
	if err != nil {
		return nil, err
	}
	model := &models.ServiceRequest{
		UserID:                      userID,
		CustomerName:                strings.TrimSpace(in.CustomerName),
		Company:                     strings.TrimSpace(in.Company),
		ServiceRequested:            strings.TrimSpace(in.ServiceRequested),
		PickupDate:                  pickup,
		ReturnDate:                  ret,
		DroppedOrImpacted:           in.DroppedOrImpacted,
		NeedsReplacementAccessories: in.NeedsReplacementAccessories,
		NeedsRush:                   in.NeedsRush,
		NeedsRental:                 in.NeedsRental,
		Manufacturer:                strings.TrimSpace(in.Manufacturer),
		Model:                       strings.TrimSpace(in.Model),
		SerialNumber:                strings.TrimSpace(in.SerialNumber),
	}
	if err := requireFields(map[string]string{
		"customer_name":     model.CustomerName,
		"company":           model.Company,
		"service_requested": model.ServiceRequested,
		"manufacturer":      model.Manufacturer,
		"model":             model.Model,
		"serial_number":     model.SerialNumber,
	}); err != nil {
		return nil, err
	}
	if err := s.requests.Create(ctx, model); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create service request")
	}
	stored, err := s.requests.FindByID(ctx, model.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload service request")
	}
	dto := FromModel(*stored)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]ServiceRequestDTO, error) {
	rows, err := s.requests.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list service requests")
	}
	out := make([]ServiceRequestDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

// Assign hands the request to an admin and emails them when the assignee changes. The email
// is best-effort.
func (s *service) Assign(ctx context.Context, requestID, assignedBy uuid.UUID, in AssignInput) (*ServiceRequestDTO, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Service request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load service request")
	}
	assignee, err := s.users.FindByID(ctx, in.AssignedToUserID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load assignee")
	}
	if !assignee.Admin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "User must be an admin")
	}

	previous := uuid.Nil
	if req.Assignment != nil {
		previous = req.Assignment.AssignedToUserID
	}
	if _, err := s.requests.UpsertAssignment(ctx, requestID, assignee.ID, assignedBy); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assign service request")
	}

	if previous != assignee.ID {
		s.notify(ctx, req, assignee, assignedBy)
	}

	updated, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload service request")
	}
	dto := FromModel(*updated)
	return &dto, nil
}

func (s *service) notify(ctx context.Context, req *models.ServiceRequest, assignee *models.User, assignedBy uuid.UUID) {
	assignerName := ""
	if assigner, err := s.users.FindByID(ctx, assignedBy); err == nil {
		assignerName = displayName(assigner)
	}
	sent := s.notifier.SendAssignment(ctx, notifications.Assignment{
		RequestID:        req.ID.String(),
		CustomerName:     req.CustomerName,
		Company:          req.Company,
		ServiceRequested: req.ServiceRequested,
		Manufacturer:     req.Manufacturer,
		Model:            req.Model,
		SerialNumber:     req.SerialNumber,
		PickupDate:       req.PickupDate,
		ReturnDate:       req.ReturnDate,
		NeedsRush:        req.NeedsRush,
		AssigneeEmail:    assignee.Email,
		AssigneeName:     displayName(assignee),
		AssignedByName:   assignerName,
	})
	if !sent {
		s.logg.Warn(s.logg.WithField(ctx, "service_request_id", req.ID.String()), "service_request.assignment_email_not_sent")
	}
}

func displayName(u *models.User) string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Email
}

func parseRange(pickupRaw, returnRaw string) (time.Time, time.Time, error) {
	pickup, err := time.Parse(dateLayout, strings.TrimSpace(pickupRaw))
	if err != nil {
		return time.Time{}, time.Time{}, fieldError("pickup_date", "pickup_date must be a date (YYYY-MM-DD)")
	}
	ret, err := time.Parse(dateLayout, strings.TrimSpace(returnRaw))
	if err != nil {
		return time.Time{}, time.Time{}, fieldError("return_date", "return_date must be a date (YYYY-MM-DD)")
	}
	if !ret.After(pickup) {
		return time.Time{}, time.Time{}, fieldError("return_date", "Return date must be after pickup date")
	}
	return pickup, ret, nil
}

func requireFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").WithDetails(map[string]any{"fields": missing})
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]string{"field": field})
}
