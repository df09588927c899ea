package rentals

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rmjobsites/jobsites-api/pkg/db/models"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
)

// Service handles equipment rental intake and the admin list.
type Service interface {
	Create(ctx context.Context, userID *uuid.UUID, in CreateInput) (*RentalDTO, error)
	List(ctx context.Context) ([]ListItem, error)
}

type rentalStore interface {
	Create(ctx context.Context, req *models.EquipmentRentalRequest) error
	List(ctx context.Context) ([]models.EquipmentRentalRequest, error)
}

type service struct {
	store    rentalStore
	validate *validator.Validate
}

// NewService constructs the rental service.
func NewService(store rentalStore) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "rental store required")
	}
	return &service{store: store, validate: validator.New()}, nil
}

func (s *service) Create(ctx context.Context, userID *uuid.UUID, in CreateInput) (*RentalDTO, error) {
	model := &models.EquipmentRentalRequest{
		UserID:                  userID,
		CustomerFirstName:       strings.TrimSpace(in.CustomerFirstName),
		CustomerLastName:        strings.TrimSpace(in.CustomerLastName),
		CustomerEmail:           strings.TrimSpace(in.CustomerEmail),
		CustomerPhone:           strings.TrimSpace(in.CustomerPhone),
		EquipmentType:           strings.TrimSpace(in.EquipmentType),
		RentalAgreementAccepted: in.RentalAgreementAccepted,
		PaymentMethod:           strings.TrimSpace(in.PaymentMethod),
	}

	problems := map[string]string{}
	required := map[string]string{
		"customer_first_name": model.CustomerFirstName,
		"customer_last_name":  model.CustomerLastName,
		"customer_email":      model.CustomerEmail,
		"customer_phone":      model.CustomerPhone,
		"equipment_type":      model.EquipmentType,
		"pickup_date":         strings.TrimSpace(in.PickupDate),
		"return_date":         strings.TrimSpace(in.ReturnDate),
	}
	for field, value := range required {
		if value == "" {
			problems[field] = "can't be blank"
		}
	}
	if model.CustomerEmail != "" && s.validate.Var(model.CustomerEmail, "email") != nil {
		problems["customer_email"] = "is invalid"
	}

	var err error
	if required["pickup_date"] != "" {
		if model.PickupDate, err = time.Parse(dateLayout, required["pickup_date"]); err != nil {
			problems["pickup_date"] = "must be a date (YYYY-MM-DD)"
		}
	}
	if required["return_date"] != "" {
		if model.ReturnDate, err = time.Parse(dateLayout, required["return_date"]); err != nil {
			problems["return_date"] = "must be a date (YYYY-MM-DD)"
		}
	}
	if _, bad := problems["pickup_date"]; !bad && !model.PickupDate.IsZero() && !model.ReturnDate.IsZero() {
		if !model.ReturnDate.After(model.PickupDate) {
			problems["return_date"] = "must be after pickup date"
		}
	}
	if !model.RentalAgreementAccepted {
		problems["rental_agreement_accepted"] = "must be accepted"
	}
	if len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid equipment rental request").WithDetails(fullMessages(problems))
	}

	if err := s.store.Create(ctx, model); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create equipment rental request")
	}
	dto := FromModel(*model)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]ListItem, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list equipment rental requests")
	}
	out := make([]ListItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, ListItemFromModel(row))
	}
	return out, nil
}

// fullMessages renders problems as sorted "field message" sentences.
func fullMessages(problems map[string]string) []string {
	out := make([]string, 0, len(problems))
	for field, msg := range problems {
		label := strings.ReplaceAll(field, "_", " ")
		out = append(out, strings.ToUpper(label[:1])+label[1:]+" "+msg)
	}
	sort.Strings(out)
	return out
}
