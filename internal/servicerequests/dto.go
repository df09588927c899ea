package servicerequests

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmjobsites/jobsites-api/pkg/db/models"
)

const dateLayout = "2006-01-02"

// CreateInput is the intake form. Dates use YYYY-MM-DD.
type CreateInput struct {
	CustomerName                string `json:"customer_name"`
	Company                     string `json:"company"`
	ServiceRequested            string `json:"service_requested"`
	PickupDate                  string `json:"pickup_date"`
	ReturnDate                  string `json:"return_date"`
	DroppedOrImpacted           bool   `json:"dropped_or_impacted"`
	NeedsReplacementAccessories bool   `json:"needs_replacement_accessories"`
	NeedsRush                   bool   `json:"needs_rush"`
	NeedsRental                 bool   `json:"needs_rental"`
	Manufacturer                string `json:"manufacturer"`
	Model                       string `json:"model"`
	SerialNumber                string `json:"serial_number"`
}

// CreateBody wraps the form the way the storefront posts it.
type CreateBody struct {
	ServiceRequest CreateInput `json:"service_request"`
}

// AssignInput names the admin taking the request.
type AssignInput struct {
	AssignedToUserID uuid.UUID `json:"assigned_to_user_id" validate:"required"`
}

// AssignedUser is the admin currently handling a request.
type AssignedUser struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	GivenName  string    `json:"given_name"`
	FamilyName string    `json:"family_name"`
}

// ServiceRequestDTO is the API view of a service request.
type ServiceRequestDTO struct {
	ID                          uuid.UUID     `json:"id"`
	UserID                      *uuid.UUID    `json:"user_id"`
	CustomerName                string        `json:"customer_name"`
	CustomerEmail               *string       `json:"customer_email"`
	Company                     string        `json:"company"`
	ServiceRequested            string        `json:"service_requested"`
	PickupDate                  string        `json:"pickup_date"`
	ReturnDate                  string        `json:"return_date"`
	DroppedOrImpacted           bool          `json:"dropped_or_impacted"`
	NeedsReplacementAccessories bool          `json:"needs_replacement_accessories"`
	NeedsRush                   bool          `json:"needs_rush"`
	NeedsRental                 bool          `json:"needs_rental"`
	Manufacturer                string        `json:"manufacturer"`
	Model                       string        `json:"model"`
	SerialNumber                string        `json:"serial_number"`
	AssignedUser                *AssignedUser `json:"assigned_user"`
	CreatedAt                   time.Time     `json:"created_at"`
	UpdatedAt                   time.Time     `json:"updated_at"`
}

// FromModel maps a request with its preloaded owner and assignment.
func FromModel(m models.ServiceRequest) ServiceRequestDTO {
	dto := ServiceRequestDTO{
		ID:                          m.ID,
		UserID:                      m.UserID,
		CustomerName:                m.CustomerName,
		Company:                     m.Company,
		ServiceRequested:            m.ServiceRequested,
		PickupDate:                  m.PickupDate.Format(dateLayout),
		ReturnDate:                  m.ReturnDate.Format(dateLayout),
		DroppedOrImpacted:           m.DroppedOrImpacted,
		NeedsReplacementAccessories: m.NeedsReplacementAccessories,
		NeedsRush:                   m.NeedsRush,
		NeedsRental:                 m.NeedsRental,
		Manufacturer:                m.Manufacturer,
		Model:                       m.Model,
		SerialNumber:                m.SerialNumber,
		CreatedAt:                   m.CreatedAt,
		UpdatedAt:                   m.UpdatedAt,
	}
	if m.User != nil {
		email := m.User.Email
		dto.CustomerEmail = &email
	}
	if m.Assignment != nil && m.Assignment.AssignedTo != nil {
		u := m.Assignment.AssignedTo
		dto.AssignedUser = &AssignedUser{ID: u.ID, Email: u.Email, GivenName: u.GivenName, FamilyName: u.FamilyName}
	}
	return dto
}
