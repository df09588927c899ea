package rentals

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmjobsites/jobsites-api/pkg/db/models"
)

const dateLayout = "2006-01-02"

// CreateInput is the rental intake form. Dates use YYYY-MM-DD.
type CreateInput struct {
	CustomerFirstName       string `json:"customer_first_name"`
	CustomerLastName        string `json:"customer_last_name"`
	CustomerEmail           string `json:"customer_email"`
	CustomerPhone           string `json:"customer_phone"`
	EquipmentType           string `json:"equipment_type"`
	PickupDate              string `json:"pickup_date"`
	ReturnDate              string `json:"return_date"`
	RentalAgreementAccepted bool   `json:"rental_agreement_accepted"`
	PaymentMethod           string `json:"payment_method"`
}

// CreateBody wraps the form the way the storefront posts it.
type CreateBody struct {
	EquipmentRentalRequest CreateInput `json:"equipment_rental_request"`
}

// RentalDTO is the full view returned after submission.
type RentalDTO struct {
	ID                      uuid.UUID  `json:"id"`
	UserID                  *uuid.UUID `json:"user_id"`
	CustomerFirstName       string     `json:"customer_first_name"`
	CustomerLastName        string     `json:"customer_last_name"`
	CustomerEmail           string     `json:"customer_email"`
	CustomerPhone           string     `json:"customer_phone"`
	EquipmentType           string     `json:"equipment_type"`
	PickupDate              string     `json:"pickup_date"`
	ReturnDate              string     `json:"return_date"`
	RentalAgreementAccepted bool       `json:"rental_agreement_accepted"`
	PaymentMethod           string     `json:"payment_method"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// ListItem is the compact row shown in the admin list.
type ListItem struct {
	ID            uuid.UUID `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Date          string    `json:"date"`
	Equipment     string    `json:"equipment"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromModel(m models.EquipmentRentalRequest) RentalDTO {
	return RentalDTO{
		ID:                      m.ID,
		UserID:                  m.UserID,
		CustomerFirstName:       m.CustomerFirstName,
		CustomerLastName:        m.CustomerLastName,
		CustomerEmail:           m.CustomerEmail,
		CustomerPhone:           m.CustomerPhone,
		EquipmentType:           m.EquipmentType,
		PickupDate:              m.PickupDate.Format(dateLayout),
		ReturnDate:              m.ReturnDate.Format(dateLayout),
		RentalAgreementAccepted: m.RentalAgreementAccepted,
		PaymentMethod:           m.PaymentMethod,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

func ListItemFromModel(m models.EquipmentRentalRequest) ListItem {
	return ListItem{
		ID:            m.ID,
		CustomerName:  m.CustomerFirstName + " " + m.CustomerLastName,
		CustomerEmail: m.CustomerEmail,
		Date:          m.PickupDate.Format(dateLayout) + " - " + m.ReturnDate.Format(dateLayout),
		Equipment:     m.EquipmentType,
		CreatedAt:     m.CreatedAt,
	}
}
