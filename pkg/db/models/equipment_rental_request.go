package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EquipmentRentalRequest is a rental intake submitted from the storefront.
type EquipmentRentalRequest struct {
	ID                      uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID                  *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	CustomerFirstName       string     `gorm:"column:customer_first_name;not null"`
	CustomerLastName        string     `gorm:"column:customer_last_name;not null"`
	CustomerEmail           string     `gorm:"column:customer_email;not null"`
	CustomerPhone           string     `gorm:"column:customer_phone;not null"`
	EquipmentType           string     `gorm:"column:equipment_type;not null"`
	PickupDate              time.Time  `gorm:"column:pickup_date;type:date;not null"`
	ReturnDate              time.Time  `gorm:"column:return_date;type:date;not null"`
	RentalAgreementAccepted bool       `gorm:"column:rental_agreement_accepted;not null;default:false"`
	PaymentMethod           string     `gorm:"column:payment_method;not null;default:''"`
	CreatedAt               time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *EquipmentRentalRequest) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
