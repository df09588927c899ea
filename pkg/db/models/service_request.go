package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceRequest is an equipment repair/service intake submitted by a customer.
type ServiceRequest struct {
	ID                          uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	UserID                      *uuid.UUID                `gorm:"column:user_id;type:uuid;index"`
	User                        *User                     `gorm:"foreignKey:UserID"`
	CustomerName                string                    `gorm:"column:customer_name;not null"`
	Company                     string                    `gorm:"column:company;not null"`
	ServiceRequested            string                    `gorm:"column:service_requested;not null"`
	PickupDate                  time.Time                 `gorm:"column:pickup_date;type:date;not null"`
	ReturnDate                  time.Time                 `gorm:"column:return_date;type:date;not null"`
	DroppedOrImpacted           bool                      `gorm:"column:dropped_or_impacted;not null;default:false"`
	NeedsReplacementAccessories bool                      `gorm:"column:needs_replacement_accessories;not null;default:false"`
	NeedsRush                   bool                      `gorm:"column:needs_rush;not null;default:false"`
	NeedsRental                 bool                      `gorm:"column:needs_rental;not null;default:false"`
	Manufacturer                string                    `gorm:"column:manufacturer;not null"`
	Model                       string                    `gorm:"column:model;not null"`
	SerialNumber                string                    `gorm:"column:serial_number;not null"`
	Assignment                  *ServiceRequestAssignment `gorm:"foreignKey:ServiceRequestID"`
	CreatedAt                   time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                   time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *ServiceRequest) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// ServiceRequestAssignment links a service request to the admin handling it. One per request.
type ServiceRequestAssignment struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ServiceRequestID uuid.UUID `gorm:"column:service_request_id;type:uuid;not null;uniqueIndex"`
	AssignedToUserID uuid.UUID `gorm:"column:assigned_to_user_id;type:uuid;not null;index"`
	AssignedTo       *User     `gorm:"foreignKey:AssignedToUserID"`
	AssignedByUserID uuid.UUID `gorm:"column:assigned_by_user_id;type:uuid;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *ServiceRequestAssignment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
