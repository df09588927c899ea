package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the local identity plus a cached copy of the checkout profile.
type User struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email            string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash     string    `gorm:"column:password_hash;not null"`
	Admin            bool      `gorm:"column:admin;not null;default:false"`
	RemoteCustomerID *string   `gorm:"column:remote_customer_id;index"`
	GivenName        string    `gorm:"column:given_name;not null;default:''"`
	FamilyName       string    `gorm:"column:family_name;not null;default:''"`
	PhoneNumber      string    `gorm:"column:phone_number;not null;default:''"`
	AddressLine1     string    `gorm:"column:address_line_1;not null;default:''"`
	AddressLine2     string    `gorm:"column:address_line_2;not null;default:''"`
	City             string    `gorm:"column:city;not null;default:''"`
	State            string    `gorm:"column:state;not null;default:''"`
	PostalCode       string    `gorm:"column:postal_code;not null;default:''"`
	Country          string    `gorm:"column:country;not null;default:''"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// HasRemoteCustomer reports whether the user is linked to a remote customer.
func (u *User) HasRemoteCustomer() bool {
	return u != nil && u.RemoteCustomerID != nil && strings.TrimSpace(*u.RemoteCustomerID) != ""
}

// FullName joins given and family names, trimming blanks.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.GivenName + " " + u.FamilyName)
}
