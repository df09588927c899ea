package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rmjobsites/jobsites-api/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	Admin            bool      `json:"admin"`
	SquareCustomerID *string   `json:"square_customer_id"`
	GivenName        string    `json:"given_name"`
	FamilyName       string    `json:"family_name"`
	PhoneNumber      string    `json:"phone_number"`
	AddressLine1     string    `json:"address_line_1"`
	AddressLine2     string    `json:"address_line_2"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	PostalCode       string    `json:"postal_code"`
	Country          string    `json:"country"`
	CreatedAt        time.Time `json:"created_at"`
}

// AdminSummary is the compact shape used by the assignment picker.
type AdminSummary struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	GivenName  string    `json:"given_name"`
	FamilyName string    `json:"family_name"`
	Name       string    `json:"name"`
	Admin      bool      `json:"admin"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	GivenName    string
	FamilyName   string
	Admin        bool
}

// ProfilePatch carries optional profile values. Nil or blank values are skipped.
type ProfilePatch struct {
	Email        *string
	GivenName    *string
	FamilyName   *string
	PhoneNumber  *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	PostalCode   *string
	Country      *string
}

func (p ProfilePatch) columns() map[string]any {
	out := map[string]any{}
	set := func(column string, value *string) {
		if value == nil {
			return
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			return
		}
		out[column] = trimmed
	}
	if p.Email != nil {
		if email := strings.ToLower(strings.TrimSpace(*p.Email)); email != "" {
			out["email"] = email
		}
	}
	set("given_name", p.GivenName)
	set("family_name", p.FamilyName)
	set("phone_number", p.PhoneNumber)
	set("address_line_1", p.AddressLine1)
	set("address_line_2", p.AddressLine2)
	set("city", p.City)
	set("state", p.State)
	set("postal_code", p.PostalCode)
	set("country", p.Country)
	return out
}

// IsEmpty reports whether the patch would not change anything.
func (p ProfilePatch) IsEmpty() bool {
	return len(p.columns()) == 0
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	var customerID *string
	if u.HasRemoteCustomer() {
		id := *u.RemoteCustomerID
		customerID = &id
	}

	return &UserDTO{
		ID:               u.ID,
		Email:            u.Email,
		Admin:            u.Admin,
		SquareCustomerID: customerID,
		GivenName:        u.GivenName,
		FamilyName:       u.FamilyName,
		PhoneNumber:      u.PhoneNumber,
		AddressLine1:     u.AddressLine1,
		AddressLine2:     u.AddressLine2,
		City:             u.City,
		State:            u.State,
		PostalCode:       u.PostalCode,
		Country:          u.Country,
		CreatedAt:        u.CreatedAt,
	}
}

// SummaryFromModel builds the admin picker entry, using the email when no name is stored.
func SummaryFromModel(u models.User) AdminSummary {
	name := u.FullName()
	if name == "" {
		name = u.Email
	}
	return AdminSummary{
		ID:         u.ID,
		Email:      u.Email,
		GivenName:  u.GivenName,
		FamilyName: u.FamilyName,
		Name:       name,
		Admin:      u.Admin,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		PasswordHash: c.PasswordHash,
		GivenName:    strings.TrimSpace(c.GivenName),
		FamilyName:   strings.TrimSpace(c.FamilyName),
		Admin:        c.Admin,
	}
}
