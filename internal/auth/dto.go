package auth

import (
	"github.com/rmjobsites/jobsites-api/internal/users"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest creates a customer account. Names are optional.
type RegisterRequest struct {
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation,omitempty"`
	GivenName            string `json:"given_name,omitempty"`
	FamilyName           string `json:"family_name,omitempty"`
}

// TokenResponse is returned by login and register.
type TokenResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
