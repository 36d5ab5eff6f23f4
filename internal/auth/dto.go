package auth

import (
	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/internal/users"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SalonSummary describes the salon metadata returned after login.
type SalonSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Slug    string    `json:"slug"`
	LogoURL *string   `json:"logo_url,omitempty"`
}

// LoginResponse contains the tokens, user, and salon list produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	Salons       []SalonSummary `json:"salons"`
	User         *users.UserDTO `json:"user"`
}

// AdminLoginResponse mirrors LoginResponse while exposing the admin user.
type AdminLoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest carries the refresh token presented for rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SwitchSalonRequest selects the active salon for subsequent requests.
type SwitchSalonRequest struct {
	SalonID uuid.UUID `json:"salon_id" validate:"required"`
}
