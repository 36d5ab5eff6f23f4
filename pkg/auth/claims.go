package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID        uuid.UUID
	ActiveSalonID *uuid.UUID
	Role          enums.MemberRole
	SystemRole    *string
	JTI           string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID        uuid.UUID        `json:"user_id"`
	ActiveSalonID *uuid.UUID       `json:"active_salon_id,omitempty"`
	Role          enums.MemberRole `json:"role"`
	SystemRole    *string          `json:"system_role,omitempty"`
	jwt.RegisteredClaims
}
