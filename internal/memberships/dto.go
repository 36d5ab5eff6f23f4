package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
)

// MembershipDTO is the transport shape for a raw membership record.
type MembershipDTO struct {
	ID              uuid.UUID              `json:"id"`
	SalonID         uuid.UUID              `json:"salon_id"`
	UserID          uuid.UUID              `json:"user_id"`
	Role            enums.MemberRole       `json:"role"`
	Status          enums.MembershipStatus `json:"status"`
	InvitedByUserID *uuid.UUID             `json:"invited_by_user_id,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// MembershipWithSalon includes basic salon metadata + membership info.
type MembershipWithSalon struct {
	MembershipID    uuid.UUID              `json:"membership_id"`
	SalonID         uuid.UUID              `json:"salon_id"`
	UserID          uuid.UUID              `json:"user_id"`
	SalonName       string                 `json:"salon_name"`
	SalonSlug       string                 `json:"salon_slug"`
	Role            enums.MemberRole       `json:"role"`
	Status          enums.MembershipStatus `json:"status"`
	InvitedByUserID *uuid.UUID             `json:"invited_by_user_id,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// SalonStaffDTO mixes membership metadata with the associated user profile for salon admins.
type SalonStaffDTO struct {
	MembershipID uuid.UUID              `json:"membership_id"`
	SalonID      uuid.UUID              `json:"salon_id"`
	UserID       uuid.UUID              `json:"user_id"`
	Email        string                 `json:"email"`
	FirstName    string                 `json:"first_name"`
	LastName     string                 `json:"last_name"`
	Role         enums.MemberRole       `json:"role"`
	Status       enums.MembershipStatus `json:"membership_status"`
	CreatedAt    time.Time              `json:"created_at"`
	LastLoginAt  *time.Time             `json:"last_login_at,omitempty"`
}

// ToDTO converts a model to the external DTO.
func ToDTO(m *models.SalonMembership) *MembershipDTO {
	if m == nil {
		return nil
	}

	return &MembershipDTO{
		ID:              m.ID,
		SalonID:         m.SalonID,
		UserID:          m.UserID,
		Role:            m.Role,
		Status:          m.Status,
		InvitedByUserID: copyUUIDPointer(m.InvitedByUserID),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func copyUUIDPointer(src *uuid.UUID) *uuid.UUID {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
