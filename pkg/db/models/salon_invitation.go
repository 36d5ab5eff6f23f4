package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/enums"
)

// SalonInvitation tracks an outstanding staff invite keyed by email.
type SalonInvitation struct {
	ID              uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SalonID         uuid.UUID              `gorm:"column:salon_id;type:uuid;not null;index"`
	Email           string                 `gorm:"column:email;not null"`
	Role            enums.MemberRole       `gorm:"column:role;type:member_role;not null"`
	Status          enums.InvitationStatus `gorm:"column:status;type:invitation_status;not null;default:'pending'"`
	Token           string                 `gorm:"column:token;not null;uniqueIndex"`
	InvitedByUserID uuid.UUID              `gorm:"column:invited_by_user_id;type:uuid;not null"`
	ExpiresAt       time.Time              `gorm:"column:expires_at;not null"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
