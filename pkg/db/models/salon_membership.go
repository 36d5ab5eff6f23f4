package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/enums"
)

// SalonMembership links a user with a salon and captures their role/status.
type SalonMembership struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SalonID         uuid.UUID              `gorm:"column:salon_id;type:uuid;not null;index"`
	UserID          uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	Role            enums.MemberRole       `gorm:"column:role;type:member_role;not null"`
	Status          enums.MembershipStatus `gorm:"column:status;type:membership_status;not null"`
	InvitedByUserID *uuid.UUID             `gorm:"column:invited_by_user_id;type:uuid"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
