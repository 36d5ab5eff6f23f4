package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/enums"
	"github.com/salonora/salonora-backend/pkg/types"
)

// SalonRating is customer feedback subject to moderation before display.
type SalonRating struct {
	ID                uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SalonID           uuid.UUID          `gorm:"column:salon_id;type:uuid;not null;index"`
	CustomerUserID    uuid.UUID          `gorm:"column:customer_user_id;type:uuid;not null"`
	AppointmentID     *uuid.UUID         `gorm:"column:appointment_id;type:uuid;uniqueIndex"`
	Rating            int                `gorm:"column:rating;not null"`
	CategoryScores    types.Scores       `gorm:"column:category_scores;type:jsonb"`
	Comment           *string            `gorm:"column:comment"`
	Status            enums.RatingStatus `gorm:"column:status;type:rating_status;not null;default:'pending'"`
	RejectReason      *string            `gorm:"column:reject_reason"`
	ModeratedByUserID *uuid.UUID         `gorm:"column:moderated_by_user_id;type:uuid"`
	ModeratedAt       *time.Time         `gorm:"column:moderated_at"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
