package models

import (
	"time"

	"github.com/google/uuid"
)

// SalonRatingResponse is the salon's single reply to a rating.
type SalonRatingResponse struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RatingID        uuid.UUID `gorm:"column:rating_id;type:uuid;not null;uniqueIndex"`
	ResponderUserID uuid.UUID `gorm:"column:responder_user_id;type:uuid;not null"`
	Body            string    `gorm:"column:body;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
