package ratings

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	"github.com/salonora/salonora-backend/pkg/types"
)

// RatingDTO is the transport shape for a rating.
type RatingDTO struct {
	ID             uuid.UUID          `json:"id"`
	SalonID        uuid.UUID          `json:"salon_id"`
	CustomerUserID uuid.UUID          `json:"customer_user_id"`
	AppointmentID  *uuid.UUID         `json:"appointment_id,omitempty"`
	Rating         int                `json:"rating"`
	CategoryScores types.Scores       `json:"category_scores,omitempty"`
	Comment        *string            `json:"comment,omitempty"`
	Status         enums.RatingStatus `json:"status"`
	RejectReason   *string            `json:"reject_reason,omitempty"`
	Response       *ResponseDTO       `json:"response,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// ResponseDTO is the salon's reply attached to a rating.
type ResponseDTO struct {
	ID              uuid.UUID `json:"id"`
	RatingID        uuid.UUID `json:"rating_id"`
	ResponderUserID uuid.UUID `json:"responder_user_id"`
	Body            string    `json:"body"`
	CreatedAt       time.Time `json:"created_at"`
}

// SubmitInput carries a new customer rating.
type SubmitInput struct {
	SalonID        uuid.UUID    `json:"salon_id" validate:"required"`
	AppointmentID  *uuid.UUID   `json:"appointment_id,omitempty"`
	Rating         int          `json:"rating" validate:"required,min=1,max=5"`
	CategoryScores types.Scores `json:"category_scores,omitempty"`
	Comment        *string      `json:"comment,omitempty"`
}

// ModerateInput carries an admin moderation decision.
type ModerateInput struct {
	Approve      bool    `json:"approve"`
	RejectReason *string `json:"reject_reason,omitempty"`
}

// StatsDTO aggregates the approved ratings of a salon.
type StatsDTO struct {
	SalonID       uuid.UUID          `json:"salon_id"`
	Count         int64              `json:"count"`
	Average       float64            `json:"average"`
	Distribution  map[int]int64      `json:"distribution"`
	CategoryMeans map[string]float64 `json:"category_means,omitempty"`
}

// FromModel maps a persisted rating into a DTO.
func FromModel(m *models.SalonRating) *RatingDTO {
	if m == nil {
		return nil
	}
	return &RatingDTO{
		ID:             m.ID,
		SalonID:        m.SalonID,
		CustomerUserID: m.CustomerUserID,
		AppointmentID:  m.AppointmentID,
		Rating:         m.Rating,
		CategoryScores: m.CategoryScores,
		Comment:        m.Comment,
		Status:         m.Status,
		RejectReason:   m.RejectReason,
		CreatedAt:      m.CreatedAt,
	}
}

// ResponseFromModel maps a persisted response into a DTO.
func ResponseFromModel(m *models.SalonRatingResponse) *ResponseDTO {
	if m == nil {
		return nil
	}
	return &ResponseDTO{
		ID:              m.ID,
		RatingID:        m.RatingID,
		ResponderUserID: m.ResponderUserID,
		Body:            m.Body,
		CreatedAt:       m.CreatedAt,
	}
}
