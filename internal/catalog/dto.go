package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salonora/salonora-backend/pkg/db/models"
)

// ServiceDTO is the transport shape for a bookable salon service.
type ServiceDTO struct {
	ID              uuid.UUID       `json:"id"`
	SalonID         uuid.UUID       `json:"salon_id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Category        *string         `json:"category,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	IsActive        bool            `json:"is_active"`
	IsAppBookable   bool            `json:"is_app_bookable"`
	ImageURL        *string         `json:"image_url,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateServiceInput captures a new catalog entry.
type CreateServiceInput struct {
	Name            string          `json:"name" validate:"required"`
	Description     *string         `json:"description,omitempty"`
	Category        *string         `json:"category,omitempty"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	DurationMinutes int             `json:"duration_minutes" validate:"required,gt=0"`
	IsAppBookable   *bool           `json:"is_app_bookable,omitempty"`
	ImageURL        *string         `json:"image_url,omitempty"`
}

// UpdateServiceInput captures the mutable catalog fields.
type UpdateServiceInput struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Category        *string          `json:"category,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
	IsAppBookable   *bool            `json:"is_app_bookable,omitempty"`
	ImageURL        *string          `json:"image_url,omitempty"`
}

// FromModel maps a persisted service into a DTO.
func FromModel(m *models.SalonService) *ServiceDTO {
	if m == nil {
		return nil
	}
	return &ServiceDTO{
		ID:              m.ID,
		SalonID:         m.SalonID,
		Name:            m.Name,
		Description:     m.Description,
		Category:        m.Category,
		Price:           m.Price,
		DurationMinutes: m.DurationMinutes,
		IsActive:        m.IsActive,
		IsAppBookable:   m.IsAppBookable,
		ImageURL:        m.ImageURL,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
