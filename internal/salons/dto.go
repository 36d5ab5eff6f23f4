package salons

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/types"
)

// SalonDTO exposes safe tenant data in API responses.
type SalonDTO struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Slug        string               `json:"slug"`
	Description *string              `json:"description,omitempty"`
	Phone       *string              `json:"phone,omitempty"`
	Email       *string              `json:"email,omitempty"`
	AddressLine string               `json:"address_line"`
	City        string               `json:"city"`
	PostalCode  *string              `json:"postal_code,omitempty"`
	Schedule    types.WeeklySchedule `json:"schedule,omitempty"`
	LogoURL     *string              `json:"logo_url,omitempty"`
	IsActive    bool                 `json:"is_active"`
	OwnerID     uuid.UUID            `json:"owner_id"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// CreateSalonDTO holds creation-time data for a new salon.
type CreateSalonDTO struct {
	Name        string
	Slug        string
	Description *string
	Phone       *string
	Email       *string
	AddressLine string
	City        string
	PostalCode  *string
	Schedule    types.WeeklySchedule
	OwnerID     uuid.UUID
}

// FromModel maps the persisted salon into a DTO.
func FromModel(m *models.Salon) *SalonDTO {
	if m == nil {
		return nil
	}

	return &SalonDTO{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		Phone:       m.Phone,
		Email:       m.Email,
		AddressLine: m.AddressLine,
		City:        m.City,
		PostalCode:  m.PostalCode,
		Schedule:    m.Schedule,
		LogoURL:     m.LogoURL,
		IsActive:    m.IsActive,
		OwnerID:     m.OwnerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO, supplying defaults.
func (c CreateSalonDTO) ToModel() *models.Salon {
	return &models.Salon{
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Phone:       c.Phone,
		Email:       c.Email,
		AddressLine: c.AddressLine,
		City:        c.City,
		PostalCode:  c.PostalCode,
		Schedule:    c.Schedule,
		IsActive:    true,
		OwnerID:     c.OwnerID,
	}
}
