package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/types"
)

// Salon represents the canonical tenant model.
type Salon struct {
	ID          uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string               `gorm:"column:name;not null"`
	Slug        string               `gorm:"column:slug;not null;uniqueIndex"`
	Description *string              `gorm:"column:description"`
	Phone       *string              `gorm:"column:phone"`
	Email       *string              `gorm:"column:email"`
	AddressLine string               `gorm:"column:address_line;not null"`
	City        string               `gorm:"column:city;not null"`
	PostalCode  *string              `gorm:"column:postal_code"`
	Schedule    types.WeeklySchedule `gorm:"column:schedule;type:jsonb"`
	LogoURL     *string              `gorm:"column:logo_url"`
	// No default tag: gorm would omit a false value from the INSERT.
	IsActive  bool      `gorm:"column:is_active;not null"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
