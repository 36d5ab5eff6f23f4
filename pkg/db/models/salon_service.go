package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalonService is a bookable catalog entry owned by a salon.
type SalonService struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SalonID         uuid.UUID       `gorm:"column:salon_id;type:uuid;not null;index"`
	Name            string          `gorm:"column:name;not null"`
	Description     *string         `gorm:"column:description"`
	Category        *string         `gorm:"column:category"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	DurationMinutes int             `gorm:"column:duration_minutes;not null"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true"`
	IsAppBookable   bool            `gorm:"column:is_app_bookable;not null;default:true"`
	ImageURL        *string         `gorm:"column:image_url"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
