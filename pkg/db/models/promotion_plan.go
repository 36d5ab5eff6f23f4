package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// PromotionPlan is a purchasable visibility boost tier for salon services.
type PromotionPlan struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string          `gorm:"column:name;not null"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	DurationDays   int             `gorm:"column:duration_days;not null"`
	SearchPriority int             `gorm:"column:search_priority;not null;default:0"`
	Features       pq.StringArray  `gorm:"column:features;type:text[]"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
