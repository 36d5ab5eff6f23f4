package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/salonora/salonora-backend/pkg/enums"
)

// SubscriptionPlan is a salon-level billing tier.
type SubscriptionPlan struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	BillingPeriod enums.BillingPeriod `gorm:"column:billing_period;type:billing_period;not null"`
	Features      pq.StringArray      `gorm:"column:features;type:text[]"`
	IsActive      bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
