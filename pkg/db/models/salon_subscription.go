package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/enums"
)

// SalonSubscription binds a salon to a subscription plan.
type SalonSubscription struct {
	ID               uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SalonID          uuid.UUID                `gorm:"column:salon_id;type:uuid;not null;index"`
	PlanID           uuid.UUID                `gorm:"column:plan_id;type:uuid;not null"`
	Status           enums.SubscriptionStatus `gorm:"column:status;type:subscription_status;not null;default:'active'"`
	CurrentPeriodEnd time.Time                `gorm:"column:current_period_end;not null"`
	CanceledAt       *time.Time               `gorm:"column:canceled_at"`
	CreatedAt        time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
