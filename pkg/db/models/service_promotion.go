package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/enums"
)

// ServicePromotion is a time-boxed boost purchased for a specific service.
// EndsAt is always StartsAt + plan duration; expiry is owned by the cron worker.
type ServicePromotion struct {
	ID        uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SalonID   uuid.UUID             `gorm:"column:salon_id;type:uuid;not null;index"`
	ServiceID uuid.UUID             `gorm:"column:service_id;type:uuid;not null;index"`
	PlanID    uuid.UUID             `gorm:"column:plan_id;type:uuid;not null"`
	Status    enums.PromotionStatus `gorm:"column:status;type:promotion_status;not null;default:'active'"`
	StartsAt  time.Time             `gorm:"column:starts_at;not null"`
	EndsAt    time.Time             `gorm:"column:ends_at;not null;index"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
