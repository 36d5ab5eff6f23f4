package models

import (
	"time"

	"github.com/google/uuid"
)

// PromotionAnalytics holds per-day counters for one promotion. Counts only
// move forward; increments are applied with server-side expressions.
type PromotionAnalytics struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PromotionID uuid.UUID `gorm:"column:promotion_id;type:uuid;not null;index:idx_promotion_analytics_day,unique"`
	Day         time.Time `gorm:"column:day;type:date;not null;index:idx_promotion_analytics_day,unique"`
	Impressions int64     `gorm:"column:impressions;not null;default:0"`
	Clicks      int64     `gorm:"column:clicks;not null;default:0"`
	Bookings    int64     `gorm:"column:bookings;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
