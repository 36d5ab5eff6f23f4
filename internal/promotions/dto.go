package promotions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
)

// PlanDTO is the transport shape for a promotion plan.
type PlanDTO struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	DurationDays   int             `json:"duration_days"`
	SearchPriority int             `json:"search_priority"`
	Features       []string        `json:"features,omitempty"`
	IsActive       bool            `json:"is_active"`
}

// PromotionDTO is the transport shape for a purchased promotion.
type PromotionDTO struct {
	ID        uuid.UUID             `json:"id"`
	SalonID   uuid.UUID             `json:"salon_id"`
	ServiceID uuid.UUID             `json:"service_id"`
	PlanID    uuid.UUID             `json:"plan_id"`
	Status    enums.PromotionStatus `json:"status"`
	StartsAt  time.Time             `json:"starts_at"`
	EndsAt    time.Time             `json:"ends_at"`
	CreatedAt time.Time             `json:"created_at"`
}

// CreatePlanInput carries a new promotion plan definition.
type CreatePlanInput struct {
	Name           string          `json:"name" validate:"required"`
	Price          decimal.Decimal `json:"price" validate:"required"`
	DurationDays   int             `json:"duration_days" validate:"required,gt=0"`
	SearchPriority int             `json:"search_priority"`
	Features       []string        `json:"features,omitempty"`
}

// UpdatePlanInput carries the mutable plan fields.
type UpdatePlanInput struct {
	Name           *string          `json:"name,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	DurationDays   *int             `json:"duration_days,omitempty"`
	SearchPriority *int             `json:"search_priority,omitempty"`
	Features       *[]string        `json:"features,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

// PurchaseInput identifies the service and plan for a new promotion.
type PurchaseInput struct {
	ServiceID uuid.UUID  `json:"service_id" validate:"required"`
	PlanID    uuid.UUID  `json:"plan_id" validate:"required"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
}

// AnalyticsDTO reports one promotion's counters for a day.
type AnalyticsDTO struct {
	PromotionID uuid.UUID `json:"promotion_id"`
	Day         time.Time `json:"day"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	Bookings    int64     `json:"bookings"`
}

// PlanFromModel maps a persisted plan into a DTO.
func PlanFromModel(m *models.PromotionPlan) *PlanDTO {
	if m == nil {
		return nil
	}
	return &PlanDTO{
		ID:             m.ID,
		Name:           m.Name,
		Price:          m.Price,
		DurationDays:   m.DurationDays,
		SearchPriority: m.SearchPriority,
		Features:       m.Features,
		IsActive:       m.IsActive,
	}
}

// FromModel maps a persisted promotion into a DTO. The reported status
// reflects elapsed time even before the expiry sweep has run.
func FromModel(m *models.ServicePromotion, now time.Time) *PromotionDTO {
	if m == nil {
		return nil
	}
	return &PromotionDTO{
		ID:        m.ID,
		SalonID:   m.SalonID,
		ServiceID: m.ServiceID,
		PlanID:    m.PlanID,
		Status:    EffectiveStatus(m, now),
		StartsAt:  m.StartsAt,
		EndsAt:    m.EndsAt,
		CreatedAt: m.CreatedAt,
	}
}

// EffectiveStatus reports the promotion status as of now. A stored active
// promotion whose window has elapsed reads as expired regardless of whether
// the sweep has caught up.
func EffectiveStatus(m *models.ServicePromotion, now time.Time) enums.PromotionStatus {
	if m.Status == enums.PromotionStatusActive && !now.Before(m.EndsAt) {
		return enums.PromotionStatusExpired
	}
	return m.Status
}

// AnalyticsFromModel maps persisted counters into a DTO.
func AnalyticsFromModel(m *models.PromotionAnalytics) *AnalyticsDTO {
	if m == nil {
		return nil
	}
	return &AnalyticsDTO{
		PromotionID: m.PromotionID,
		Day:         m.Day,
		Impressions: m.Impressions,
		Clicks:      m.Clicks,
		Bookings:    m.Bookings,
	}
}
