package subscriptions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
)

// PlanDTO is the transport shape for a subscription plan.
type PlanDTO struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	Price         decimal.Decimal     `json:"price"`
	BillingPeriod enums.BillingPeriod `json:"billing_period"`
	Features      []string            `json:"features,omitempty"`
	IsActive      bool                `json:"is_active"`
}

// SubscriptionDTO is the transport shape for a salon's subscription.
type SubscriptionDTO struct {
	ID               uuid.UUID                `json:"id"`
	SalonID          uuid.UUID                `json:"salon_id"`
	PlanID           uuid.UUID                `json:"plan_id"`
	Status           enums.SubscriptionStatus `json:"status"`
	CurrentPeriodEnd time.Time                `json:"current_period_end"`
	CanceledAt       *time.Time               `json:"canceled_at,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
}

// CreatePlanInput carries a new subscription plan definition.
type CreatePlanInput struct {
	Name          string              `json:"name" validate:"required"`
	Price         decimal.Decimal     `json:"price" validate:"required"`
	BillingPeriod enums.BillingPeriod `json:"billing_period" validate:"required"`
	Features      []string            `json:"features,omitempty"`
}

// UpdatePlanInput carries the mutable plan fields.
type UpdatePlanInput struct {
	Name     *string          `json:"name,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Features *[]string        `json:"features,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

// PlanFromModel maps a persisted plan into a DTO.
func PlanFromModel(m *models.SubscriptionPlan) *PlanDTO {
	if m == nil {
		return nil
	}
	return &PlanDTO{
		ID:            m.ID,
		Name:          m.Name,
		Price:         m.Price,
		BillingPeriod: m.BillingPeriod,
		Features:      m.Features,
		IsActive:      m.IsActive,
	}
}

// FromModel maps a persisted subscription into a DTO.
func FromModel(m *models.SalonSubscription) *SubscriptionDTO {
	if m == nil {
		return nil
	}
	return &SubscriptionDTO{
		ID:               m.ID,
		SalonID:          m.SalonID,
		PlanID:           m.PlanID,
		Status:           m.Status,
		CurrentPeriodEnd: m.CurrentPeriodEnd,
		CanceledAt:       m.CanceledAt,
		CreatedAt:        m.CreatedAt,
	}
}
