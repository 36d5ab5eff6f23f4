package promotions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/internal/catalog"
	"github.com/salonora/salonora-backend/internal/memberships"
	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/outbox"
	"github.com/salonora/salonora-backend/pkg/outbox/payloads"
)

const expiryBatchSize = 200

// Service manages promotion plans, purchases and analytics. Plan mutations
// are reserved for platform admins and are gated at the router.
type Service interface {
	CreatePlan(ctx context.Context, input CreatePlanInput) (*PlanDTO, error)
	UpdatePlan(ctx context.Context, planID uuid.UUID, input UpdatePlanInput) (*PlanDTO, error)
	ListPlans(ctx context.Context, activeOnly bool) ([]PlanDTO, error)

	Purchase(ctx context.Context, actorID, salonID uuid.UUID, input PurchaseInput) (*PromotionDTO, error)
	ListForSalon(ctx context.Context, actorID, salonID uuid.UUID) ([]PromotionDTO, error)
	Cancel(ctx context.Context, actorID, salonID, promotionID uuid.UUID) error

	RecordImpression(ctx context.Context, promotionID uuid.UUID) error
	RecordClick(ctx context.Context, promotionID uuid.UUID) error
	RecordBooking(ctx context.Context, promotionID uuid.UUID) error
	Analytics(ctx context.Context, actorID, salonID, promotionID uuid.UUID, from, to time.Time) ([]AnalyticsDTO, error)

	ExpireElapsed(ctx context.Context) (int, error)
}

// ServiceParams bundles promotion service dependencies.
type ServiceParams struct {
	DB     *db.Client
	Outbox *outbox.Service
	Now    func() time.Time
}

type service struct {
	db     *db.Client
	outbox *outbox.Service
	now    func() time.Time
}

// NewService wires promotion dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{db: params.DB, outbox: params.Outbox, now: now}, nil
}

func (s *service) CreatePlan(ctx context.Context, input CreatePlanInput) (*PlanDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan name is required")
	}
	if input.DurationDays <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "duration must be positive")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	plan := &models.PromotionPlan{
		Name:           strings.TrimSpace(input.Name),
		Price:          input.Price,
		DurationDays:   input.DurationDays,
		SearchPriority: input.SearchPriority,
		Features:       input.Features,
		IsActive:       true,
	}
	var created *models.PromotionPlan
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := NewRepository(tx).CreatePlan(ctx, plan); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create plan")
		}
		created = plan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return PlanFromModel(created), nil
}

func (s *service) UpdatePlan(ctx context.Context, planID uuid.UUID, input UpdatePlanInput) (*PlanDTO, error) {
	var updated *models.PromotionPlan
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		plan, err := repo.FindPlanByID(ctx, planID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan")
		}

		if input.Name != nil {
			trimmed := strings.TrimSpace(*input.Name)
			if trimmed == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "plan name is required")
			}
			plan.Name = trimmed
		}
		if input.Price != nil {
			if input.Price.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
			}
			plan.Price = *input.Price
		}
		if input.DurationDays != nil {
			if *input.DurationDays <= 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "duration must be positive")
			}
			plan.DurationDays = *input.DurationDays
		}
		if input.SearchPriority != nil {
			plan.SearchPriority = *input.SearchPriority
		}
		if input.Features != nil {
			plan.Features = *input.Features
		}
		if input.IsActive != nil {
			plan.IsActive = *input.IsActive
		}

		if err := repo.UpdatePlan(ctx, plan); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update plan")
		}
		updated = plan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return PlanFromModel(updated), nil
}

func (s *service) ListPlans(ctx context.Context, activeOnly bool) ([]PlanDTO, error) {
	var items []PlanDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := NewRepository(tx).ListPlans(ctx, activeOnly)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list plans")
		}
		items = make([]PlanDTO, 0, len(rows))
		for i := range rows {
			items = append(items, *PlanFromModel(&rows[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Purchase starts a promotion for a service. The window always runs plan
// duration days from the start; a service carries at most one active
// promotion at a time.
func (s *service) Purchase(ctx context.Context, actorID, salonID uuid.UUID, input PurchaseInput) (*PromotionDTO, error) {
	if input.ServiceID == uuid.Nil || input.PlanID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service and plan are required")
	}

	now := s.now().UTC()
	startsAt := now
	if input.StartsAt != nil {
		startsAt = input.StartsAt.UTC()
		if startsAt.Before(now) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "start time cannot be in the past")
		}
	}

	var created *models.ServicePromotion
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := requireOwnerOrManager(ctx, tx, actorID, salonID); err != nil {
			return err
		}

		repo := NewRepository(tx)
		plan, err := repo.FindPlanByID(ctx, input.PlanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan")
		}
		if !plan.IsActive {
			return pkgerrors.New(pkgerrors.CodeValidation, "plan is retired")
		}

		svc, err := catalog.NewRepository(tx).FindByID(ctx, input.ServiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
		}
		if svc.SalonID != salonID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "service belongs to another salon")
		}
		if !svc.IsActive {
			return pkgerrors.New(pkgerrors.CodeValidation, "service is inactive")
		}

		active, err := repo.HasActiveForService(ctx, input.ServiceID, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check active promotions")
		}
		if active {
			return pkgerrors.New(pkgerrors.CodeConflict, "service already promoted")
		}

		promotion := &models.ServicePromotion{
			SalonID:   salonID,
			ServiceID: input.ServiceID,
			PlanID:    plan.ID,
			Status:    enums.PromotionStatusActive,
			StartsAt:  startsAt,
			EndsAt:    promotionEndsAt(startsAt, plan.DurationDays),
		}
		if err := repo.Create(ctx, promotion); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promotion")
		}
		created = promotion
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created, now), nil
}

func (s *service) ListForSalon(ctx context.Context, actorID, salonID uuid.UUID) ([]PromotionDTO, error) {
	now := s.now().UTC()
	var items []PromotionDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := requireOwnerOrManager(ctx, tx, actorID, salonID); err != nil {
			return err
		}
		rows, err := NewRepository(tx).ListBySalon(ctx, salonID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promotions")
		}
		items = make([]PromotionDTO, 0, len(rows))
		for i := range rows {
			items = append(items, *FromModel(&rows[i], now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *service) Cancel(ctx context.Context, actorID, salonID, promotionID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := requireOwnerOrManager(ctx, tx, actorID, salonID); err != nil {
			return err
		}

		repo := NewRepository(tx)
		promotion, err := repo.FindByID(ctx, promotionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
		}
		if promotion.SalonID != salonID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "promotion belongs to another salon")
		}

		if err := repo.Cancel(ctx, promotionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "promotion is not active")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel promotion")
		}
		return nil
	})
}

func (s *service) RecordImpression(ctx context.Context, promotionID uuid.UUID) error {
	return s.recordMetric(ctx, promotionID, MetricImpressions)
}

func (s *service) RecordClick(ctx context.Context, promotionID uuid.UUID) error {
	return s.recordMetric(ctx, promotionID, MetricClicks)
}

func (s *service) RecordBooking(ctx context.Context, promotionID uuid.UUID) error {
	return s.recordMetric(ctx, promotionID, MetricBookings)
}

func (s *service) recordMetric(ctx context.Context, promotionID uuid.UUID, metric Metric) error {
	if promotionID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "promotion id required")
	}
	now := s.now().UTC()
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := NewRepository(tx).IncrementMetric(ctx, promotionID, now, metric); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment metric")
		}
		return nil
	})
}

func (s *service) Analytics(ctx context.Context, actorID, salonID, promotionID uuid.UUID, from, to time.Time) ([]AnalyticsDTO, error) {
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "window end precedes start")
	}

	var items []AnalyticsDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := requireOwnerOrManager(ctx, tx, actorID, salonID); err != nil {
			return err
		}

		repo := NewRepository(tx)
		promotion, err := repo.FindByID(ctx, promotionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
		}
		if promotion.SalonID != salonID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "promotion belongs to another salon")
		}

		rows, err := repo.Analytics(ctx, promotionID, from.UTC(), to.UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load analytics")
		}
		items = make([]AnalyticsDTO, 0, len(rows))
		for i := range rows {
			items = append(items, *AnalyticsFromModel(&rows[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ExpireElapsed flips elapsed active promotions to expired and emits one
// event per promotion. Invoked by the cron worker.
func (s *service) ExpireElapsed(ctx context.Context) (int, error) {
	now := s.now().UTC()
	expired := 0
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		rows, err := repo.ListElapsed(ctx, now, expiryBatchSize)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list elapsed promotions")
		}

		for i := range rows {
			promotion := rows[i]
			if err := repo.MarkExpired(ctx, promotion.ID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark promotion expired")
			}

			event := outbox.DomainEvent{
				EventType:     enums.EventPromotionExpired,
				AggregateType: enums.AggregatePromotion,
				AggregateID:   promotion.ID,
				Data: payloads.PromotionExpired{
					PromotionID: promotion.ID,
					SalonID:     promotion.SalonID,
					ServiceID:   promotion.ServiceID,
					EndedAt:     promotion.EndsAt,
				},
				Version:    1,
				OccurredAt: now,
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit expiry event")
			}
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}

// promotionEndsAt derives the window end from the purchased plan duration.
// Days are fixed 24h blocks in UTC, not calendar days.
func promotionEndsAt(startsAt time.Time, durationDays int) time.Time {
	return startsAt.Add(time.Duration(durationDays) * 24 * time.Hour)
}

func requireOwnerOrManager(ctx context.Context, tx *gorm.DB, actorID, salonID uuid.UUID) error {
	ok, err := memberships.NewRepository(tx).UserHasRole(ctx, actorID, salonID, enums.MemberRoleOwner, enums.MemberRoleManager)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient salon role")
	}
	return nil
}
