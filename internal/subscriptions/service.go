package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/internal/memberships"
	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/outbox"
	"github.com/salonora/salonora-backend/pkg/outbox/payloads"
)

// Service manages subscription plans and salon billing state. Plan mutations
// are reserved for platform admins and are gated at the router.
type Service interface {
	CreatePlan(ctx context.Context, input CreatePlanInput) (*PlanDTO, error)
	UpdatePlan(ctx context.Context, planID uuid.UUID, input UpdatePlanInput) (*PlanDTO, error)
	ListPlans(ctx context.Context, activeOnly bool) ([]PlanDTO, error)

	Subscribe(ctx context.Context, actorID, salonID, planID uuid.UUID) (*SubscriptionDTO, error)
	Current(ctx context.Context, actorID, salonID uuid.UUID) (*SubscriptionDTO, error)
	History(ctx context.Context, actorID, salonID uuid.UUID) ([]SubscriptionDTO, error)
	Cancel(ctx context.Context, actorID, salonID uuid.UUID) error

	ExpireElapsed(ctx context.Context) (int64, error)
}

// ServiceParams bundles subscription service dependencies.
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

// NewService wires subscription dependencies.
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
	if !input.BillingPeriod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid billing period")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	plan := &models.SubscriptionPlan{
		Name:          strings.TrimSpace(input.Name),
		Price:         input.Price,
		BillingPeriod: input.BillingPeriod,
		Features:      input.Features,
		IsActive:      true,
	}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := NewRepository(tx).CreatePlan(ctx, plan); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create plan")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return PlanFromModel(plan), nil
}

func (s *service) UpdatePlan(ctx context.Context, planID uuid.UUID, input UpdatePlanInput) (*PlanDTO, error) {
	var updated *models.SubscriptionPlan
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

// Subscribe puts the salon on the plan. An existing active subscription is
// canceled first, so switching plans is a cancel-and-replace in one
// transaction. The period end is the plan's billing period from now.
func (s *service) Subscribe(ctx context.Context, actorID, salonID, planID uuid.UUID) (*SubscriptionDTO, error) {
	if planID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan id required")
	}

	now := s.now().UTC()
	var created *models.SalonSubscription
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := requireOwner(ctx, tx, actorID, salonID); err != nil {
			return err
		}

		repo := NewRepository(tx)
		plan, err := repo.FindPlanByID(ctx, planID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan")
		}
		if !plan.IsActive {
			return pkgerrors.New(pkgerrors.CodeValidation, "plan is retired")
		}

		current, err := repo.FindActiveBySalon(ctx, salonID)
		if err == nil {
			if current.PlanID == planID {
				return pkgerrors.New(pkgerrors.CodeConflict, "already subscribed to plan")
			}
			if err := repo.Cancel(ctx, current.ID, now); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel current subscription")
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current subscription")
		}

		subscription := &models.SalonSubscription{
			SalonID:          salonID,
			PlanID:           planID,
			Status:           enums.SubscriptionStatusActive,
			CurrentPeriodEnd: now.AddDate(0, plan.BillingPeriod.Months(), 0),
		}
		if err := repo.Create(ctx, subscription); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription")
		}

		if err := s.emitChanged(ctx, tx, subscription, actorID, now); err != nil {
			return err
		}
		created = subscription
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) Current(ctx context.Context, actorID, salonID uuid.UUID) (*SubscriptionDTO, error) {
	var dto *SubscriptionDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := requireOwner(ctx, tx, actorID, salonID); err != nil {
			return err
		}
		subscription, err := NewRepository(tx).FindActiveBySalon(ctx, salonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "no active subscription")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
		}
		dto = FromModel(subscription)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) History(ctx context.Context, actorID, salonID uuid.UUID) ([]SubscriptionDTO, error) {
	var items []SubscriptionDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := requireOwner(ctx, tx, actorID, salonID); err != nil {
			return err
		}
		rows, err := NewRepository(tx).ListBySalon(ctx, salonID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
		}
		items = make([]SubscriptionDTO, 0, len(rows))
		for i := range rows {
			items = append(items, *FromModel(&rows[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *service) Cancel(ctx context.Context, actorID, salonID uuid.UUID) error {
	now := s.now().UTC()
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := requireOwner(ctx, tx, actorID, salonID); err != nil {
			return err
		}

		repo := NewRepository(tx)
		subscription, err := repo.FindActiveBySalon(ctx, salonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "no active subscription")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
		}

		if err := repo.Cancel(ctx, subscription.ID, now); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "subscription is not active")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel subscription")
		}

		subscription.Status = enums.SubscriptionStatusCanceled
		subscription.CanceledAt = &now
		return s.emitChanged(ctx, tx, subscription, actorID, now)
	})
}

// ExpireElapsed flips active subscriptions whose period ended. Invoked by
// the cron worker.
func (s *service) ExpireElapsed(ctx context.Context) (int64, error) {
	now := s.now().UTC()
	var affected int64
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := NewRepository(tx).ExpireElapsed(ctx, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire subscriptions")
		}
		affected = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (s *service) emitChanged(ctx context.Context, tx *gorm.DB, subscription *models.SalonSubscription, actorID uuid.UUID, now time.Time) error {
	salonID := subscription.SalonID
	event := outbox.DomainEvent{
		EventType:     enums.EventSubscriptionChanged,
		AggregateType: enums.AggregateSubscription,
		AggregateID:   subscription.ID,
		Actor:         &outbox.ActorRef{UserID: actorID, SalonID: &salonID},
		Data: payloads.SubscriptionChanged{
			SubscriptionID: subscription.ID,
			SalonID:        subscription.SalonID,
			PlanID:         subscription.PlanID,
			Status:         string(subscription.Status),
		},
		Version:    1,
		OccurredAt: now,
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit subscription event")
	}
	return nil
}

func requireOwner(ctx context.Context, tx *gorm.DB, actorID, salonID uuid.UUID) error {
	ok, err := memberships.NewRepository(tx).UserHasRole(ctx, actorID, salonID, enums.MemberRoleOwner)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "owner role required")
	}
	return nil
}
