package subscriptions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
)

// Repository persists subscription plans and salon subscriptions.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to a database handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreatePlan inserts a new subscription plan.
func (r *Repository) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

// FindPlanByID loads a single plan.
func (r *Repository) FindPlanByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListPlans returns plans oldest-first. When activeOnly is set, retired
// plans are excluded.
func (r *Repository) ListPlans(ctx context.Context, activeOnly bool) ([]models.SubscriptionPlan, error) {
	query := r.db.WithContext(ctx).Model(&models.SubscriptionPlan{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []models.SubscriptionPlan
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdatePlan saves plan changes.
func (r *Repository) UpdatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

// Create inserts a new salon subscription.
func (r *Repository) Create(ctx context.Context, subscription *models.SalonSubscription) error {
	return r.db.WithContext(ctx).Create(subscription).Error
}

// FindActiveBySalon loads the salon's active subscription, if any.
func (r *Repository) FindActiveBySalon(ctx context.Context, salonID uuid.UUID) (*models.SalonSubscription, error) {
	var subscription models.SalonSubscription
	err := r.db.WithContext(ctx).
		Where("salon_id = ? AND status = ?", salonID, enums.SubscriptionStatusActive).
		Order("created_at DESC").
		First(&subscription).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// ListBySalon returns the salon's subscription history newest-first.
func (r *Repository) ListBySalon(ctx context.Context, salonID uuid.UUID) ([]models.SalonSubscription, error) {
	var rows []models.SalonSubscription
	err := r.db.WithContext(ctx).
		Where("salon_id = ?", salonID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Cancel closes an active subscription. Returns gorm.ErrRecordNotFound when
// the subscription is not active.
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.SalonSubscription{}).
		Where("id = ? AND status = ?", id, enums.SubscriptionStatusActive).
		Updates(map[string]any{
			"status":      enums.SubscriptionStatusCanceled,
			"canceled_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExpireElapsed flips active subscriptions whose period ended. Returns the
// affected rows for the cron report.
func (r *Repository) ExpireElapsed(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SalonSubscription{}).
		Where("status = ? AND current_period_end <= ?", enums.SubscriptionStatusActive, now).
		Update("status", enums.SubscriptionStatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
