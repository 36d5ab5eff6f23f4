package promotions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
)

// Metric names one of the per-day promotion counters.
type Metric string

const (
	MetricImpressions Metric = "impressions"
	MetricClicks      Metric = "clicks"
	MetricBookings    Metric = "bookings"
)

// Repository persists promotion plans, purchases and analytics.
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

// CreatePlan inserts a new promotion plan.
func (r *Repository) CreatePlan(ctx context.Context, plan *models.PromotionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

// FindPlanByID loads a single plan.
func (r *Repository) FindPlanByID(ctx context.Context, id uuid.UUID) (*models.PromotionPlan, error) {
	var plan models.PromotionPlan
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListPlans returns plans ordered by search priority. When activeOnly is set,
// retired plans are excluded.
func (r *Repository) ListPlans(ctx context.Context, activeOnly bool) ([]models.PromotionPlan, error) {
	query := r.db.WithContext(ctx).Model(&models.PromotionPlan{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []models.PromotionPlan
	if err := query.Order("search_priority DESC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdatePlan saves plan changes.
func (r *Repository) UpdatePlan(ctx context.Context, plan *models.PromotionPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

// Create inserts a purchased promotion.
func (r *Repository) Create(ctx context.Context, promotion *models.ServicePromotion) error {
	return r.db.WithContext(ctx).Create(promotion).Error
}

// FindByID loads a single promotion.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ServicePromotion, error) {
	var promotion models.ServicePromotion
	if err := r.db.WithContext(ctx).First(&promotion, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &promotion, nil
}

// ListBySalon returns all promotions of a salon newest-first.
func (r *Repository) ListBySalon(ctx context.Context, salonID uuid.UUID) ([]models.ServicePromotion, error) {
	var rows []models.ServicePromotion
	err := r.db.WithContext(ctx).
		Where("salon_id = ?", salonID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// HasActiveForService reports whether the service already has an unexpired
// active promotion.
func (r *Repository) HasActiveForService(ctx context.Context, serviceID uuid.UUID, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ServicePromotion{}).
		Where("service_id = ? AND status = ? AND ends_at > ?", serviceID, enums.PromotionStatusActive, now).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Cancel closes an active promotion early. Returns gorm.ErrRecordNotFound
// when the promotion is not active.
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.ServicePromotion{}).
		Where("id = ? AND status = ?", id, enums.PromotionStatusActive).
		Update("status", enums.PromotionStatusCanceled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListElapsed returns active promotions whose window has passed.
func (r *Repository) ListElapsed(ctx context.Context, now time.Time, limit int) ([]models.ServicePromotion, error) {
	var rows []models.ServicePromotion
	err := r.db.WithContext(ctx).
		Where("status = ? AND ends_at <= ?", enums.PromotionStatusActive, now).
		Order("ends_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkExpired flips an elapsed active promotion to expired. Returns
// gorm.ErrRecordNotFound when another writer got there first.
func (r *Repository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.ServicePromotion{}).
		Where("id = ? AND status = ?", id, enums.PromotionStatusActive).
		Update("status", enums.PromotionStatusExpired)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementMetric bumps one per-day counter, creating the day row on first
// touch. The increment is applied server-side so concurrent bumps never lose
// counts.
func (r *Repository) IncrementMetric(ctx context.Context, promotionID uuid.UUID, day time.Time, metric Metric) error {
	day = day.UTC().Truncate(24 * time.Hour)

	row := &models.PromotionAnalytics{
		PromotionID: promotionID,
		Day:         day,
	}
	switch metric {
	case MetricImpressions:
		row.Impressions = 1
	case MetricClicks:
		row.Clicks = 1
	case MetricBookings:
		row.Bookings = 1
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "promotion_id"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]any{
				string(metric): gorm.Expr(string(metric) + " + 1"),
			}),
		}).
		Create(row).Error
}

// Analytics returns the per-day counters of a promotion within the window.
func (r *Repository) Analytics(ctx context.Context, promotionID uuid.UUID, from, to time.Time) ([]models.PromotionAnalytics, error) {
	var rows []models.PromotionAnalytics
	err := r.db.WithContext(ctx).
		Where("promotion_id = ? AND day >= ? AND day <= ?", promotionID, from, to).
		Order("day ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
