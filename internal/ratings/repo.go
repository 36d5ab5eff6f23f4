package ratings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	"github.com/salonora/salonora-backend/pkg/pagination"
)

// Repository persists ratings and their responses.
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

// Create inserts a new rating.
func (r *Repository) Create(ctx context.Context, rating *models.SalonRating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

// FindByID loads a single rating.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SalonRating, error) {
	var rating models.SalonRating
	if err := r.db.WithContext(ctx).First(&rating, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// HasForCustomer reports whether the customer already rated the salon
// outside of any appointment scope.
func (r *Repository) HasForCustomer(ctx context.Context, salonID, customerUserID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SalonRating{}).
		Where("salon_id = ? AND customer_user_id = ? AND appointment_id IS NULL", salonID, customerUserID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListParams filters a rating listing.
type ListParams struct {
	SalonID *uuid.UUID
	Status  *enums.RatingStatus
	Limit   int
	Cursor  *pagination.Cursor
}

// List returns ratings newest-first with cursor pagination.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.SalonRating, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.SalonRating{})
	if params.SalonID != nil {
		query = query.Where("salon_id = ?", *params.SalonID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.SalonRating
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return rows, next, nil
}

// Moderate finalizes a pending rating. The update is guarded on pending
// status so a decision is recorded exactly once. Returns
// gorm.ErrRecordNotFound when the rating is no longer pending.
func (r *Repository) Moderate(ctx context.Context, id uuid.UUID, to enums.RatingStatus, rejectReason *string, moderatorID uuid.UUID, at time.Time) error {
	updates := map[string]any{
		"status":               to,
		"moderated_by_user_id": moderatorID,
		"moderated_at":         at,
	}
	if rejectReason != nil {
		updates["reject_reason"] = rejectReason
	}

	result := r.db.WithContext(ctx).
		Model(&models.SalonRating{}).
		Where("id = ? AND status = ?", id, enums.RatingStatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateResponse inserts the salon's reply to a rating.
func (r *Repository) CreateResponse(ctx context.Context, response *models.SalonRatingResponse) error {
	return r.db.WithContext(ctx).Create(response).Error
}

// FindResponse loads the reply attached to a rating, if any.
func (r *Repository) FindResponse(ctx context.Context, ratingID uuid.UUID) (*models.SalonRatingResponse, error) {
	var response models.SalonRatingResponse
	if err := r.db.WithContext(ctx).First(&response, "rating_id = ?", ratingID).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

// ApprovedStats aggregates approved ratings for a salon.
func (r *Repository) ApprovedStats(ctx context.Context, salonID uuid.UUID) (count int64, average float64, err error) {
	row := struct {
		Count   int64
		Average float64
	}{}
	err = r.db.WithContext(ctx).
		Model(&models.SalonRating{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("salon_id = ? AND status = ?", salonID, enums.RatingStatusApproved).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Count, row.Average, nil
}

// ApprovedForStats loads the approved ratings of a salon for category
// aggregation.
func (r *Repository) ApprovedForStats(ctx context.Context, salonID uuid.UUID) ([]models.SalonRating, error) {
	var rows []models.SalonRating
	err := r.db.WithContext(ctx).
		Where("salon_id = ? AND status = ?", salonID, enums.RatingStatusApproved).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
