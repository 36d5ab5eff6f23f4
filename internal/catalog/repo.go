package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/pagination"
)

// Repository handles catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to catalog operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists a new service row.
func (r *Repository) Create(ctx context.Context, svc *models.SalonService) error {
	return r.db.WithContext(ctx).Create(svc).Error
}

// FindByID loads a service by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SalonService, error) {
	var svc models.SalonService
	if err := r.db.WithContext(ctx).First(&svc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// ListParams filters the catalog listing.
type ListParams struct {
	SalonID    uuid.UUID
	Category   string
	Query      string
	ActiveOnly bool
	// BoostPromoted ranks services with a running promotion ahead of the rest.
	BoostPromoted bool
	Now           time.Time
	Limit         int
	Cursor        *pagination.Cursor
}

// promotedExpr computes the search-priority flag for a service row. The same
// expression ranks the listing and re-derives the flag of the cursor row, so
// the keyset stays consistent across the promoted boundary.
const promotedExpr = "CASE WHEN EXISTS (SELECT 1 FROM service_promotions sp WHERE sp.service_id = salon_services.id AND sp.status = 'active' AND sp.starts_at <= ? AND sp.ends_at > ?) THEN 1 ELSE 0 END"

const promotedCursorExpr = "CASE WHEN EXISTS (SELECT 1 FROM service_promotions sp WHERE sp.service_id = ? AND sp.status = 'active' AND sp.starts_at <= ? AND sp.ends_at > ?) THEN 1 ELSE 0 END"

// List returns catalog entries for a salon, newest first. With BoostPromoted
// set, services under an active promotion rank ahead of the rest.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.SalonService, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.SalonService{}).Where("salon_id = ?", params.SalonID)
	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if category := strings.TrimSpace(params.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if trimmed := strings.TrimSpace(params.Query); trimmed != "" {
		query = query.Where("name ILIKE ?", "%"+trimmed+"%")
	}

	if params.BoostPromoted {
		now := params.Now
		if now.IsZero() {
			now = time.Now().UTC()
		}
		if params.Cursor != nil {
			query = query.Where(
				"("+promotedExpr+", created_at, id) < (("+promotedCursorExpr+"), ?, ?)",
				now, now,
				params.Cursor.ID, now, now,
				params.Cursor.CreatedAt, params.Cursor.ID,
			)
		}
		query = query.
			Select("salon_services.*, "+promotedExpr+" AS promoted", now, now).
			Order("promoted DESC, created_at DESC, id DESC")
	} else {
		if params.Cursor != nil {
			query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
		}
		query = query.Order("created_at DESC, id DESC")
	}

	var rows []models.SalonService
	if err := query.Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return rows, nil, nil
}

// Update saves the provided service.
func (r *Repository) Update(ctx context.Context, svc *models.SalonService) error {
	if svc == nil {
		return fmt.Errorf("service is required")
	}
	return r.db.WithContext(ctx).Save(svc).Error
}

// Deactivate soft-disables a service so existing appointments keep their reference.
func (r *Repository) Deactivate(ctx context.Context, salonID, serviceID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.SalonService{}).
		Where("id = ? AND salon_id = ? AND is_active = ?", serviceID, salonID, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
