package salons

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/pagination"
)

// Repository handles salon persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to salon operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new salon row.
func (r *Repository) Create(ctx context.Context, dto CreateSalonDTO) (*models.Salon, error) {
	salon := dto.ToModel()
	if salon.Slug == "" {
		salon.Slug = Slugify(salon.Name)
	}

	err := r.db.WithContext(ctx).Create(salon).Error
	if err != nil && db.IsUniqueViolation(err, "salons_slug") {
		salon.ID = uuid.Nil
		salon.Slug = uniqueSlug(Slugify(salon.Name))
		err = r.db.WithContext(ctx).Create(salon).Error
	}
	if err != nil {
		return nil, err
	}
	return salon, nil
}

// FindByID loads a salon by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Salon, error) {
	var salon models.Salon
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&salon).Error; err != nil {
		return nil, err
	}
	return &salon, nil
}

// FindBySlug loads a salon by its public slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Salon, error) {
	var salon models.Salon
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&salon).Error; err != nil {
		return nil, err
	}
	return &salon, nil
}

// FindByOwner returns all salons owned by the provided user.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Salon, error) {
	var rows []models.Salon
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchParams filters the public salon listing.
type SearchParams struct {
	Query  string
	City   string
	Limit  int
	Cursor *pagination.Cursor
}

// Search returns active salons matching the filters, newest first.
func (r *Repository) Search(ctx context.Context, params SearchParams) ([]models.Salon, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Salon{}).Where("is_active = ?", true)
	if trimmed := strings.TrimSpace(params.Query); trimmed != "" {
		query = query.Where("name ILIKE ?", "%"+trimmed+"%")
	}
	if city := strings.TrimSpace(params.City); city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Salon
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return rows, nil, nil
}

// Update saves the provided salon.
func (r *Repository) Update(ctx context.Context, salon *models.Salon) error {
	if salon == nil {
		return fmt.Errorf("salon is required")
	}
	return r.db.WithContext(ctx).Save(salon).Error
}
