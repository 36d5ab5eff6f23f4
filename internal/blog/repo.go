package blog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	"github.com/salonora/salonora-backend/pkg/pagination"
)

// Repository persists blog authors, categories and posts.
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

// CreateAuthor inserts a new byline.
func (r *Repository) CreateAuthor(ctx context.Context, author *models.BlogAuthor) error {
	return r.db.WithContext(ctx).Create(author).Error
}

// FindAuthorByID loads a single byline.
func (r *Repository) FindAuthorByID(ctx context.Context, id uuid.UUID) (*models.BlogAuthor, error) {
	var author models.BlogAuthor
	if err := r.db.WithContext(ctx).First(&author, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// ListAuthors returns all bylines.
func (r *Repository) ListAuthors(ctx context.Context) ([]models.BlogAuthor, error) {
	var rows []models.BlogAuthor
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateCategory inserts a new category.
func (r *Repository) CreateCategory(ctx context.Context, category *models.BlogCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// FindCategoryBySlug loads a category by its slug.
func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.BlogCategory, error) {
	var category models.BlogCategory
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindCategoryByID loads a single category.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.BlogCategory, error) {
	var category models.BlogCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns all categories.
func (r *Repository) ListCategories(ctx context.Context) ([]models.BlogCategory, error) {
	var rows []models.BlogCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreatePost inserts a new post.
func (r *Repository) CreatePost(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// FindPostByID loads a single post.
func (r *Repository) FindPostByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindPostBySlug loads a single post by slug.
func (r *Repository) FindPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).First(&post, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost saves post changes.
func (r *Repository) UpdatePost(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// ListPostsParams filters a post listing.
type ListPostsParams struct {
	Status     *enums.BlogPostStatus
	CategoryID *uuid.UUID
	Tag        string
	Limit      int
	Cursor     *pagination.Cursor
}

// ListPosts returns posts newest-first with cursor pagination.
func (r *Repository) ListPosts(ctx context.Context, params ListPostsParams) ([]models.BlogPost, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.BlogPost{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.Tag != "" {
		query = query.Where("? = ANY(tags)", params.Tag)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.BlogPost
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
