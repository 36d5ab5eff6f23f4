package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/internal/salons"
	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/pagination"
)

// Service manages marketing content. Mutations are reserved for platform
// admins and are gated at the router; reads back the public blog.
type Service interface {
	CreateAuthor(ctx context.Context, input CreateAuthorInput) (*AuthorDTO, error)
	ListAuthors(ctx context.Context) ([]AuthorDTO, error)

	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)

	CreatePost(ctx context.Context, input CreatePostInput) (*PostDTO, error)
	UpdatePost(ctx context.Context, postID uuid.UUID, input UpdatePostInput) (*PostDTO, error)
	Publish(ctx context.Context, postID uuid.UUID) (*PostDTO, error)
	Unpublish(ctx context.Context, postID uuid.UUID) (*PostDTO, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*PostDTO, error)
	ListPublished(ctx context.Context, input ListPostsInput) (*ListResult, error)
	ListAll(ctx context.Context, input ListPostsInput) (*ListResult, error)
}

// ListPostsInput configures a post listing request.
type ListPostsInput struct {
	CategorySlug string
	Tag          string
	Limit        int
	Cursor       string
}

// ListResult wraps returned posts and the cursor for the next page.
type ListResult struct {
	Items  []PostDTO `json:"items"`
	Cursor string    `json:"cursor"`
}

// ServiceParams bundles blog service dependencies.
type ServiceParams struct {
	DB  *db.Client
	Now func() time.Time
}

type service struct {
	db  *db.Client
	now func() time.Time
}

// NewService wires blog dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{db: params.DB, now: now}, nil
}

func (s *service) CreateAuthor(ctx context.Context, input CreateAuthorInput) (*AuthorDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author name is required")
	}

	author := &models.BlogAuthor{Name: name, Bio: input.Bio, AvatarURL: input.AvatarURL}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := NewRepository(tx).CreateAuthor(ctx, author); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create author")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return AuthorFromModel(author), nil
}

func (s *service) ListAuthors(ctx context.Context) ([]AuthorDTO, error) {
	var items []AuthorDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := NewRepository(tx).ListAuthors(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list authors")
		}
		items = make([]AuthorDTO, 0, len(rows))
		for i := range rows {
			items = append(items, *AuthorFromModel(&rows[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category := &models.BlogCategory{Name: name, Slug: salons.Slugify(name)}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := NewRepository(tx).CreateCategory(ctx, category); err != nil {
			if db.IsUniqueViolation(err, "slug") {
				return pkgerrors.New(pkgerrors.CodeConflict, "category slug already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return CategoryFromModel(category), nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	var items []CategoryDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := NewRepository(tx).ListCategories(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
		}
		items = make([]CategoryDTO, 0, len(rows))
		for i := range rows {
			items = append(items, *CategoryFromModel(&rows[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *service) CreatePost(ctx context.Context, input CreatePostInput) (*PostDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post title is required")
	}
	if input.AuthorID == uuid.Nil || input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author and category are required")
	}

	var created *models.BlogPost
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		if _, err := repo.FindAuthorByID(ctx, input.AuthorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "author not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load author")
		}
		if _, err := repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}

		post := &models.BlogPost{
			Slug:       salons.Slugify(title),
			Title:      title,
			Excerpt:    input.Excerpt,
			AuthorID:   input.AuthorID,
			CategoryID: input.CategoryID,
			Status:     enums.BlogPostStatusDraft,
			Tags:       input.Tags,
			Content:    input.Content,
		}
		if err := repo.CreatePost(ctx, post); err != nil {
			if db.IsUniqueViolation(err, "slug") {
				post.ID = uuid.Nil
				post.Slug = fmt.Sprintf("%s-%s", post.Slug, uuid.NewString()[:8])
				if err := repo.CreatePost(ctx, post); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create post")
				}
			} else {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create post")
			}
		}
		created = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return PostFromModel(created), nil
}

func (s *service) UpdatePost(ctx context.Context, postID uuid.UUID, input UpdatePostInput) (*PostDTO, error) {
	var updated *models.BlogPost
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		post, err := s.loadPost(ctx, repo, postID)
		if err != nil {
			return err
		}

		if input.Title != nil {
			trimmed := strings.TrimSpace(*input.Title)
			if trimmed == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "post title is required")
			}
			post.Title = trimmed
		}
		if input.Excerpt != nil {
			post.Excerpt = input.Excerpt
		}
		if input.AuthorID != nil {
			post.AuthorID = *input.AuthorID
		}
		if input.CategoryID != nil {
			post.CategoryID = *input.CategoryID
		}
		if input.Tags != nil {
			post.Tags = *input.Tags
		}
		if input.Content != nil {
			post.Content = *input.Content
		}

		if err := repo.UpdatePost(ctx, post); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update post")
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return PostFromModel(updated), nil
}

func (s *service) Publish(ctx context.Context, postID uuid.UUID) (*PostDTO, error) {
	now := s.now().UTC()
	var updated *models.BlogPost
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		post, err := s.loadPost(ctx, repo, postID)
		if err != nil {
			return err
		}
		if post.Status == enums.BlogPostStatusPublished {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "post already published")
		}

		post.Status = enums.BlogPostStatusPublished
		post.PublishedAt = &now
		if err := repo.UpdatePost(ctx, post); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish post")
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return PostFromModel(updated), nil
}

func (s *service) Unpublish(ctx context.Context, postID uuid.UUID) (*PostDTO, error) {
	var updated *models.BlogPost
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		post, err := s.loadPost(ctx, repo, postID)
		if err != nil {
			return err
		}
		if post.Status != enums.BlogPostStatusPublished {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "post is not published")
		}

		post.Status = enums.BlogPostStatusDraft
		post.PublishedAt = nil
		if err := repo.UpdatePost(ctx, post); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unpublish post")
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return PostFromModel(updated), nil
}

func (s *service) GetPublishedBySlug(ctx context.Context, slug string) (*PostDTO, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	var dto *PostDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		post, err := NewRepository(tx).FindPostBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
		}
		if post.Status != enums.BlogPostStatusPublished {
			return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		dto = PostFromModel(post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) ListPublished(ctx context.Context, input ListPostsInput) (*ListResult, error) {
	status := enums.BlogPostStatusPublished
	return s.listPosts(ctx, input, &status)
}

func (s *service) ListAll(ctx context.Context, input ListPostsInput) (*ListResult, error) {
	return s.listPosts(ctx, input, nil)
}

func (s *service) listPosts(ctx context.Context, input ListPostsInput, status *enums.BlogPostStatus) (*ListResult, error) {
	params := ListPostsParams{
		Status: status,
		Tag:    strings.TrimSpace(input.Tag),
		Limit:  input.Limit,
	}
	if input.Cursor != "" {
		parsed, err := pagination.ParseCursor(input.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = parsed
	}

	var result *ListResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		if slug := strings.TrimSpace(input.CategorySlug); slug != "" {
			category, err := repo.FindCategoryBySlug(ctx, slug)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
			}
			params.CategoryID = &category.ID
		}

		rows, next, err := repo.ListPosts(ctx, params)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
		}

		items := make([]PostDTO, 0, len(rows))
		for i := range rows {
			items = append(items, *PostFromModel(&rows[i]))
		}
		encoded := ""
		if next != nil {
			encoded = pagination.EncodeCursor(*next)
		}
		result = &ListResult{Items: items, Cursor: encoded}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) loadPost(ctx context.Context, repo *Repository, postID uuid.UUID) (*models.BlogPost, error) {
	post, err := repo.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	return post, nil
}
