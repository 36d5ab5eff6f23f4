package blog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
)

// AuthorDTO is the transport shape for a byline.
type AuthorDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Bio       *string   `json:"bio,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

// CategoryDTO is the transport shape for a post category.
type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// PostDTO is the transport shape for a blog post.
type PostDTO struct {
	ID          uuid.UUID            `json:"id"`
	Slug        string               `json:"slug"`
	Title       string               `json:"title"`
	Excerpt     *string              `json:"excerpt,omitempty"`
	AuthorID    uuid.UUID            `json:"author_id"`
	CategoryID  uuid.UUID            `json:"category_id"`
	Status      enums.BlogPostStatus `json:"status"`
	Tags        []string             `json:"tags,omitempty"`
	Content     json.RawMessage      `json:"content,omitempty"`
	PublishedAt *time.Time           `json:"published_at,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// CreateAuthorInput carries a new byline.
type CreateAuthorInput struct {
	Name      string  `json:"name" validate:"required"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// CreateCategoryInput carries a new category.
type CreateCategoryInput struct {
	Name string `json:"name" validate:"required"`
}

// CreatePostInput carries a new draft post.
type CreatePostInput struct {
	Title      string          `json:"title" validate:"required"`
	Excerpt    *string         `json:"excerpt,omitempty"`
	AuthorID   uuid.UUID       `json:"author_id" validate:"required"`
	CategoryID uuid.UUID       `json:"category_id" validate:"required"`
	Tags       []string        `json:"tags,omitempty"`
	Content    json.RawMessage `json:"content,omitempty"`
}

// UpdatePostInput carries the mutable post fields.
type UpdatePostInput struct {
	Title      *string          `json:"title,omitempty"`
	Excerpt    *string          `json:"excerpt,omitempty"`
	AuthorID   *uuid.UUID       `json:"author_id,omitempty"`
	CategoryID *uuid.UUID       `json:"category_id,omitempty"`
	Tags       *[]string        `json:"tags,omitempty"`
	Content    *json.RawMessage `json:"content,omitempty"`
}

// AuthorFromModel maps a persisted author into a DTO.
func AuthorFromModel(m *models.BlogAuthor) *AuthorDTO {
	if m == nil {
		return nil
	}
	return &AuthorDTO{ID: m.ID, Name: m.Name, Bio: m.Bio, AvatarURL: m.AvatarURL}
}

// CategoryFromModel maps a persisted category into a DTO.
func CategoryFromModel(m *models.BlogCategory) *CategoryDTO {
	if m == nil {
		return nil
	}
	return &CategoryDTO{ID: m.ID, Name: m.Name, Slug: m.Slug}
}

// PostFromModel maps a persisted post into a DTO.
func PostFromModel(m *models.BlogPost) *PostDTO {
	if m == nil {
		return nil
	}
	return &PostDTO{
		ID:          m.ID,
		Slug:        m.Slug,
		Title:       m.Title,
		Excerpt:     m.Excerpt,
		AuthorID:    m.AuthorID,
		CategoryID:  m.CategoryID,
		Status:      m.Status,
		Tags:        m.Tags,
		Content:     m.Content,
		PublishedAt: m.PublishedAt,
		CreatedAt:   m.CreatedAt,
	}
}
