package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/salonora/salonora-backend/pkg/enums"
)

// BlogAuthor is a marketing-content byline.
type BlogAuthor struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Bio       *string   `gorm:"column:bio"`
	AvatarURL *string   `gorm:"column:avatar_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BlogCategory groups marketing posts.
type BlogCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BlogPost is a marketing article with block-structured content.
type BlogPost struct {
	ID          uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string               `gorm:"column:slug;not null;uniqueIndex"`
	Title       string               `gorm:"column:title;not null"`
	Excerpt     *string              `gorm:"column:excerpt"`
	AuthorID    uuid.UUID            `gorm:"column:author_id;type:uuid;not null"`
	CategoryID  uuid.UUID            `gorm:"column:category_id;type:uuid;not null"`
	Status      enums.BlogPostStatus `gorm:"column:status;type:blog_post_status;not null;default:'draft'"`
	Tags        pq.StringArray       `gorm:"column:tags;type:text[]"`
	Content     json.RawMessage      `gorm:"column:content;type:jsonb"`
	PublishedAt *time.Time           `gorm:"column:published_at"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
