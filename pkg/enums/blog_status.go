package enums

import "fmt"

// BlogPostStatus maps to the blog_post_status enum in Postgres.
type BlogPostStatus string

const (
	BlogPostStatusDraft     BlogPostStatus = "draft"
	BlogPostStatusPublished BlogPostStatus = "published"
)

var validBlogPostStatuses = []BlogPostStatus{
	BlogPostStatusDraft,
	BlogPostStatusPublished,
}

// IsValid reports whether the value is a known BlogPostStatus.
func (b BlogPostStatus) IsValid() bool {
	for _, candidate := range validBlogPostStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBlogPostStatus converts raw input into a BlogPostStatus.
func ParseBlogPostStatus(value string) (BlogPostStatus, error) {
	for _, candidate := range validBlogPostStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid blog post status %q", value)
}
