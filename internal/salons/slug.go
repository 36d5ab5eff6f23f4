package salons

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Slugify lowercases and strips the salon name into a URL-safe slug.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = uuid.NewString()[:8]
	}
	return slug
}

// uniqueSlug appends a short random suffix to dodge slug collisions.
func uniqueSlug(base string) string {
	return base + "-" + uuid.NewString()[:8]
}
