package enums

import "fmt"

// RatingStatus maps to the rating_status enum in Postgres.
// Approved and rejected are terminal; moderation happens exactly once.
type RatingStatus string

const (
	RatingStatusPending  RatingStatus = "pending"
	RatingStatusApproved RatingStatus = "approved"
	RatingStatusRejected RatingStatus = "rejected"
)

var validRatingStatuses = []RatingStatus{
	RatingStatusPending,
	RatingStatusApproved,
	RatingStatusRejected,
}

// IsValid reports whether the value is a known RatingStatus.
func (r RatingStatus) IsValid() bool {
	for _, candidate := range validRatingStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the rating has been moderated.
func (r RatingStatus) IsTerminal() bool {
	return r == RatingStatusApproved || r == RatingStatusRejected
}

// ParseRatingStatus converts raw input into a RatingStatus.
func ParseRatingStatus(value string) (RatingStatus, error) {
	for _, candidate := range validRatingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rating status %q", value)
}
