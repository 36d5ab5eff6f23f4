package enums

import "fmt"

// PromotionStatus maps to the promotion_status enum in Postgres.
type PromotionStatus string

const (
	PromotionStatusActive   PromotionStatus = "active"
	PromotionStatusExpired  PromotionStatus = "expired"
	PromotionStatusCanceled PromotionStatus = "canceled"
)

var validPromotionStatuses = []PromotionStatus{
	PromotionStatusActive,
	PromotionStatusExpired,
	PromotionStatusCanceled,
}

// IsValid reports whether the value is a known PromotionStatus.
func (p PromotionStatus) IsValid() bool {
	for _, candidate := range validPromotionStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePromotionStatus converts raw input into a PromotionStatus.
func ParsePromotionStatus(value string) (PromotionStatus, error) {
	for _, candidate := range validPromotionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion status %q", value)
}
