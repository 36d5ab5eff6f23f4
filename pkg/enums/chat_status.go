package enums

import "fmt"

// ChatStatus maps to the chat_status enum in Postgres.
type ChatStatus string

const (
	ChatStatusActive   ChatStatus = "active"
	ChatStatusArchived ChatStatus = "archived"
)

var validChatStatuses = []ChatStatus{
	ChatStatusActive,
	ChatStatusArchived,
}

// IsValid reports whether the value is a known ChatStatus.
func (c ChatStatus) IsValid() bool {
	for _, candidate := range validChatStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChatStatus converts raw input into a ChatStatus.
func ParseChatStatus(value string) (ChatStatus, error) {
	for _, candidate := range validChatStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid chat status %q", value)
}
