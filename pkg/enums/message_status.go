package enums

import "fmt"

// MessageStatus maps to the message_status enum in Postgres.
// Delivery progresses sent -> delivered -> read and never regresses.
type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
)

var validMessageStatuses = []MessageStatus{
	MessageStatusSent,
	MessageStatusDelivered,
	MessageStatusRead,
}

var messageStatusRank = map[MessageStatus]int{
	MessageStatusSent:      0,
	MessageStatusDelivered: 1,
	MessageStatusRead:      2,
}

// IsValid reports whether the value is a known MessageStatus.
func (m MessageStatus) IsValid() bool {
	for _, candidate := range validMessageStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// CanAdvanceTo reports whether moving to next is a forward transition.
func (m MessageStatus) CanAdvanceTo(next MessageStatus) bool {
	current, ok := messageStatusRank[m]
	if !ok {
		return false
	}
	target, ok := messageStatusRank[next]
	if !ok {
		return false
	}
	return target > current
}

// ParseMessageStatus converts raw input into a MessageStatus.
func ParseMessageStatus(value string) (MessageStatus, error) {
	for _, candidate := range validMessageStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid message status %q", value)
}
