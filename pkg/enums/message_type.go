package enums

import "fmt"

// MessageType maps to the message_type enum in Postgres.
type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeImage  MessageType = "image"
	MessageTypeSystem MessageType = "system"
)

var validMessageTypes = []MessageType{
	MessageTypeText,
	MessageTypeImage,
	MessageTypeSystem,
}

// IsValid reports whether the value is a known MessageType.
func (m MessageType) IsValid() bool {
	for _, candidate := range validMessageTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMessageType converts raw input into a MessageType.
func ParseMessageType(value string) (MessageType, error) {
	for _, candidate := range validMessageTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid message type %q", value)
}
