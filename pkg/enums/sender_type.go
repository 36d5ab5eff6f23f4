package enums

import "fmt"

// SenderType identifies which side of a chat produced a message.
type SenderType string

const (
	SenderTypeCustomer SenderType = "customer"
	SenderTypeSalon    SenderType = "salon"
)

var validSenderTypes = []SenderType{
	SenderTypeCustomer,
	SenderTypeSalon,
}

// IsValid reports whether the value is a known SenderType.
func (s SenderType) IsValid() bool {
	for _, candidate := range validSenderTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// Counterpart returns the opposite side of the conversation.
func (s SenderType) Counterpart() SenderType {
	if s == SenderTypeCustomer {
		return SenderTypeSalon
	}
	return SenderTypeCustomer
}

// ParseSenderType converts raw input into a SenderType.
func ParseSenderType(value string) (SenderType, error) {
	for _, candidate := range validSenderTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sender type %q", value)
}
