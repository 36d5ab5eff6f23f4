package enums

import "fmt"

// InvitationStatus maps to the invitation_status enum in Postgres.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
	InvitationStatusRevoked  InvitationStatus = "revoked"
)

var validInvitationStatuses = []InvitationStatus{
	InvitationStatusPending,
	InvitationStatusAccepted,
	InvitationStatusDeclined,
	InvitationStatusRevoked,
}

// IsValid reports whether the value is a known InvitationStatus.
func (i InvitationStatus) IsValid() bool {
	for _, candidate := range validInvitationStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInvitationStatus converts raw input into an InvitationStatus.
func ParseInvitationStatus(value string) (InvitationStatus, error) {
	for _, candidate := range validInvitationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invitation status %q", value)
}
