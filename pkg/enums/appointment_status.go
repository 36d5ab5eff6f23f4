package enums

import "fmt"

// AppointmentStatus maps to the appointment_status enum in Postgres.
type AppointmentStatus string

const (
	AppointmentStatusPending    AppointmentStatus = "pending"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no_show"
)

var validAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
	AppointmentStatusInProgress,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
	AppointmentStatusNoShow,
}

// String implements fmt.Stringer.
func (a AppointmentStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AppointmentStatus.
func (a AppointmentStatus) IsValid() bool {
	for _, candidate := range validAppointmentStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition may leave this status.
func (a AppointmentStatus) IsTerminal() bool {
	switch a {
	case AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to the target.
// Forward movement only: pending, confirmed, in_progress, completed in
// that order, with cancelled and no_show reachable from any non-terminal
// state.
func (a AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	if a.IsTerminal() {
		return false
	}
	switch target {
	case AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	case AppointmentStatusConfirmed:
		return a == AppointmentStatusPending
	case AppointmentStatusInProgress:
		return a == AppointmentStatusConfirmed
	case AppointmentStatusCompleted:
		return a == AppointmentStatusInProgress
	}
	return false
}

// ParseAppointmentStatus converts raw input into an AppointmentStatus.
func ParseAppointmentStatus(value string) (AppointmentStatus, error) {
	for _, candidate := range validAppointmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid appointment status %q", value)
}
