package enums

import "testing"

func TestAppointmentStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{AppointmentStatusPending, AppointmentStatusConfirmed, true},
		{AppointmentStatusPending, AppointmentStatusCancelled, true},
		{AppointmentStatusPending, AppointmentStatusNoShow, true},
		{AppointmentStatusPending, AppointmentStatusInProgress, false},
		{AppointmentStatusPending, AppointmentStatusCompleted, false},
		{AppointmentStatusConfirmed, AppointmentStatusInProgress, true},
		{AppointmentStatusConfirmed, AppointmentStatusPending, false},
		{AppointmentStatusInProgress, AppointmentStatusCompleted, true},
		{AppointmentStatusInProgress, AppointmentStatusConfirmed, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCancelled, AppointmentStatusConfirmed, false},
		{AppointmentStatusNoShow, AppointmentStatusCompleted, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected %v got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestParseAppointmentStatus(t *testing.T) {
	status, err := ParseAppointmentStatus("confirmed")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if status != AppointmentStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", status)
	}
	if _, err := ParseAppointmentStatus("archived"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
