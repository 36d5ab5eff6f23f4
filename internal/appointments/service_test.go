package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/outbox"
)

func newValidationOnlyService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:     &db.Client{},
		Outbox: &outbox.Service{},
		Now:    func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestBookRequiresSalonAndService(t *testing.T) {
	svc := newValidationOnlyService(t)

	_, err := svc.Book(context.Background(), uuid.New(), BookInput{
		StartAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestBookRejectsPastStart(t *testing.T) {
	svc := newValidationOnlyService(t)

	_, err := svc.Book(context.Background(), uuid.New(), BookInput{
		SalonID:   uuid.New(),
		ServiceID: uuid.New(),
		StartAt:   time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestBookWalkInRequiresCustomerName(t *testing.T) {
	svc := newValidationOnlyService(t)

	_, err := svc.BookWalkIn(context.Background(), uuid.New(), uuid.New(), WalkInInput{
		ServiceID: uuid.New(),
		StartAt:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestCancelCompletedAppointmentIsStateConflict(t *testing.T) {
	gormDB := setupAppointmentsTestDB(t)
	customerID := uuid.New()
	appointment := mustCreateAppointment(t, NewRepository(gormDB), uuid.New(), &customerID, enums.AppointmentStatusCompleted, time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC))

	svc, err := NewService(ServiceParams{
		DB:     db.NewWithConn(gormDB),
		Outbox: &outbox.Service{},
		Now:    func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Cancel(context.Background(), customerID, appointment.ID, "changed my mind")
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict code, got %v", err)
	}

	loaded, err := NewRepository(gormDB).FindByID(context.Background(), appointment.ID)
	if err != nil {
		t.Fatalf("find appointment: %v", err)
	}
	if loaded.Status != enums.AppointmentStatusCompleted {
		t.Fatalf("expected status untouched, got %s", loaded.Status)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newValidationOnlyService(t)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), uuid.New(), enums.AppointmentStatus("archived"))
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}
