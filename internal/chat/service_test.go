package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/outbox"
)

func newChatValidationService(t *testing.T) Service {
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

func newChatServiceOver(t *testing.T, gormDB *gorm.DB) Service {
	t.Helper()

	outboxDDL := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	if err := gormDB.Exec(outboxDDL).Error; err != nil {
		t.Fatalf("create outbox_events table: %v", err)
	}

	svc, err := NewService(ServiceParams{
		DB:     db.NewWithConn(gormDB),
		Outbox: outbox.NewService(outbox.NewRepository(gormDB), nil),
		Now:    func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func countChats(t *testing.T, gormDB *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := gormDB.Model(&models.Chat{}).Count(&count).Error; err != nil {
		t.Fatalf("count chats: %v", err)
	}
	return count
}

func countQueuedEvents(t *testing.T, gormDB *gorm.DB, eventType enums.OutboxEventType) int64 {
	t.Helper()
	var count int64
	if err := gormDB.Model(&models.OutboxEvent{}).Where("event_type = ?", eventType).Count(&count).Error; err != nil {
		t.Fatalf("count outbox events: %v", err)
	}
	return count
}

func TestCreateOrGetReusesExistingThread(t *testing.T) {
	gormDB := setupChatTestDB(t)
	svc := newChatServiceOver(t, gormDB)

	salonID := uuid.New()
	customerID := uuid.New()
	existing := mustCreateChat(t, NewRepository(gormDB), salonID, customerID, nil)

	for i := 0; i < 2; i++ {
		dto, err := svc.CreateOrGet(context.Background(), customerID, CreateOrGetInput{SalonID: salonID})
		if err != nil {
			t.Fatalf("create or get: %v", err)
		}
		if dto.ID != existing.ID {
			t.Fatalf("expected existing thread %s, got %s", existing.ID, dto.ID)
		}
	}

	if got := countChats(t, gormDB); got != 1 {
		t.Fatalf("expected 1 thread, got %d", got)
	}
	if got := countQueuedEvents(t, gormDB, enums.EventChatThreadCreated); got != 0 {
		t.Fatalf("expected no created events for a reused thread, got %d", got)
	}
}

func TestCreateOrGetCreatesThreadOnce(t *testing.T) {
	gormDB := setupChatTestDB(t)
	svc := newChatServiceOver(t, gormDB)

	salonID := uuid.New()
	customerID := uuid.New()

	for i := 0; i < 2; i++ {
		dto, err := svc.CreateOrGet(context.Background(), customerID, CreateOrGetInput{SalonID: salonID})
		if err != nil {
			t.Fatalf("create or get: %v", err)
		}
		if dto.SalonID != salonID || dto.CustomerUserID != customerID {
			t.Fatalf("unexpected thread scope %s/%s", dto.SalonID, dto.CustomerUserID)
		}
	}

	if got := countChats(t, gormDB); got != 1 {
		t.Fatalf("expected 1 thread, got %d", got)
	}
	if got := countQueuedEvents(t, gormDB, enums.EventChatThreadCreated); got != 1 {
		t.Fatalf("expected 1 created event, got %d", got)
	}
}

func TestCreateOrGetResolvesScopeCollision(t *testing.T) {
	gormDB := setupChatTestDB(t)
	svc := newChatServiceOver(t, gormDB)

	salonID := uuid.New()
	customerID := uuid.New()
	winnerID := uuid.New()

	// Insert the concurrent winner mid-create and fail the insert the way
	// Postgres would when the scope index is violated.
	fired := false
	err := gormDB.Callback().Create().Before("gorm:create").Register("chat_scope_collision", func(d *gorm.DB) {
		if fired {
			return
		}
		if _, ok := d.Statement.Dest.(*models.Chat); !ok {
			return
		}
		fired = true
		insert := d.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO chats (id, salon_id, customer_user_id, status) VALUES (?, ?, ?, 'active')",
			winnerID, salonID, customerID,
		)
		if insert.Error != nil {
			d.AddError(insert.Error)
			return
		}
		d.AddError(&pq.Error{Code: "23505", Constraint: "idx_chats_scope"})
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	dto, err := svc.CreateOrGet(context.Background(), customerID, CreateOrGetInput{SalonID: salonID})
	if err != nil {
		t.Fatalf("create or get: %v", err)
	}
	if !fired {
		t.Fatal("expected the insert to collide")
	}
	if dto.ID != winnerID {
		t.Fatalf("expected winner thread %s, got %s", winnerID, dto.ID)
	}
	if got := countChats(t, gormDB); got != 1 {
		t.Fatalf("expected 1 thread, got %d", got)
	}
	if got := countQueuedEvents(t, gormDB, enums.EventChatThreadCreated); got != 0 {
		t.Fatalf("expected no created events for the losing side, got %d", got)
	}
}

func TestCreateOrGetVerifiesAppointmentScope(t *testing.T) {
	gormDB := setupChatTestDB(t)
	svc := newChatServiceOver(t, gormDB)

	appointmentsDDL := `
CREATE TABLE IF NOT EXISTS appointments (
  id TEXT PRIMARY KEY,
  salon_id TEXT NOT NULL,
  service_id TEXT NOT NULL,
  employee_user_id TEXT,
  customer_user_id TEXT,
  customer_name TEXT,
  customer_phone TEXT,
  start_at DATETIME NOT NULL,
  duration_minutes INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  notes TEXT,
  cancel_reason TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := gormDB.Exec(appointmentsDDL).Error; err != nil {
		t.Fatalf("create appointments table: %v", err)
	}

	salonID := uuid.New()
	customerID := uuid.New()
	ownerID := uuid.New()
	appointment := &models.Appointment{
		ID:              uuid.New(),
		SalonID:         salonID,
		ServiceID:       uuid.New(),
		CustomerUserID:  &ownerID,
		StartAt:         time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		Status:          enums.AppointmentStatusConfirmed,
	}
	if err := gormDB.Create(appointment).Error; err != nil {
		t.Fatalf("create appointment: %v", err)
	}

	_, err := svc.CreateOrGet(context.Background(), customerID, CreateOrGetInput{SalonID: salonID, AppointmentID: &appointment.ID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for another customer's appointment, got %v", err)
	}

	missing := uuid.New()
	_, err = svc.CreateOrGet(context.Background(), customerID, CreateOrGetInput{SalonID: salonID, AppointmentID: &missing})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown appointment, got %v", err)
	}

	otherSalon := uuid.New()
	_, err = svc.CreateOrGet(context.Background(), ownerID, CreateOrGetInput{SalonID: otherSalon, AppointmentID: &appointment.ID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for a different salon, got %v", err)
	}

	if got := countChats(t, gormDB); got != 0 {
		t.Fatalf("expected no threads created, got %d", got)
	}

	dto, err := svc.CreateOrGet(context.Background(), ownerID, CreateOrGetInput{SalonID: salonID, AppointmentID: &appointment.ID})
	if err != nil {
		t.Fatalf("create or get with own appointment: %v", err)
	}
	if dto.AppointmentID == nil || *dto.AppointmentID != appointment.ID {
		t.Fatalf("expected thread scoped to appointment, got %+v", dto.AppointmentID)
	}
}

func TestCreateOrGetRequiresSalon(t *testing.T) {
	svc := newChatValidationService(t)

	_, err := svc.CreateOrGet(context.Background(), uuid.New(), CreateOrGetInput{})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestSendMessageRequiresBody(t *testing.T) {
	svc := newChatValidationService(t)

	_, err := svc.SendMessage(context.Background(), uuid.New(), uuid.New(), SendMessageInput{Body: "   "})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestTruncatePreview(t *testing.T) {
	short := "see you at three"
	if got := truncatePreview(short); got != short {
		t.Fatalf("expected unchanged preview, got %q", got)
	}

	long := strings.Repeat("ü", previewMaxRunes+40)
	got := truncatePreview(long)
	if want := strings.Repeat("ü", previewMaxRunes); got != want {
		t.Fatalf("expected %d-rune preview, got %d runes", previewMaxRunes, len([]rune(got)))
	}
}
