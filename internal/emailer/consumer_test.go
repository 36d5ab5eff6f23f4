package emailer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	"github.com/salonora/salonora-backend/pkg/logger"
	"github.com/salonora/salonora-backend/pkg/outbox"
	"github.com/salonora/salonora-backend/pkg/outbox/payloads"
	"github.com/salonora/salonora-backend/pkg/sendgrid"
)

func TestProcessSendsInvitationEmail(t *testing.T) {
	sender := &fakeSender{}
	consumer := newTestConsumer(t, sender, &fakeIdem{})

	envelope := testEnvelope(t, payloads.InvitationCreated{
		InvitationID: uuid.New(),
		SalonID:      uuid.New(),
		SalonName:    "Bella Studio",
		Email:        "nuria@example.com",
		Role:         "employee",
		Token:        "tok-123",
		ExpiresAt:    time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	if err := consumer.Process(context.Background(), enums.EventInvitationCreated, envelope); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "nuria@example.com" {
		t.Fatalf("unexpected recipient %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "Bella Studio") {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.PlainText, "token=tok-123") {
		t.Fatalf("expected invite link in body, got %q", msg.PlainText)
	}
}

func TestProcessSkipsAlreadyProcessedEvents(t *testing.T) {
	sender := &fakeSender{}
	consumer := newTestConsumer(t, sender, &fakeIdem{already: true})

	envelope := testEnvelope(t, payloads.InvitationCreated{Email: "nuria@example.com"})
	if err := consumer.Process(context.Background(), enums.EventInvitationCreated, envelope); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no email, got %d", len(sender.sent))
	}
}

func TestProcessIgnoresUnsupportedEvents(t *testing.T) {
	sender := &fakeSender{}
	idem := &fakeIdem{}
	consumer := newTestConsumer(t, sender, idem)

	envelope := testEnvelope(t, map[string]any{})
	if err := consumer.Process(context.Background(), enums.EventChatMessageSent, envelope); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no email, got %d", len(sender.sent))
	}
	if idem.checks != 0 {
		t.Fatalf("expected no idempotency checks, got %d", idem.checks)
	}
}

func TestProcessReleasesMarkOnSendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("unavailable")}
	idem := &fakeIdem{}
	consumer := newTestConsumer(t, sender, idem)

	envelope := testEnvelope(t, payloads.InvitationCreated{Email: "nuria@example.com", SalonName: "Bella Studio"})
	if err := consumer.Process(context.Background(), enums.EventInvitationCreated, envelope); err == nil {
		t.Fatal("expected error")
	}
	if idem.deletes != 1 {
		t.Fatalf("expected processed mark released, got %d deletes", idem.deletes)
	}
}

func TestProcessRatingRejectedIncludesReason(t *testing.T) {
	sender := &fakeSender{}
	consumer := newTestConsumer(t, sender, &fakeIdem{})

	reason := "contains personal information"
	envelope := testEnvelope(t, payloads.RatingModerated{
		RatingID:       uuid.New(),
		SalonID:        uuid.New(),
		CustomerUserID: testCustomerID,
		Status:         string(enums.RatingStatusRejected),
		RejectReason:   &reason,
	})

	if err := consumer.Process(context.Background(), enums.EventRatingModerated, envelope); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "carla@example.com" {
		t.Fatalf("unexpected recipient %q", msg.To)
	}
	if !strings.Contains(msg.PlainText, reason) {
		t.Fatalf("expected reject reason in body, got %q", msg.PlainText)
	}
}

func TestProcessChatThreadFallsBackToOwner(t *testing.T) {
	sender := &fakeSender{}
	notifier := &fakeNotifier{}
	consumer := newTestConsumer(t, sender, &fakeIdem{})
	consumer.notifier = notifier

	envelope := testEnvelope(t, payloads.ChatThreadCreated{
		ChatID:         uuid.New(),
		SalonID:        testSalonID,
		CustomerUserID: uuid.New(),
	})

	if err := consumer.Process(context.Background(), enums.EventChatThreadCreated, envelope); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	if sender.sent[0].To != "owner@example.com" {
		t.Fatalf("expected owner fallback recipient, got %q", sender.sent[0].To)
	}
	if len(notifier.notified) != 1 || notifier.notified[0].UserID != testOwnerID {
		t.Fatalf("expected in-app notification for owner, got %+v", notifier.notified)
	}
}

var (
	testCustomerID = uuid.New()
	testOwnerID    = uuid.New()
	testSalonID    = uuid.New()
)

func newTestConsumer(t *testing.T, sender *fakeSender, idem *fakeIdem) *Consumer {
	t.Helper()
	consumer, err := NewConsumer(ConsumerParams{
		Sender: sender,
		Users: fakeUserFinder{users: map[uuid.UUID]*models.User{
			testCustomerID: {ID: testCustomerID, Email: "carla@example.com", FirstName: "Carla", LastName: "Ruiz"},
			testOwnerID:    {ID: testOwnerID, Email: "owner@example.com", FirstName: "Marta", LastName: "Gil"},
		}},
		Salons: fakeSalonFinder{salons: map[uuid.UUID]*models.Salon{
			testSalonID: {ID: testSalonID, Name: "Bella Studio", OwnerID: testOwnerID},
		}},
		Idempotency:   idem,
		Logger:        logger.New(logger.Options{ServiceName: "test"}),
		InviteBaseURL: "https://app.salonora.com/invitations",
	})
	if err != nil {
		t.Fatalf("NewConsumer: %v", err)
	}
	return consumer
}

func testEnvelope(t *testing.T, data any) outbox.PayloadEnvelope {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       raw,
	}
}

type fakeSender struct {
	sent []sendgrid.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg sendgrid.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeUserFinder struct {
	users map[uuid.UUID]*models.User
}

func (f fakeUserFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

type fakeSalonFinder struct {
	salons map[uuid.UUID]*models.Salon
}

func (f fakeSalonFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Salon, error) {
	salon, ok := f.salons[id]
	if !ok {
		return nil, errors.New("salon not found")
	}
	return salon, nil
}

type fakeIdem struct {
	already bool
	checks  int
	deletes int
}

func (f *fakeIdem) CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error) {
	f.checks++
	return f.already, nil
}

func (f *fakeIdem) Delete(ctx context.Context, consumer string, eventID uuid.UUID) error {
	f.deletes++
	return nil
}

type fakeNotifier struct {
	notified []*models.Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, n *models.Notification) error {
	f.notified = append(f.notified, n)
	return nil
}
