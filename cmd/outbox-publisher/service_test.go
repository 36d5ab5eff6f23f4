package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/config"
	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	"github.com/salonora/salonora-backend/pkg/logger"
)

func TestProcessBatchMarksPublished(t *testing.T) {
	event := testOutboxEvent(t)
	repo := &fakeOutboxRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	svc := newTestPublisherService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to be processed")
	}
	if len(repo.published) != 1 || repo.published[0] != event.ID {
		t.Fatalf("expected event %s marked published, got %v", event.ID, repo.published)
	}
	if len(repo.failed) != 0 {
		t.Fatalf("expected no failures, got %v", repo.failed)
	}
	if len(pub.messages) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(pub.messages))
	}
	attrs := pub.messages[0].Attributes
	if attrs["event_type"] != string(event.EventType) {
		t.Fatalf("unexpected event_type attribute %q", attrs["event_type"])
	}
	if attrs["event_id"] == "" {
		t.Fatal("expected event_id attribute from payload envelope")
	}
}

func TestProcessBatchMarksFailedOnPublishError(t *testing.T) {
	event := testOutboxEvent(t)
	repo := &fakeOutboxRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{err: errors.New("unavailable")}
	svc := newTestPublisherService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to be processed")
	}
	if len(repo.failed) != 1 || repo.failed[0] != event.ID {
		t.Fatalf("expected event %s marked failed, got %v", event.ID, repo.failed)
	}
	if len(repo.published) != 0 {
		t.Fatalf("expected no published marks, got %v", repo.published)
	}
}

func TestProcessBatchEmptyQueue(t *testing.T) {
	repo := &fakeOutboxRepo{}
	svc := newTestPublisherService(t, repo, &fakePublisher{})

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if processed {
		t.Fatal("expected empty batch")
	}
}

func TestNextBackoffCapsAtMax(t *testing.T) {
	base := 500 * time.Millisecond
	current := base
	for i := 0; i < 10; i++ {
		current = nextBackoff(current, base, maxBackoff)
	}
	if current != maxBackoff {
		t.Fatalf("expected backoff capped at %s, got %s", maxBackoff, current)
	}
}

func newTestPublisherService(t *testing.T, repo *fakeOutboxRepo, pub *fakePublisher) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.Outbox.BatchSize = 10
	cfg.Outbox.MaxAttempts = 3
	svc, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		DB:         fakeTxRunner{},
		PubSub:     fakePubSubClient{},
		Repository: repo,
		Publisher:  pub,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func testOutboxEvent(t *testing.T) models.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"version":    1,
		"eventId":    uuid.NewString(),
		"occurredAt": time.Now().UTC(),
		"data":       map[string]any{},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventAppointmentUpdated,
		AggregateType: enums.AggregateAppointment,
		AggregateID:   uuid.New(),
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	}
}

type fakeTxRunner struct{}

func (fakeTxRunner) Ping(context.Context) error { return nil }

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fakePubSubClient struct{}

func (fakePubSubClient) Ping(context.Context) error            { return nil }
func (fakePubSubClient) EventsPublisher() *gcppubsub.Publisher { return nil }

type fakeOutboxRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (f *fakeOutboxRepo) FetchUnpublishedTx(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutboxRepo) MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakePublisher struct {
	messages []*gcppubsub.Message
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	f.messages = append(f.messages, msg)
	return fakePublishResult{err: f.err}
}

type fakePublishResult struct {
	err error
}

func (f fakePublishResult) Get(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "msg-id", nil
}
