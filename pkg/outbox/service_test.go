package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	ddl := `
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
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create outbox_events table: %v", err)
	}
	return db
}

func countEvents(t *testing.T, db *gorm.DB, aggregateID uuid.UUID) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.OutboxEvent{}).Where("aggregate_id = ?", aggregateID).Count(&count).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	return count
}

func TestEmitQueuesEnvelope(t *testing.T) {
	db := setupOutboxTestDB(t)
	svc := NewService(NewRepository(db), nil)

	aggregateID := uuid.New()
	occurredAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	err := svc.Emit(context.Background(), db, DomainEvent{
		EventType:     enums.EventChatThreadCreated,
		AggregateType: enums.AggregateChat,
		AggregateID:   aggregateID,
		Data:          map[string]string{"chat_id": aggregateID.String()},
		Version:       1,
		OccurredAt:    occurredAt,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	var row models.OutboxEvent
	if err := db.First(&row, "aggregate_id = ?", aggregateID).Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	if row.EventType != enums.EventChatThreadCreated {
		t.Fatalf("unexpected event type %s", row.EventType)
	}
	if row.PublishedAt != nil {
		t.Fatal("expected event queued unpublished")
	}

	var envelope PayloadEnvelope
	if err := json.Unmarshal(row.Payload, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Version != 1 {
		t.Fatalf("expected version 1, got %d", envelope.Version)
	}
	if envelope.EventID == "" {
		t.Fatal("expected generated event id")
	}
	if !envelope.OccurredAt.Equal(occurredAt) {
		t.Fatalf("expected occurred_at %s, got %s", occurredAt, envelope.OccurredAt)
	}
}

func TestEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(setupOutboxTestDB(t)), nil)

	err := svc.Emit(context.Background(), nil, DomainEvent{
		EventType:     enums.EventChatThreadCreated,
		AggregateType: enums.AggregateChat,
		AggregateID:   uuid.New(),
	})
	if err == nil {
		t.Fatal("expected rejection without transaction")
	}
}

func TestEmitIfNotExistsDedupesPerAggregate(t *testing.T) {
	db := setupOutboxTestDB(t)
	svc := NewService(NewRepository(db), nil)

	aggregateID := uuid.New()
	event := DomainEvent{
		EventType:     enums.EventChatThreadCreated,
		AggregateType: enums.AggregateChat,
		AggregateID:   aggregateID,
		Data:          map[string]string{"chat_id": aggregateID.String()},
		Version:       1,
	}

	if err := svc.EmitIfNotExists(context.Background(), db, event); err != nil {
		t.Fatalf("first emit: %v", err)
	}
	if err := svc.EmitIfNotExists(context.Background(), db, event); err != nil {
		t.Fatalf("repeat emit: %v", err)
	}
	if got := countEvents(t, db, aggregateID); got != 1 {
		t.Fatalf("expected 1 queued event, got %d", got)
	}

	// A different event type for the same aggregate is not deduped.
	archived := event
	archived.EventType = enums.EventChatMessageSent
	if err := svc.EmitIfNotExists(context.Background(), db, archived); err != nil {
		t.Fatalf("emit second type: %v", err)
	}
	if got := countEvents(t, db, aggregateID); got != 2 {
		t.Fatalf("expected 2 queued events, got %d", got)
	}
}
