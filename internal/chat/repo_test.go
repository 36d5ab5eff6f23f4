package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
)

func setupChatTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	chats := `
CREATE TABLE IF NOT EXISTS chats (
  id TEXT PRIMARY KEY,
  salon_id TEXT NOT NULL,
  customer_user_id TEXT NOT NULL,
  appointment_id TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  customer_unread_count INTEGER NOT NULL DEFAULT 0,
  salon_unread_count INTEGER NOT NULL DEFAULT 0,
  last_message_at DATETIME,
  last_message_preview TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	messages := `
CREATE TABLE IF NOT EXISTS chat_messages (
  id TEXT PRIMARY KEY,
  chat_id TEXT NOT NULL,
  sender_user_id TEXT NOT NULL,
  sender_type TEXT NOT NULL,
  message_type TEXT NOT NULL DEFAULT 'text',
  body TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'sent',
  read_at DATETIME,
  created_at DATETIME
);`
	participants := `
CREATE TABLE IF NOT EXISTS chat_participants (
  id TEXT PRIMARY KEY,
  chat_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  side TEXT NOT NULL,
  joined_at DATETIME,
  last_read_at DATETIME,
  UNIQUE (chat_id, user_id)
);`
	for _, ddl := range []string{chats, messages, participants} {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func mustCreateChat(t *testing.T, repo *Repository, salonID, customerID uuid.UUID, appointmentID *uuid.UUID) *models.Chat {
	t.Helper()
	chat := &models.Chat{
		ID:             uuid.New(),
		SalonID:        salonID,
		CustomerUserID: customerID,
		AppointmentID:  appointmentID,
		Status:         enums.ChatStatusActive,
	}
	if err := repo.Create(context.Background(), chat); err != nil {
		t.Fatalf("create chat: %v", err)
	}
	return chat
}

func mustCreateMessage(t *testing.T, repo *Repository, chatID, senderID uuid.UUID, senderType enums.SenderType, body string) *models.ChatMessage {
	t.Helper()
	message := &models.ChatMessage{
		ID:           uuid.New(),
		ChatID:       chatID,
		SenderUserID: senderID,
		SenderType:   senderType,
		MessageType:  enums.MessageTypeText,
		Body:         body,
		Status:       enums.MessageStatusSent,
	}
	if err := repo.CreateMessage(context.Background(), message); err != nil {
		t.Fatalf("create message: %v", err)
	}
	return message
}

func TestChatRepoFindByScopeMatchesAppointment(t *testing.T) {
	repo := NewRepository(setupChatTestDB(t))
	ctx := context.Background()

	salonID := uuid.New()
	customerID := uuid.New()
	appointmentID := uuid.New()

	bare := mustCreateChat(t, repo, salonID, customerID, nil)
	scoped := mustCreateChat(t, repo, salonID, customerID, &appointmentID)

	found, err := repo.FindByScope(ctx, salonID, customerID, nil)
	if err != nil {
		t.Fatalf("find bare scope: %v", err)
	}
	if found.ID != bare.ID {
		t.Fatalf("expected appointment-less chat %s, got %s", bare.ID, found.ID)
	}

	found, err = repo.FindByScope(ctx, salonID, customerID, &appointmentID)
	if err != nil {
		t.Fatalf("find scoped chat: %v", err)
	}
	if found.ID != scoped.ID {
		t.Fatalf("expected scoped chat %s, got %s", scoped.ID, found.ID)
	}

	other := uuid.New()
	if _, err := repo.FindByScope(ctx, salonID, customerID, &other); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestChatRepoRecordMessageBumpsCounterpart(t *testing.T) {
	repo := NewRepository(setupChatTestDB(t))
	ctx := context.Background()

	chat := mustCreateChat(t, repo, uuid.New(), uuid.New(), nil)
	now := time.Now().UTC().Truncate(time.Second)

	if err := repo.RecordMessage(ctx, chat.ID, enums.SenderTypeCustomer, "hello", now); err != nil {
		t.Fatalf("record customer message: %v", err)
	}
	if err := repo.RecordMessage(ctx, chat.ID, enums.SenderTypeCustomer, "anyone there?", now); err != nil {
		t.Fatalf("record second message: %v", err)
	}

	loaded, err := repo.FindByID(ctx, chat.ID)
	if err != nil {
		t.Fatalf("find chat: %v", err)
	}
	if loaded.SalonUnreadCount != 2 {
		t.Fatalf("expected salon unread 2, got %d", loaded.SalonUnreadCount)
	}
	if loaded.CustomerUnreadCount != 0 {
		t.Fatalf("expected customer unread 0, got %d", loaded.CustomerUnreadCount)
	}
	if loaded.LastMessagePreview == nil || *loaded.LastMessagePreview != "anyone there?" {
		t.Fatalf("expected preview updated, got %+v", loaded.LastMessagePreview)
	}

	if err := repo.RecordMessage(ctx, chat.ID, enums.SenderTypeSalon, "yes!", now); err != nil {
		t.Fatalf("record salon message: %v", err)
	}
	loaded, err = repo.FindByID(ctx, chat.ID)
	if err != nil {
		t.Fatalf("find chat: %v", err)
	}
	if loaded.CustomerUnreadCount != 1 {
		t.Fatalf("expected customer unread 1, got %d", loaded.CustomerUnreadCount)
	}
	if loaded.SalonUnreadCount != 2 {
		t.Fatalf("expected salon unread untouched, got %d", loaded.SalonUnreadCount)
	}
}

func TestChatRepoMarkReadZeroesOwnCounterOnly(t *testing.T) {
	repo := NewRepository(setupChatTestDB(t))
	ctx := context.Background()

	chat := mustCreateChat(t, repo, uuid.New(), uuid.New(), nil)
	now := time.Now().UTC()

	if err := repo.RecordMessage(ctx, chat.ID, enums.SenderTypeCustomer, "hi", now); err != nil {
		t.Fatalf("record message: %v", err)
	}
	if err := repo.RecordMessage(ctx, chat.ID, enums.SenderTypeSalon, "hi back", now); err != nil {
		t.Fatalf("record message: %v", err)
	}
	message := mustCreateMessage(t, repo, chat.ID, uuid.New(), enums.SenderTypeCustomer, "hi")

	if err := repo.MarkRead(ctx, chat.ID, enums.SenderTypeSalon, now); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	loaded, err := repo.FindByID(ctx, chat.ID)
	if err != nil {
		t.Fatalf("find chat: %v", err)
	}
	if loaded.SalonUnreadCount != 0 {
		t.Fatalf("expected salon unread zeroed, got %d", loaded.SalonUnreadCount)
	}
	if loaded.CustomerUnreadCount != 1 {
		t.Fatalf("expected customer unread untouched, got %d", loaded.CustomerUnreadCount)
	}

	var stored models.ChatMessage
	if err := repo.db.First(&stored, "id = ?", message.ID).Error; err != nil {
		t.Fatalf("load message: %v", err)
	}
	if stored.Status != enums.MessageStatusRead {
		t.Fatalf("expected counterpart message read, got %s", stored.Status)
	}
	if stored.ReadAt == nil {
		t.Fatal("expected read_at set")
	}
}

func TestChatRepoAdvanceMessageStatusIsMonotonic(t *testing.T) {
	repo := NewRepository(setupChatTestDB(t))
	ctx := context.Background()

	chat := mustCreateChat(t, repo, uuid.New(), uuid.New(), nil)
	message := mustCreateMessage(t, repo, chat.ID, uuid.New(), enums.SenderTypeCustomer, "hi")
	now := time.Now().UTC()

	if err := repo.AdvanceMessageStatus(ctx, message.ID, enums.MessageStatusRead, now); err != nil {
		t.Fatalf("advance to read: %v", err)
	}

	err := repo.AdvanceMessageStatus(ctx, message.ID, enums.MessageStatusDelivered, now)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected downgrade to be rejected, got %v", err)
	}

	var stored models.ChatMessage
	if err := repo.db.First(&stored, "id = ?", message.ID).Error; err != nil {
		t.Fatalf("load message: %v", err)
	}
	if stored.Status != enums.MessageStatusRead {
		t.Fatalf("expected status to stay read, got %s", stored.Status)
	}
}

func TestChatRepoAddParticipantIsIdempotent(t *testing.T) {
	repo := NewRepository(setupChatTestDB(t))
	ctx := context.Background()

	chat := mustCreateChat(t, repo, uuid.New(), uuid.New(), nil)
	userID := uuid.New()

	if err := repo.AddParticipant(ctx, chat.ID, userID, enums.SenderTypeCustomer); err != nil {
		t.Fatalf("add participant: %v", err)
	}
	if err := repo.AddParticipant(ctx, chat.ID, userID, enums.SenderTypeCustomer); err != nil {
		t.Fatalf("repeat add participant: %v", err)
	}

	var count int64
	if err := repo.db.Model(&models.ChatParticipant{}).Where("chat_id = ?", chat.ID).Count(&count).Error; err != nil {
		t.Fatalf("count participants: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 participant, got %d", count)
	}
}

func TestChatRepoArchiveGuard(t *testing.T) {
	repo := NewRepository(setupChatTestDB(t))
	ctx := context.Background()

	chat := mustCreateChat(t, repo, uuid.New(), uuid.New(), nil)

	if err := repo.Archive(ctx, chat.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if err := repo.Archive(ctx, chat.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected repeat archive rejected, got %v", err)
	}
}

func TestChatRepoUnarchiveGuard(t *testing.T) {
	repo := NewRepository(setupChatTestDB(t))
	ctx := context.Background()

	chat := mustCreateChat(t, repo, uuid.New(), uuid.New(), nil)

	if err := repo.Unarchive(ctx, chat.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected unarchive of active thread rejected, got %v", err)
	}

	if err := repo.Archive(ctx, chat.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if err := repo.Unarchive(ctx, chat.ID); err != nil {
		t.Fatalf("unarchive: %v", err)
	}

	var reloaded models.Chat
	if err := repo.db.First(&reloaded, "id = ?", chat.ID).Error; err != nil {
		t.Fatalf("reload chat: %v", err)
	}
	if reloaded.Status != enums.ChatStatusActive {
		t.Fatalf("expected active status, got %s", reloaded.Status)
	}
}

func TestChatRepoListParticipantsOrderedByJoin(t *testing.T) {
	repo := NewRepository(setupChatTestDB(t))
	ctx := context.Background()

	chat := mustCreateChat(t, repo, uuid.New(), uuid.New(), nil)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	second := &models.ChatParticipant{ID: uuid.New(), ChatID: chat.ID, UserID: uuid.New(), Side: enums.SenderTypeSalon, JoinedAt: base.Add(time.Minute)}
	first := &models.ChatParticipant{ID: uuid.New(), ChatID: chat.ID, UserID: uuid.New(), Side: enums.SenderTypeCustomer, JoinedAt: base}
	for _, participant := range []*models.ChatParticipant{second, first} {
		if err := repo.db.Create(participant).Error; err != nil {
			t.Fatalf("create participant: %v", err)
		}
	}

	rows, err := repo.ListParticipants(ctx, chat.ID)
	if err != nil {
		t.Fatalf("list participants: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(rows))
	}
	if rows[0].UserID != first.UserID || rows[1].UserID != second.UserID {
		t.Fatal("expected participants ordered by join time")
	}
}
