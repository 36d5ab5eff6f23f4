package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	"github.com/salonora/salonora-backend/pkg/pagination"
)

// Repository persists chat threads, messages and participants.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to a database handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new chat thread.
func (r *Repository) Create(ctx context.Context, chat *models.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

// FindByID loads a single chat thread.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.WithContext(ctx).First(&chat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// FindByScope loads the chat matching the (salon, customer, appointment)
// tuple. A nil appointment matches only the appointment-less thread.
func (r *Repository) FindByScope(ctx context.Context, salonID, customerUserID uuid.UUID, appointmentID *uuid.UUID) (*models.Chat, error) {
	query := r.db.WithContext(ctx).
		Where("salon_id = ? AND customer_user_id = ?", salonID, customerUserID)
	if appointmentID == nil {
		query = query.Where("appointment_id IS NULL")
	} else {
		query = query.Where("appointment_id = ?", *appointmentID)
	}

	var chat models.Chat
	if err := query.First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListParams filters a chat thread listing.
type ListParams struct {
	SalonID        *uuid.UUID
	CustomerUserID *uuid.UUID
	Status         *enums.ChatStatus
	Limit          int
	Cursor         *pagination.Cursor
}

// List returns chat threads newest-first with cursor pagination.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.Chat, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Chat{})
	if params.SalonID != nil {
		query = query.Where("salon_id = ?", *params.SalonID)
	}
	if params.CustomerUserID != nil {
		query = query.Where("customer_user_id = ?", *params.CustomerUserID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Chat
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return rows, next, nil
}

// CreateMessage inserts a new chat message.
func (r *Repository) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListMessages returns messages for a chat newest-first with cursor pagination.
func (r *Repository) ListMessages(ctx context.Context, chatID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.ChatMessage, *pagination.Cursor, error) {
	normalized := pagination.NormalizeLimit(limit)

	query := r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("chat_id = ?", chatID)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.ChatMessage
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return rows, next, nil
}

// RecordMessage bumps the counterpart's unread counter and refreshes the
// thread preview in a single server-side update.
func (r *Repository) RecordMessage(ctx context.Context, chatID uuid.UUID, senderType enums.SenderType, preview string, at time.Time) error {
	counterColumn := "customer_unread_count"
	if senderType == enums.SenderTypeCustomer {
		counterColumn = "salon_unread_count"
	}

	result := r.db.WithContext(ctx).
		Model(&models.Chat{}).
		Where("id = ?", chatID).
		Updates(map[string]any{
			counterColumn:          gorm.Expr(counterColumn + " + 1"),
			"last_message_at":      at,
			"last_message_preview": preview,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkRead zeroes the reader's own unread counter and marks counterpart
// messages as read.
func (r *Repository) MarkRead(ctx context.Context, chatID uuid.UUID, side enums.SenderType, at time.Time) error {
	counterColumn := "salon_unread_count"
	if side == enums.SenderTypeCustomer {
		counterColumn = "customer_unread_count"
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Chat{}).
		Where("id = ?", chatID).
		Update(counterColumn, 0).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("chat_id = ? AND sender_type = ? AND status <> ?", chatID, side.Counterpart(), enums.MessageStatusRead).
		Updates(map[string]any{
			"status":  enums.MessageStatusRead,
			"read_at": at,
		}).Error
}

// AdvanceMessageStatus moves a message forward in the delivery lifecycle.
// Regressions are rejected at the SQL level so concurrent updates cannot
// downgrade a message. Returns gorm.ErrRecordNotFound when no forward move
// applies.
func (r *Repository) AdvanceMessageStatus(ctx context.Context, messageID uuid.UUID, to enums.MessageStatus, at time.Time) error {
	query := r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("id = ?", messageID)

	updates := map[string]any{"status": to}
	switch to {
	case enums.MessageStatusDelivered:
		query = query.Where("status = ?", enums.MessageStatusSent)
	case enums.MessageStatusRead:
		query = query.Where("status IN ?", []enums.MessageStatus{enums.MessageStatusSent, enums.MessageStatusDelivered})
		updates["read_at"] = at
	default:
		return gorm.ErrRecordNotFound
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddParticipant records the user's attachment to the thread. Repeat joins
// are no-ops.
func (r *Repository) AddParticipant(ctx context.Context, chatID, userID uuid.UUID, side enums.SenderType) error {
	participant := &models.ChatParticipant{
		ChatID: chatID,
		UserID: userID,
		Side:   side,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(participant).Error
}

// Archive closes an active thread. Returns gorm.ErrRecordNotFound when the
// thread is already archived.
func (r *Repository) Archive(ctx context.Context, chatID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Chat{}).
		Where("id = ? AND status = ?", chatID, enums.ChatStatusActive).
		Update("status", enums.ChatStatusArchived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Unarchive reopens an archived thread. Returns gorm.ErrRecordNotFound when
// the thread is already active.
func (r *Repository) Unarchive(ctx context.Context, chatID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Chat{}).
		Where("id = ? AND status = ?", chatID, enums.ChatStatusArchived).
		Update("status", enums.ChatStatusActive)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListParticipants returns everyone attached to the thread, earliest join first.
func (r *Repository) ListParticipants(ctx context.Context, chatID uuid.UUID) ([]models.ChatParticipant, error) {
	var rows []models.ChatParticipant
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("joined_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
