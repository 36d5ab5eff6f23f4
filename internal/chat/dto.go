package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
)

// ChatDTO is the transport shape for a chat thread.
type ChatDTO struct {
	ID                  uuid.UUID        `json:"id"`
	SalonID             uuid.UUID        `json:"salon_id"`
	CustomerUserID      uuid.UUID        `json:"customer_user_id"`
	AppointmentID       *uuid.UUID       `json:"appointment_id,omitempty"`
	Status              enums.ChatStatus `json:"status"`
	CustomerUnreadCount int              `json:"customer_unread_count"`
	SalonUnreadCount    int              `json:"salon_unread_count"`
	LastMessageAt       *time.Time       `json:"last_message_at,omitempty"`
	LastMessagePreview  *string          `json:"last_message_preview,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
}

// MessageDTO is the transport shape for a chat message.
type MessageDTO struct {
	ID           uuid.UUID           `json:"id"`
	ChatID       uuid.UUID           `json:"chat_id"`
	SenderUserID uuid.UUID           `json:"sender_user_id"`
	SenderType   enums.SenderType    `json:"sender_type"`
	MessageType  enums.MessageType   `json:"message_type"`
	Body         string              `json:"body"`
	Status       enums.MessageStatus `json:"status"`
	ReadAt       *time.Time          `json:"read_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ParticipantDTO is the transport shape for a thread participant.
type ParticipantDTO struct {
	UserID     uuid.UUID        `json:"user_id"`
	Side       enums.SenderType `json:"side"`
	JoinedAt   time.Time        `json:"joined_at"`
	LastReadAt *time.Time       `json:"last_read_at,omitempty"`
}

// CreateOrGetInput identifies the thread scope the customer is opening.
type CreateOrGetInput struct {
	SalonID       uuid.UUID  `json:"salon_id" validate:"required"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
}

// SendMessageInput carries an outbound message.
type SendMessageInput struct {
	Body        string            `json:"body" validate:"required"`
	MessageType enums.MessageType `json:"message_type,omitempty"`
}

// ChatFromModel maps a persisted chat into a DTO.
func ChatFromModel(m *models.Chat) *ChatDTO {
	if m == nil {
		return nil
	}
	return &ChatDTO{
		ID:                  m.ID,
		SalonID:             m.SalonID,
		CustomerUserID:      m.CustomerUserID,
		AppointmentID:       m.AppointmentID,
		Status:              m.Status,
		CustomerUnreadCount: m.CustomerUnreadCount,
		SalonUnreadCount:    m.SalonUnreadCount,
		LastMessageAt:       m.LastMessageAt,
		LastMessagePreview:  m.LastMessagePreview,
		CreatedAt:           m.CreatedAt,
	}
}

// ParticipantFromModel maps a persisted participant into a DTO.
func ParticipantFromModel(m *models.ChatParticipant) *ParticipantDTO {
	if m == nil {
		return nil
	}
	return &ParticipantDTO{
		UserID:     m.UserID,
		Side:       m.Side,
		JoinedAt:   m.JoinedAt,
		LastReadAt: m.LastReadAt,
	}
}

// MessageFromModel maps a persisted message into a DTO.
func MessageFromModel(m *models.ChatMessage) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:           m.ID,
		ChatID:       m.ChatID,
		SenderUserID: m.SenderUserID,
		SenderType:   m.SenderType,
		MessageType:  m.MessageType,
		Body:         m.Body,
		Status:       m.Status,
		ReadAt:       m.ReadAt,
		CreatedAt:    m.CreatedAt,
	}
}
