package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/enums"
)

// ChatMessage is a single message inside a chat thread.
type ChatMessage struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ChatID       uuid.UUID           `gorm:"column:chat_id;type:uuid;not null;index"`
	SenderUserID uuid.UUID           `gorm:"column:sender_user_id;type:uuid;not null"`
	SenderType   enums.SenderType    `gorm:"column:sender_type;type:sender_type;not null"`
	MessageType  enums.MessageType   `gorm:"column:message_type;type:message_type;not null;default:'text'"`
	Body         string              `gorm:"column:body;not null"`
	Status       enums.MessageStatus `gorm:"column:status;type:message_status;not null;default:'sent'"`
	ReadAt       *time.Time          `gorm:"column:read_at"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
}
