package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/enums"
)

// Chat is a persistent thread between one customer and one salon, optionally
// scoped to an appointment. Unread counters are mutated server-side only.
type Chat struct {
	ID                  uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SalonID             uuid.UUID        `gorm:"column:salon_id;type:uuid;not null;index:idx_chats_scope,unique"`
	CustomerUserID      uuid.UUID        `gorm:"column:customer_user_id;type:uuid;not null;index:idx_chats_scope,unique"`
	AppointmentID       *uuid.UUID       `gorm:"column:appointment_id;type:uuid;index:idx_chats_scope,unique"`
	Status              enums.ChatStatus `gorm:"column:status;type:chat_status;not null;default:'active'"`
	CustomerUnreadCount int              `gorm:"column:customer_unread_count;not null;default:0"`
	SalonUnreadCount    int              `gorm:"column:salon_unread_count;not null;default:0"`
	LastMessageAt       *time.Time       `gorm:"column:last_message_at"`
	LastMessagePreview  *string          `gorm:"column:last_message_preview"`
	CreatedAt           time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
