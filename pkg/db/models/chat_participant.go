package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/enums"
)

// ChatParticipant records a user's attachment to a chat thread.
type ChatParticipant struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ChatID     uuid.UUID        `gorm:"column:chat_id;type:uuid;not null;index:idx_chat_participants_member,unique"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index:idx_chat_participants_member,unique"`
	Side       enums.SenderType `gorm:"column:side;type:sender_type;not null"`
	JoinedAt   time.Time        `gorm:"column:joined_at;autoCreateTime"`
	LastReadAt *time.Time       `gorm:"column:last_read_at"`
}
