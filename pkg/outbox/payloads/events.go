package payloads

import (
	"time"

	"github.com/google/uuid"
)

// ChatThreadCreated is emitted when a customer opens a new chat thread.
type ChatThreadCreated struct {
	ChatID         uuid.UUID  `json:"chatId"`
	SalonID        uuid.UUID  `json:"salonId"`
	CustomerUserID uuid.UUID  `json:"customerUserId"`
	AppointmentID  *uuid.UUID `json:"appointmentId,omitempty"`
}

// ChatMessageSent is emitted for every persisted chat message.
type ChatMessageSent struct {
	ChatID       uuid.UUID `json:"chatId"`
	MessageID    uuid.UUID `json:"messageId"`
	SalonID      uuid.UUID `json:"salonId"`
	SenderUserID uuid.UUID `json:"senderUserId"`
	SenderType   string    `json:"senderType"`
	Preview      string    `json:"preview"`
}

// InvitationCreated triggers the staff invitation email.
type InvitationCreated struct {
	InvitationID uuid.UUID `json:"invitationId"`
	SalonID      uuid.UUID `json:"salonId"`
	SalonName    string    `json:"salonName"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// RatingSubmitted is emitted when a customer files a new rating.
type RatingSubmitted struct {
	RatingID       uuid.UUID `json:"ratingId"`
	SalonID        uuid.UUID `json:"salonId"`
	CustomerUserID uuid.UUID `json:"customerUserId"`
	Rating         int       `json:"rating"`
}

// RatingModerated is emitted when an admin approves or rejects a rating.
type RatingModerated struct {
	RatingID       uuid.UUID `json:"ratingId"`
	SalonID        uuid.UUID `json:"salonId"`
	CustomerUserID uuid.UUID `json:"customerUserId"`
	Status         string    `json:"status"`
	RejectReason   *string   `json:"rejectReason,omitempty"`
}

// AppointmentStatusChanged is emitted on every appointment transition.
type AppointmentStatusChanged struct {
	AppointmentID  uuid.UUID  `json:"appointmentId"`
	SalonID        uuid.UUID  `json:"salonId"`
	CustomerUserID *uuid.UUID `json:"customerUserId,omitempty"`
	FromStatus     string     `json:"fromStatus"`
	ToStatus       string     `json:"toStatus"`
	StartAt        time.Time  `json:"startAt"`
}

// PromotionExpired is emitted by the cron sweep that closes elapsed promotions.
type PromotionExpired struct {
	PromotionID uuid.UUID `json:"promotionId"`
	SalonID     uuid.UUID `json:"salonId"`
	ServiceID   uuid.UUID `json:"serviceId"`
	EndedAt     time.Time `json:"endedAt"`
}

// SubscriptionChanged is emitted when a salon subscribes, switches plans, or cancels.
type SubscriptionChanged struct {
	SubscriptionID uuid.UUID `json:"subscriptionId"`
	SalonID        uuid.UUID `json:"salonId"`
	PlanID         uuid.UUID `json:"planId"`
	Status         string    `json:"status"`
}
