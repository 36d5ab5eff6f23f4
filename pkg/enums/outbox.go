package enums

// OutboxEventType names the domain events persisted through the outbox.
type OutboxEventType string

const (
	EventChatThreadCreated   OutboxEventType = "chat.thread_created"
	EventChatMessageSent     OutboxEventType = "chat.message_sent"
	EventInvitationCreated   OutboxEventType = "invitation.created"
	EventRatingSubmitted     OutboxEventType = "rating.submitted"
	EventRatingModerated     OutboxEventType = "rating.moderated"
	EventAppointmentUpdated  OutboxEventType = "appointment.status_changed"
	EventPromotionExpired    OutboxEventType = "promotion.expired"
	EventSubscriptionChanged OutboxEventType = "subscription.changed"
)

// OutboxAggregateType names the aggregate a domain event belongs to.
type OutboxAggregateType string

const (
	AggregateChat         OutboxAggregateType = "chat"
	AggregateInvitation   OutboxAggregateType = "invitation"
	AggregateRating       OutboxAggregateType = "rating"
	AggregateAppointment  OutboxAggregateType = "appointment"
	AggregatePromotion    OutboxAggregateType = "promotion"
	AggregateSubscription OutboxAggregateType = "subscription"
)

var validOutboxEventTypes = []OutboxEventType{
	EventChatThreadCreated,
	EventChatMessageSent,
	EventInvitationCreated,
	EventRatingSubmitted,
	EventRatingModerated,
	EventAppointmentUpdated,
	EventPromotionExpired,
	EventSubscriptionChanged,
}

// IsValid reports whether the value is a known OutboxEventType.
func (o OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == o {
			return true
		}
	}
	return false
}
