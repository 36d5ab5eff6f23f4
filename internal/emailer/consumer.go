package emailer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	"github.com/salonora/salonora-backend/pkg/logger"
	"github.com/salonora/salonora-backend/pkg/outbox"
	"github.com/salonora/salonora-backend/pkg/outbox/payloads"
	"github.com/salonora/salonora-backend/pkg/sendgrid"
)

const consumerName = "emailer"

type sender interface {
	Send(ctx context.Context, msg sendgrid.Message) error
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type salonFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Salon, error)
}

type idempotencyChecker interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

type notifier interface {
	Notify(ctx context.Context, notification *models.Notification) error
}

// ConsumerParams configure the email consumer.
type ConsumerParams struct {
	Sender        sender
	Users         userFinder
	Salons        salonFinder
	Idempotency   idempotencyChecker
	Notifier      notifier
	Logger        *logger.Logger
	InviteBaseURL string
}

// Consumer turns domain events into best-effort emails. Events it does not
// recognize are acked without side effects.
type Consumer struct {
	sender        sender
	users         userFinder
	salons        salonFinder
	manager       idempotencyChecker
	notifier      notifier
	logg          *logger.Logger
	inviteBaseURL string
	eventFilter   map[enums.OutboxEventType]struct{}
}

// NewConsumer builds the email consumer.
func NewConsumer(params ConsumerParams) (*Consumer, error) {
	if params.Sender == nil {
		return nil, fmt.Errorf("email sender required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Salons == nil {
		return nil, fmt.Errorf("salons repository required")
	}
	if params.Idempotency == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		sender:        params.Sender,
		users:         params.Users,
		salons:        params.Salons,
		manager:       params.Idempotency,
		notifier:      params.Notifier,
		logg:          params.Logger,
		inviteBaseURL: strings.TrimSpace(params.InviteBaseURL),
		eventFilter: map[enums.OutboxEventType]struct{}{
			enums.EventInvitationCreated: {},
			enums.EventRatingModerated:   {},
			enums.EventChatThreadCreated: {},
		},
	}, nil
}

// Process sends the email for a supported event, once per event id.
func (c *Consumer) Process(ctx context.Context, eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) error {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"event_id":   envelope.EventID,
		"event_type": eventType,
	})

	if _, ok := c.eventFilter[eventType]; !ok {
		c.logg.Info(logCtx, "event not handled by email consumer")
		return nil
	}

	if envelope.EventID == "" {
		return fmt.Errorf("event id missing")
	}
	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		return fmt.Errorf("parse event id: %w", err)
	}

	already, err := c.manager.CheckAndMarkProcessed(ctx, consumerName, eventID)
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return nil
	}

	msg, notification, err := c.buildMessage(ctx, eventType, envelope)
	if err != nil {
		// Malformed payloads and unknown recipients never become sendable;
		// leave the processed mark so the message is not retried forever.
		c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "skipping email for event")
		return nil
	}
	if msg == nil {
		c.logg.Info(logCtx, "no recipient for event")
		return nil
	}

	if err := c.sender.Send(ctx, *msg); err != nil {
		c.logg.Error(logCtx, "failed to send email", err)
		_ = c.manager.Delete(ctx, consumerName, eventID)
		return err
	}

	if notification != nil && c.notifier != nil {
		if err := c.notifier.Notify(ctx, notification); err != nil {
			c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "failed to write in-app notification")
		}
	}

	c.logg.Info(logCtx, "email dispatched")
	return nil
}

func (c *Consumer) buildMessage(ctx context.Context, eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) (*sendgrid.Message, *models.Notification, error) {
	switch eventType {
	case enums.EventInvitationCreated:
		msg, err := c.invitationMessage(envelope)
		return msg, nil, err
	case enums.EventRatingModerated:
		msg, err := c.ratingModeratedMessage(ctx, envelope)
		return msg, nil, err
	case enums.EventChatThreadCreated:
		return c.chatThreadMessage(ctx, envelope)
	default:
		return nil, nil, nil
	}
}

func (c *Consumer) invitationMessage(envelope outbox.PayloadEnvelope) (*sendgrid.Message, error) {
	var data payloads.InvitationCreated
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, fmt.Errorf("decode invitation payload: %w", err)
	}
	if strings.TrimSpace(data.Email) == "" {
		return nil, fmt.Errorf("invitation email missing")
	}

	link := c.inviteBaseURL
	if link != "" {
		link = link + "?token=" + url.QueryEscape(data.Token)
	}
	body := fmt.Sprintf(
		"You have been invited to join %s as %s.\n\nAccept the invitation before %s",
		data.SalonName, data.Role, data.ExpiresAt.Format("January 2, 2006"),
	)
	if link != "" {
		body += ":\n\n" + link
	} else {
		body += "."
	}

	return &sendgrid.Message{
		To:        data.Email,
		Subject:   fmt.Sprintf("You're invited to join %s", data.SalonName),
		PlainText: body,
	}, nil
}

func (c *Consumer) ratingModeratedMessage(ctx context.Context, envelope outbox.PayloadEnvelope) (*sendgrid.Message, error) {
	var data payloads.RatingModerated
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, fmt.Errorf("decode rating payload: %w", err)
	}
	user, err := c.users.FindByID(ctx, data.CustomerUserID)
	if err != nil {
		return nil, fmt.Errorf("load rating customer: %w", err)
	}

	var subject, body string
	if data.Status == string(enums.RatingStatusApproved) {
		subject = "Your review has been published"
		body = fmt.Sprintf("Hi %s,\n\nYour review is now live. Thanks for sharing your experience.", user.FirstName)
	} else {
		subject = "Your review could not be published"
		body = fmt.Sprintf("Hi %s,\n\nYour review was not approved for publication.", user.FirstName)
		if data.RejectReason != nil && strings.TrimSpace(*data.RejectReason) != "" {
			body += "\n\nReason: " + strings.TrimSpace(*data.RejectReason)
		}
	}

	return &sendgrid.Message{
		To:        user.Email,
		ToName:    user.FirstName + " " + user.LastName,
		Subject:   subject,
		PlainText: body,
	}, nil
}

func (c *Consumer) chatThreadMessage(ctx context.Context, envelope outbox.PayloadEnvelope) (*sendgrid.Message, *models.Notification, error) {
	var data payloads.ChatThreadCreated
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, nil, fmt.Errorf("decode chat payload: %w", err)
	}
	salon, err := c.salons.FindByID(ctx, data.SalonID)
	if err != nil {
		return nil, nil, fmt.Errorf("load salon: %w", err)
	}

	to := ""
	toName := salon.Name
	if salon.Email != nil && strings.TrimSpace(*salon.Email) != "" {
		to = strings.TrimSpace(*salon.Email)
	} else {
		owner, err := c.users.FindByID(ctx, salon.OwnerID)
		if err != nil {
			return nil, nil, fmt.Errorf("load salon owner: %w", err)
		}
		to = owner.Email
		toName = owner.FirstName + " " + owner.LastName
	}

	msg := &sendgrid.Message{
		To:        to,
		ToName:    toName,
		Subject:   "A customer started a conversation",
		PlainText: fmt.Sprintf("A customer opened a new chat with %s. Reply from your dashboard.", salon.Name),
	}
	notification := &models.Notification{
		UserID:  salon.OwnerID,
		Type:    enums.NotificationTypeChatMessage,
		Title:   "New conversation",
		Message: fmt.Sprintf("A customer opened a new chat with %s.", salon.Name),
	}
	return msg, notification, nil
}
