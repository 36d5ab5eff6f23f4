package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/internal/appointments"
	"github.com/salonora/salonora-backend/internal/memberships"
	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/outbox"
	"github.com/salonora/salonora-backend/pkg/outbox/payloads"
	"github.com/salonora/salonora-backend/pkg/pagination"
)

const previewMaxRunes = 120

// Service manages chat threads and message delivery state.
type Service interface {
	CreateOrGet(ctx context.Context, customerID uuid.UUID, input CreateOrGetInput) (*ChatDTO, error)
	Get(ctx context.Context, actorID, chatID uuid.UUID) (*ChatDTO, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, input ListInput) (*ListResult, error)
	ListForSalon(ctx context.Context, actorID, salonID uuid.UUID, input ListInput) (*ListResult, error)
	SendMessage(ctx context.Context, actorID, chatID uuid.UUID, input SendMessageInput) (*MessageDTO, error)
	ListMessages(ctx context.Context, actorID, chatID uuid.UUID, limit int, cursor string) (*MessageListResult, error)
	MarkRead(ctx context.Context, actorID, chatID uuid.UUID) error
	MarkDelivered(ctx context.Context, actorID, chatID, messageID uuid.UUID) error
	Archive(ctx context.Context, actorID, chatID uuid.UUID) error
	Unarchive(ctx context.Context, actorID, chatID uuid.UUID) error
	Participants(ctx context.Context, actorID, chatID uuid.UUID) ([]ParticipantDTO, error)
}

// ListInput configures a chat thread listing request.
type ListInput struct {
	Status *enums.ChatStatus
	Limit  int
	Cursor string
}

// ListResult wraps returned threads and the cursor for the next page.
type ListResult struct {
	Items  []ChatDTO `json:"items"`
	Cursor string    `json:"cursor"`
}

// MessageListResult wraps returned messages and the cursor for the next page.
type MessageListResult struct {
	Items  []MessageDTO `json:"items"`
	Cursor string       `json:"cursor"`
}

// ServiceParams bundles chat service dependencies.
type ServiceParams struct {
	DB     *db.Client
	Outbox *outbox.Service
	Now    func() time.Time
}

type service struct {
	db     *db.Client
	outbox *outbox.Service
	now    func() time.Time
}

// NewService wires chat dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{db: params.DB, outbox: params.Outbox, now: now}, nil
}

// CreateOrGet returns the thread for the (salon, customer, appointment)
// scope, creating it when absent. Calling it twice with the same scope
// returns the same thread. A concurrent create racing on the scope index is
// resolved by re-reading the winner's row.
func (s *service) CreateOrGet(ctx context.Context, customerID uuid.UUID, input CreateOrGetInput) (*ChatDTO, error) {
	if input.SalonID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salon id required")
	}

	now := s.now().UTC()
	var result *models.Chat
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if input.AppointmentID != nil {
			if err := s.requireOwnAppointment(ctx, tx, customerID, input.SalonID, *input.AppointmentID); err != nil {
				return err
			}
		}

		repo := NewRepository(tx)

		existing, err := repo.FindByScope(ctx, input.SalonID, customerID, input.AppointmentID)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up chat")
		}

		chat := &models.Chat{
			SalonID:        input.SalonID,
			CustomerUserID: customerID,
			AppointmentID:  input.AppointmentID,
			Status:         enums.ChatStatusActive,
		}
		if err := repo.Create(ctx, chat); err != nil {
			if db.IsUniqueViolation(err, "idx_chats_scope") {
				winner, findErr := repo.FindByScope(ctx, input.SalonID, customerID, input.AppointmentID)
				if findErr != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load racing chat")
				}
				result = winner
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create chat")
		}

		if err := repo.AddParticipant(ctx, chat.ID, customerID, enums.SenderTypeCustomer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add participant")
		}

		salonID := chat.SalonID
		event := outbox.DomainEvent{
			EventType:     enums.EventChatThreadCreated,
			AggregateType: enums.AggregateChat,
			AggregateID:   chat.ID,
			Actor:         &outbox.ActorRef{UserID: customerID, SalonID: &salonID},
			Data: payloads.ChatThreadCreated{
				ChatID:         chat.ID,
				SalonID:        chat.SalonID,
				CustomerUserID: customerID,
				AppointmentID:  chat.AppointmentID,
			},
			Version:    1,
			OccurredAt: now,
		}
		if err := s.outbox.EmitIfNotExists(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit chat event")
		}

		result = chat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ChatFromModel(result), nil
}

func (s *service) Get(ctx context.Context, actorID, chatID uuid.UUID) (*ChatDTO, error) {
	var dto *ChatDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		chat, _, err := s.loadChatForActor(ctx, tx, actorID, chatID)
		if err != nil {
			return err
		}
		dto = ChatFromModel(chat)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, input ListInput) (*ListResult, error) {
	return s.list(ctx, ListParams{
		CustomerUserID: &customerID,
		Status:         input.Status,
		Limit:          input.Limit,
	}, input.Cursor, nil, uuid.Nil)
}

func (s *service) ListForSalon(ctx context.Context, actorID, salonID uuid.UUID, input ListInput) (*ListResult, error) {
	return s.list(ctx, ListParams{
		SalonID: &salonID,
		Status:  input.Status,
		Limit:   input.Limit,
	}, input.Cursor, &actorID, salonID)
}

func (s *service) list(ctx context.Context, params ListParams, cursor string, staffActor *uuid.UUID, salonID uuid.UUID) (*ListResult, error) {
	if cursor != "" {
		parsed, err := pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = parsed
	}

	var result *ListResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if staffActor != nil {
			if err := s.requireStaff(ctx, tx, *staffActor, salonID); err != nil {
				return err
			}
		}

		rows, next, err := NewRepository(tx).List(ctx, params)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list chats")
		}

		items := make([]ChatDTO, 0, len(rows))
		for i := range rows {
			items = append(items, *ChatFromModel(&rows[i]))
		}
		encoded := ""
		if next != nil {
			encoded = pagination.EncodeCursor(*next)
		}
		result = &ListResult{Items: items, Cursor: encoded}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) SendMessage(ctx context.Context, actorID, chatID uuid.UUID, input SendMessageInput) (*MessageDTO, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}
	messageType := input.MessageType
	if messageType == "" {
		messageType = enums.MessageTypeText
	}
	if !messageType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid message type")
	}

	now := s.now().UTC()
	var created *models.ChatMessage
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		chat, side, err := s.loadChatForActor(ctx, tx, actorID, chatID)
		if err != nil {
			return err
		}
		if chat.Status != enums.ChatStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "chat is archived")
		}

		repo := NewRepository(tx)
		message := &models.ChatMessage{
			ChatID:       chat.ID,
			SenderUserID: actorID,
			SenderType:   side,
			MessageType:  messageType,
			Body:         body,
			Status:       enums.MessageStatusSent,
		}
		if err := repo.CreateMessage(ctx, message); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
		}

		preview := truncatePreview(body)
		if err := repo.RecordMessage(ctx, chat.ID, side, preview, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record message on chat")
		}
		if err := repo.AddParticipant(ctx, chat.ID, actorID, side); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add participant")
		}

		salonID := chat.SalonID
		event := outbox.DomainEvent{
			EventType:     enums.EventChatMessageSent,
			AggregateType: enums.AggregateChat,
			AggregateID:   chat.ID,
			Actor:         &outbox.ActorRef{UserID: actorID, SalonID: &salonID},
			Data: payloads.ChatMessageSent{
				ChatID:       chat.ID,
				MessageID:    message.ID,
				SalonID:      chat.SalonID,
				SenderUserID: actorID,
				SenderType:   string(side),
				Preview:      preview,
			},
			Version:    1,
			OccurredAt: now,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit message event")
		}

		created = message
		return nil
	})
	if err != nil {
		return nil, err
	}
	return MessageFromModel(created), nil
}

func (s *service) ListMessages(ctx context.Context, actorID, chatID uuid.UUID, limit int, cursor string) (*MessageListResult, error) {
	var parsed *pagination.Cursor
	if cursor != "" {
		c, err := pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		parsed = c
	}

	var result *MessageListResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, _, err := s.loadChatForActor(ctx, tx, actorID, chatID); err != nil {
			return err
		}

		rows, next, err := NewRepository(tx).ListMessages(ctx, chatID, limit, parsed)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
		}

		items := make([]MessageDTO, 0, len(rows))
		for i := range rows {
			items = append(items, *MessageFromModel(&rows[i]))
		}
		encoded := ""
		if next != nil {
			encoded = pagination.EncodeCursor(*next)
		}
		result = &MessageListResult{Items: items, Cursor: encoded}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) MarkRead(ctx context.Context, actorID, chatID uuid.UUID) error {
	now := s.now().UTC()
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		chat, side, err := s.loadChatForActor(ctx, tx, actorID, chatID)
		if err != nil {
			return err
		}
		if err := NewRepository(tx).MarkRead(ctx, chat.ID, side, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark chat read")
		}
		return nil
	})
}

func (s *service) MarkDelivered(ctx context.Context, actorID, chatID, messageID uuid.UUID) error {
	now := s.now().UTC()
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, _, err := s.loadChatForActor(ctx, tx, actorID, chatID); err != nil {
			return err
		}
		err := NewRepository(tx).AdvanceMessageStatus(ctx, messageID, enums.MessageStatusDelivered, now)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Already delivered or read. Not an error for the caller.
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance message status")
		}
		return nil
	})
}

func (s *service) Archive(ctx context.Context, actorID, chatID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		chat, _, err := s.loadChatForActor(ctx, tx, actorID, chatID)
		if err != nil {
			return err
		}
		if err := NewRepository(tx).Archive(ctx, chat.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "chat already archived")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "archive chat")
		}
		return nil
	})
}

func (s *service) Unarchive(ctx context.Context, actorID, chatID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		chat, _, err := s.loadChatForActor(ctx, tx, actorID, chatID)
		if err != nil {
			return err
		}
		if err := NewRepository(tx).Unarchive(ctx, chat.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "chat is not archived")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unarchive chat")
		}
		return nil
	})
}

func (s *service) Participants(ctx context.Context, actorID, chatID uuid.UUID) ([]ParticipantDTO, error) {
	var items []ParticipantDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		chat, _, err := s.loadChatForActor(ctx, tx, actorID, chatID)
		if err != nil {
			return err
		}
		rows, err := NewRepository(tx).ListParticipants(ctx, chat.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list participants")
		}
		items = make([]ParticipantDTO, 0, len(rows))
		for i := range rows {
			items = append(items, *ParticipantFromModel(&rows[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// loadChatForActor resolves the thread and which side the actor sits on.
// Customers access their own threads; anyone else must hold an active staff
// role at the owning salon.
func (s *service) loadChatForActor(ctx context.Context, tx *gorm.DB, actorID, chatID uuid.UUID) (*models.Chat, enums.SenderType, error) {
	chat, err := NewRepository(tx).FindByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "chat not found")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load chat")
	}

	if chat.CustomerUserID == actorID {
		return chat, enums.SenderTypeCustomer, nil
	}
	if err := s.requireStaff(ctx, tx, actorID, chat.SalonID); err != nil {
		return nil, "", err
	}
	return chat, enums.SenderTypeSalon, nil
}

// requireOwnAppointment checks that the appointment a thread is being scoped
// to belongs to the calling customer and to the named salon.
func (s *service) requireOwnAppointment(ctx context.Context, tx *gorm.DB, customerID, salonID, appointmentID uuid.UUID) error {
	appointment, err := appointments.NewRepository(tx).FindByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointment")
	}
	if appointment.CustomerUserID == nil || *appointment.CustomerUserID != customerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "appointment belongs to another customer")
	}
	if appointment.SalonID != salonID {
		return pkgerrors.New(pkgerrors.CodeValidation, "appointment belongs to another salon")
	}
	return nil
}

func (s *service) requireStaff(ctx context.Context, tx *gorm.DB, actorID, salonID uuid.UUID) error {
	ok, err := memberships.NewRepository(tx).UserHasRole(ctx, actorID, salonID, enums.MemberRoleOwner, enums.MemberRoleManager, enums.MemberRoleEmployee)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient salon role")
	}
	return nil
}

func truncatePreview(body string) string {
	if utf8.RuneCountInString(body) <= previewMaxRunes {
		return body
	}
	runes := []rune(body)
	return string(runes[:previewMaxRunes])
}
