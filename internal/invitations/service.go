package invitations

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/internal/memberships"
	"github.com/salonora/salonora-backend/internal/salons"
	"github.com/salonora/salonora-backend/internal/users"
	"github.com/salonora/salonora-backend/pkg/config"
	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/outbox"
	"github.com/salonora/salonora-backend/pkg/outbox/payloads"
)

const invitationTokenBytes = 24

// Service manages the staff invitation lifecycle.
type Service interface {
	Invite(ctx context.Context, actorID, salonID uuid.UUID, input InviteInput) (*models.SalonInvitation, error)
	List(ctx context.Context, actorID, salonID uuid.UUID) ([]models.SalonInvitation, error)
	Revoke(ctx context.Context, actorID, salonID, invitationID uuid.UUID) error
	Accept(ctx context.Context, userID uuid.UUID, token string) (*memberships.MembershipDTO, error)
	Decline(ctx context.Context, userID uuid.UUID, token string) error
}

// InviteInput carries the data for a new staff invitation.
type InviteInput struct {
	Email string           `json:"email" validate:"required,email"`
	Role  enums.MemberRole `json:"role" validate:"required"`
}

// ServiceParams bundles invitation service dependencies.
type ServiceParams struct {
	DB     *db.Client
	Outbox *outbox.Service
	Config config.InvitationConfig
	Now    func() time.Time
}

type service struct {
	db     *db.Client
	outbox *outbox.Service
	cfg    config.InvitationConfig
	now    func() time.Time
}

// NewService wires invitation dependencies.
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
	return &service{
		db:     params.DB,
		outbox: params.Outbox,
		cfg:    params.Config,
		now:    now,
	}, nil
}

func (s *service) Invite(ctx context.Context, actorID, salonID uuid.UUID, input InviteInput) (*models.SalonInvitation, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !input.Role.IsValid() || input.Role == enums.MemberRoleAdmin || input.Role == enums.MemberRoleOwner {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid invitation role")
	}

	token, err := generateInvitationToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate token")
	}

	now := s.now().UTC()
	var created *models.SalonInvitation
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		membershipRepo := memberships.NewRepository(tx)
		salonRepo := salons.NewRepository(tx)

		ok, err := membershipRepo.UserHasRole(ctx, actorID, salonID, enums.MemberRoleOwner, enums.MemberRoleManager)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient salon role")
		}

		salon, err := salonRepo.FindByID(ctx, salonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "salon not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load salon")
		}

		pending, err := repo.HasPending(ctx, salonID, email, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending invitations")
		}
		if pending {
			return pkgerrors.New(pkgerrors.CodeConflict, "invitation already pending for email")
		}

		invitation := &models.SalonInvitation{
			SalonID:         salonID,
			Email:           email,
			Role:            input.Role,
			Status:          enums.InvitationStatusPending,
			Token:           token,
			InvitedByUserID: actorID,
			ExpiresAt:       now.Add(s.cfg.TTL),
		}
		if err := repo.Create(ctx, invitation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invitation")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventInvitationCreated,
			AggregateType: enums.AggregateInvitation,
			AggregateID:   invitation.ID,
			Actor:         &outbox.ActorRef{UserID: actorID, SalonID: &salonID},
			Data: payloads.InvitationCreated{
				InvitationID: invitation.ID,
				SalonID:      salonID,
				SalonName:    salon.Name,
				Email:        email,
				Role:         string(input.Role),
				Token:        token,
				ExpiresAt:    invitation.ExpiresAt,
			},
			Version:    1,
			OccurredAt: now,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit invitation event")
		}

		created = invitation
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) List(ctx context.Context, actorID, salonID uuid.UUID) ([]models.SalonInvitation, error) {
	var rows []models.SalonInvitation
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		membershipRepo := memberships.NewRepository(tx)
		ok, err := membershipRepo.UserHasRole(ctx, actorID, salonID, enums.MemberRoleOwner, enums.MemberRoleManager)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient salon role")
		}
		rows, err = NewRepository(tx).ListBySalon(ctx, salonID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invitations")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *service) Revoke(ctx context.Context, actorID, salonID, invitationID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		membershipRepo := memberships.NewRepository(tx)
		ok, err := membershipRepo.UserHasRole(ctx, actorID, salonID, enums.MemberRoleOwner, enums.MemberRoleManager)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient salon role")
		}

		repo := NewRepository(tx)
		invitation, err := repo.FindByID(ctx, invitationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "invitation not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invitation")
		}
		if invitation.SalonID != salonID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "invitation belongs to another salon")
		}

		if err := repo.Transition(ctx, invitationID, enums.InvitationStatusRevoked); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "invitation is not pending")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke invitation")
		}
		return nil
	})
}

func (s *service) Accept(ctx context.Context, userID uuid.UUID, token string) (*memberships.MembershipDTO, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}

	var created *memberships.MembershipDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		membershipRepo := memberships.NewRepository(tx)
		userRepo := users.NewRepository(tx)

		invitation, err := s.loadPending(ctx, repo, token)
		if err != nil {
			return err
		}

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		if !strings.EqualFold(user.Email, invitation.Email) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "invitation issued for a different email")
		}

		if _, err := membershipRepo.GetMembership(ctx, userID, invitation.SalonID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "already a member of salon")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
		}

		membership, err := membershipRepo.CreateMembership(ctx, invitation.SalonID, userID, invitation.Role, &invitation.InvitedByUserID, enums.MembershipStatusActive)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
		}

		salonIDs := append([]uuid.UUID(user.SalonIDs), invitation.SalonID)
		if err := userRepo.UpdateSalonIDs(ctx, userID, salonIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "associate salon with user")
		}

		if err := repo.Transition(ctx, invitation.ID, enums.InvitationStatusAccepted); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "invitation is not pending")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept invitation")
		}

		created = memberships.ToDTO(membership)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Decline(ctx context.Context, userID uuid.UUID, token string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		userRepo := users.NewRepository(tx)

		invitation, err := s.loadPending(ctx, repo, token)
		if err != nil {
			return err
		}

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		if !strings.EqualFold(user.Email, invitation.Email) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "invitation issued for a different email")
		}

		if err := repo.Transition(ctx, invitation.ID, enums.InvitationStatusDeclined); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "invitation is not pending")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decline invitation")
		}
		return nil
	})
}

func (s *service) loadPending(ctx context.Context, repo *Repository, token string) (*models.SalonInvitation, error) {
	invitation, err := repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invitation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invitation")
	}
	if invitation.Status != enums.InvitationStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invitation is not pending")
	}
	if s.now().UTC().After(invitation.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invitation expired")
	}
	return invitation, nil
}

func generateInvitationToken() (string, error) {
	bytes := make([]byte, invitationTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating invitation token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
