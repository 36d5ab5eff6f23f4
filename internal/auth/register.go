package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/internal/memberships"
	"github.com/salonora/salonora-backend/internal/salons"
	"github.com/salonora/salonora-backend/internal/users"
	"github.com/salonora/salonora-backend/pkg/config"
	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/security"
	"github.com/salonora/salonora-backend/pkg/types"
)

// RegisterRequest contains the payload required for onboarding a new salon.
type RegisterRequest struct {
	FirstName   string               `json:"first_name" validate:"required"`
	LastName    string               `json:"last_name" validate:"required"`
	Email       string               `json:"email" validate:"required,email"`
	Password    string               `json:"password" validate:"required"`
	Phone       *string              `json:"phone,omitempty"`
	SalonName   string               `json:"salon_name" validate:"required"`
	AddressLine string               `json:"address_line" validate:"required"`
	City        string               `json:"city" validate:"required"`
	PostalCode  *string              `json:"postal_code,omitempty"`
	Schedule    types.WeeklySchedule `json:"schedule,omitempty"`
	AcceptTOS   bool                 `json:"accept_tos"`
}

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(req.SalonName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "salon name is required")
	}
	if !req.AcceptTOS {
		return pkgerrors.New(pkgerrors.CodeValidation, "accept_tos must be true")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		salonRepo := salons.NewRepository(tx)
		membershipRepo := memberships.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		salon, err := salonRepo.Create(ctx, salons.CreateSalonDTO{
			Name:        req.SalonName,
			AddressLine: req.AddressLine,
			City:        req.City,
			PostalCode:  req.PostalCode,
			Phone:       req.Phone,
			Schedule:    req.Schedule,
			OwnerID:     user.ID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create salon")
		}

		if _, err := membershipRepo.CreateMembership(
			ctx,
			salon.ID,
			user.ID,
			enums.MemberRoleOwner,
			nil,
			enums.MembershipStatusActive,
		); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create membership")
		}

		if err := userRepo.UpdateSalonIDs(ctx, user.ID, []uuid.UUID{salon.ID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "associate salon with user")
		}

		return nil
	})
}
