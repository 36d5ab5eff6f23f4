package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/pagination"
)

type catalogRepository interface {
	Create(ctx context.Context, svc *models.SalonService) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SalonService, error)
	List(ctx context.Context, params ListParams) ([]models.SalonService, *pagination.Cursor, error)
	Update(ctx context.Context, svc *models.SalonService) error
	Deactivate(ctx context.Context, salonID, serviceID uuid.UUID) error
}

type membershipChecker interface {
	UserHasRole(ctx context.Context, userID, salonID uuid.UUID, roles ...enums.MemberRole) (bool, error)
}

// Service exposes catalog operations for salon staff and public browsing.
type Service interface {
	Create(ctx context.Context, actorID, salonID uuid.UUID, input CreateServiceInput) (*ServiceDTO, error)
	Get(ctx context.Context, serviceID uuid.UUID) (*ServiceDTO, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Update(ctx context.Context, actorID, salonID, serviceID uuid.UUID, input UpdateServiceInput) (*ServiceDTO, error)
	Deactivate(ctx context.Context, actorID, salonID, serviceID uuid.UUID) error
}

type service struct {
	repo        catalogRepository
	memberships membershipChecker
}

// NewService builds a catalog service with the provided repositories.
func NewService(repo catalogRepository, membershipsRepo membershipChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if membershipsRepo == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	return &service{repo: repo, memberships: membershipsRepo}, nil
}

// ListInput configures a catalog listing request.
type ListInput struct {
	SalonID    uuid.UUID
	Category   string
	Query      string
	ActiveOnly bool
	// BoostPromoted orders services under a running promotion first.
	BoostPromoted bool
	Limit         int
	Cursor        string
}

// ListResult wraps returned services and the cursor for the next page.
type ListResult struct {
	Items  []ServiceDTO `json:"items"`
	Cursor string       `json:"cursor"`
}

func (s *service) Create(ctx context.Context, actorID, salonID uuid.UUID, input CreateServiceInput) (*ServiceDTO, error) {
	if err := s.requireStaff(ctx, actorID, salonID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service name is required")
	}
	if input.DurationMinutes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "duration must be positive")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	bookable := true
	if input.IsAppBookable != nil {
		bookable = *input.IsAppBookable
	}

	svc := &models.SalonService{
		SalonID:         salonID,
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		Category:        input.Category,
		Price:           input.Price,
		DurationMinutes: input.DurationMinutes,
		IsActive:        true,
		IsAppBookable:   bookable,
		ImageURL:        input.ImageURL,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service")
	}
	return FromModel(svc), nil
}

func (s *service) Get(ctx context.Context, serviceID uuid.UUID) (*ServiceDTO, error) {
	svc, err := s.repo.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
	}
	return FromModel(svc), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	if input.SalonID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salon id required")
	}

	params := ListParams{
		SalonID:       input.SalonID,
		Category:      input.Category,
		Query:         input.Query,
		ActiveOnly:    input.ActiveOnly,
		BoostPromoted: input.BoostPromoted,
		Limit:         input.Limit,
	}
	if input.Cursor != "" {
		cursor, err := pagination.ParseCursor(input.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list services")
	}

	items := make([]ServiceDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: items, Cursor: cursor}, nil
}

func (s *service) Update(ctx context.Context, actorID, salonID, serviceID uuid.UUID, input UpdateServiceInput) (*ServiceDTO, error) {
	if err := s.requireStaff(ctx, actorID, salonID); err != nil {
		return nil, err
	}

	svc, err := s.repo.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
	}
	if svc.SalonID != salonID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "service belongs to another salon")
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "service name is required")
		}
		svc.Name = trimmed
	}
	if input.Description != nil {
		svc.Description = input.Description
	}
	if input.Category != nil {
		svc.Category = input.Category
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		svc.Price = *input.Price
	}
	if input.DurationMinutes != nil {
		if *input.DurationMinutes <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duration must be positive")
		}
		svc.DurationMinutes = *input.DurationMinutes
	}
	if input.IsActive != nil {
		svc.IsActive = *input.IsActive
	}
	if input.IsAppBookable != nil {
		svc.IsAppBookable = *input.IsAppBookable
	}
	if input.ImageURL != nil {
		svc.ImageURL = input.ImageURL
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update service")
	}
	return FromModel(svc), nil
}

func (s *service) Deactivate(ctx context.Context, actorID, salonID, serviceID uuid.UUID) error {
	if err := s.requireStaff(ctx, actorID, salonID); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, salonID, serviceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate service")
	}
	return nil
}

func (s *service) requireStaff(ctx context.Context, actorID, salonID uuid.UUID) error {
	ok, err := s.memberships.UserHasRole(ctx, actorID, salonID, enums.MemberRoleOwner, enums.MemberRoleManager, enums.MemberRoleEmployee)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient salon role")
	}
	return nil
}
