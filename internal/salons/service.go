package salons

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/internal/memberships"
	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/pagination"
	"github.com/salonora/salonora-backend/pkg/types"
)

type salonRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Salon, error)
	FindBySlug(ctx context.Context, slug string) (*models.Salon, error)
	Search(ctx context.Context, params SearchParams) ([]models.Salon, *pagination.Cursor, error)
	Update(ctx context.Context, salon *models.Salon) error
}

type membershipsRepository interface {
	UserHasRole(ctx context.Context, userID, salonID uuid.UUID, roles ...enums.MemberRole) (bool, error)
	ListSalonStaff(ctx context.Context, salonID uuid.UUID) ([]memberships.SalonStaffDTO, error)
	GetMembership(ctx context.Context, userID, salonID uuid.UUID) (*models.SalonMembership, error)
	UpdateRole(ctx context.Context, membershipID uuid.UUID, role enums.MemberRole) error
	MarkRemoved(ctx context.Context, membershipID uuid.UUID) error
	CountActiveOwners(ctx context.Context, salonID uuid.UUID) (int64, error)
}

// Service exposes salon operations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SalonDTO, error)
	GetBySlug(ctx context.Context, slug string) (*SalonDTO, error)
	Search(ctx context.Context, input SearchInput) (*SearchResult, error)
	Update(ctx context.Context, userID, salonID uuid.UUID, input UpdateSalonInput) (*SalonDTO, error)
	ListStaff(ctx context.Context, userID, salonID uuid.UUID) ([]memberships.SalonStaffDTO, error)
	UpdateStaffRole(ctx context.Context, actorID, salonID, targetUserID uuid.UUID, role enums.MemberRole) error
	RemoveStaff(ctx context.Context, actorID, salonID, targetUserID uuid.UUID) error
}

type service struct {
	repo        salonRepository
	memberships membershipsRepository
}

// NewService builds a salon service with the provided repositories.
func NewService(repo salonRepository, membershipsRepo membershipsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("salon repository required")
	}
	if membershipsRepo == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	return &service{
		repo:        repo,
		memberships: membershipsRepo,
	}, nil
}

// UpdateSalonInput captures the allowed salon fields for mutation.
type UpdateSalonInput struct {
	Name        *string
	Description *string
	Phone       *string
	Email       *string
	AddressLine *string
	City        *string
	PostalCode  *string
	Schedule    *types.WeeklySchedule
	LogoURL     *string
}

// SearchInput configures the public salon listing.
type SearchInput struct {
	Query  string
	City   string
	Limit  int
	Cursor string
}

// SearchResult wraps the returned salons and the cursor for the next page.
type SearchResult struct {
	Items  []SalonDTO `json:"items"`
	Cursor string     `json:"cursor"`
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*SalonDTO, error) {
	salon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "salon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load salon")
	}
	return FromModel(salon), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*SalonDTO, error) {
	salon, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "salon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load salon")
	}
	return FromModel(salon), nil
}

func (s *service) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	params := SearchParams{
		Query: input.Query,
		City:  input.City,
		Limit: input.Limit,
	}
	if input.Cursor != "" {
		cursor, err := pagination.ParseCursor(input.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = cursor
	}

	rows, next, err := s.repo.Search(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search salons")
	}

	items := make([]SalonDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &SearchResult{Items: items, Cursor: cursor}, nil
}

func (s *service) Update(ctx context.Context, userID, salonID uuid.UUID, input UpdateSalonInput) (*SalonDTO, error) {
	allowedRoles := []enums.MemberRole{enums.MemberRoleOwner, enums.MemberRoleManager}
	ok, err := s.memberships.UserHasRole(ctx, userID, salonID, allowedRoles...)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient salon role")
	}

	salon, err := s.repo.FindByID(ctx, salonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "salon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load salon")
	}

	if input.Name != nil {
		salon.Name = *input.Name
	}
	if input.Description != nil {
		salon.Description = cloneStringPtr(input.Description)
	}
	if input.Phone != nil {
		salon.Phone = cloneStringPtr(input.Phone)
	}
	if input.Email != nil {
		salon.Email = cloneStringPtr(input.Email)
	}
	if input.AddressLine != nil {
		salon.AddressLine = *input.AddressLine
	}
	if input.City != nil {
		salon.City = *input.City
	}
	if input.PostalCode != nil {
		salon.PostalCode = cloneStringPtr(input.PostalCode)
	}
	if input.Schedule != nil {
		salon.Schedule = *input.Schedule
	}
	if input.LogoURL != nil {
		salon.LogoURL = cloneStringPtr(input.LogoURL)
	}

	if err := s.repo.Update(ctx, salon); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update salon")
	}
	return FromModel(salon), nil
}

func (s *service) ListStaff(ctx context.Context, userID, salonID uuid.UUID) ([]memberships.SalonStaffDTO, error) {
	ok, err := s.memberships.UserHasRole(ctx, userID, salonID, enums.StaffRoles()...)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient salon role")
	}

	staff, err := s.memberships.ListSalonStaff(ctx, salonID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list salon staff")
	}
	return staff, nil
}

func (s *service) UpdateStaffRole(ctx context.Context, actorID, salonID, targetUserID uuid.UUID, role enums.MemberRole) error {
	if role == enums.MemberRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot assign admin role")
	}
	if err := s.requireOwnerOrManager(ctx, actorID, salonID); err != nil {
		return err
	}

	membership, err := s.memberships.GetMembership(ctx, targetUserID, salonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}

	if membership.Role == enums.MemberRoleOwner && role != enums.MemberRoleOwner {
		count, err := s.memberships.CountActiveOwners(ctx, salonID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count owners")
		}
		if count <= 1 {
			return pkgerrors.New(pkgerrors.CodeConflict, "salon requires at least one owner")
		}
	}

	if err := s.memberships.UpdateRole(ctx, membership.ID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update role")
	}
	return nil
}

func (s *service) RemoveStaff(ctx context.Context, actorID, salonID, targetUserID uuid.UUID) error {
	if err := s.requireOwnerOrManager(ctx, actorID, salonID); err != nil {
		return err
	}

	membership, err := s.memberships.GetMembership(ctx, targetUserID, salonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}

	if membership.Role == enums.MemberRoleOwner {
		count, err := s.memberships.CountActiveOwners(ctx, salonID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count owners")
		}
		if count <= 1 {
			return pkgerrors.New(pkgerrors.CodeConflict, "salon requires at least one owner")
		}
	}

	if err := s.memberships.MarkRemoved(ctx, membership.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove membership")
	}
	return nil
}

func (s *service) requireOwnerOrManager(ctx context.Context, actorID, salonID uuid.UUID) error {
	ok, err := s.memberships.UserHasRole(ctx, actorID, salonID, enums.MemberRoleOwner, enums.MemberRoleManager)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient salon role")
	}
	return nil
}

func cloneStringPtr(src *string) *string {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
