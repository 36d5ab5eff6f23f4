// Package admin backs the platform back office with paginated listings and
// account toggles that regular tenant-scoped services never expose.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/internal/salons"
	"github.com/salonora/salonora-backend/internal/users"
	"github.com/salonora/salonora-backend/pkg/db/models"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/pagination"
)

// Service exposes the back-office operations.
type Service interface {
	ListUsers(ctx context.Context, input ListUsersInput) (*UserListResult, error)
	SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (*users.UserDTO, error)
	ListSalons(ctx context.Context, input ListSalonsInput) (*SalonListResult, error)
	SetSalonActive(ctx context.Context, salonID uuid.UUID, active bool) (*salons.SalonDTO, error)
}

// ListUsersInput filters the platform user roster.
type ListUsersInput struct {
	Query      string
	ActiveOnly bool
	Limit      int
	Cursor     string
}

// UserListResult wraps returned users and the cursor for the next page.
type UserListResult struct {
	Items  []users.UserDTO `json:"items"`
	Cursor string          `json:"cursor"`
}

// ListSalonsInput filters the platform salon roster.
type ListSalonsInput struct {
	Query      string
	City       string
	ActiveOnly bool
	Limit      int
	Cursor     string
}

// SalonListResult wraps returned salons and the cursor for the next page.
type SalonListResult struct {
	Items  []salons.SalonDTO `json:"items"`
	Cursor string            `json:"cursor"`
}

type service struct {
	db *gorm.DB
}

// NewService wires the back-office service to the database handle.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle required")
	}
	return &service{db: db}, nil
}

func (s *service) ListUsers(ctx context.Context, input ListUsersInput) (*UserListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.LimitWithBuffer(input.Limit)
	normalized := pagination.NormalizeLimit(input.Limit)

	query := s.db.WithContext(ctx).Model(&models.User{})
	if trimmed := strings.TrimSpace(input.Query); trimmed != "" {
		pattern := "%" + trimmed + "%"
		query = query.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern, pattern)
	}
	if input.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.User
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	result := &UserListResult{Items: make([]users.UserDTO, 0, len(rows))}
	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		result.Cursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range rows {
		result.Items = append(result.Items, *users.FromModel(&rows[i]))
	}
	return result, nil
}

func (s *service) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (*users.UserDTO, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if user.IsActive != active {
		if err := s.db.WithContext(ctx).Model(&user).Update("is_active", active).Error; err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
		}
		user.IsActive = active
	}
	return users.FromModel(&user), nil
}

func (s *service) ListSalons(ctx context.Context, input ListSalonsInput) (*SalonListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.LimitWithBuffer(input.Limit)
	normalized := pagination.NormalizeLimit(input.Limit)

	query := s.db.WithContext(ctx).Model(&models.Salon{})
	if trimmed := strings.TrimSpace(input.Query); trimmed != "" {
		query = query.Where("name ILIKE ?", "%"+trimmed+"%")
	}
	if city := strings.TrimSpace(input.City); city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}
	if input.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Salon
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list salons")
	}

	result := &SalonListResult{Items: make([]salons.SalonDTO, 0, len(rows))}
	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		result.Cursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range rows {
		result.Items = append(result.Items, *salons.FromModel(&rows[i]))
	}
	return result, nil
}

func (s *service) SetSalonActive(ctx context.Context, salonID uuid.UUID, active bool) (*salons.SalonDTO, error) {
	var salon models.Salon
	if err := s.db.WithContext(ctx).First(&salon, "id = ?", salonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "salon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load salon")
	}

	if salon.IsActive != active {
		if err := s.db.WithContext(ctx).Model(&salon).Update("is_active", active).Error; err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update salon")
		}
		salon.IsActive = active
	}
	return salons.FromModel(&salon), nil
}
