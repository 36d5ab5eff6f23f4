package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/internal/memberships"
	"github.com/salonora/salonora-backend/internal/users"
	pkgAuth "github.com/salonora/salonora-backend/pkg/auth"
	"github.com/salonora/salonora-backend/pkg/auth/session"
	"github.com/salonora/salonora-backend/pkg/config"
	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	AdminLogin(ctx context.Context, req LoginRequest) (*AdminLoginResponse, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*LoginResponse, error)
	Logout(ctx context.Context, accessID string) error
	SwitchSalon(ctx context.Context, userID, salonID uuid.UUID) (*LoginResponse, error)
}

type service struct {
	users       userRepository
	memberships membershipsRepository
	session     sessionManager
	jwtCfg      config.JWTConfig
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type membershipsRepository interface {
	ListUserSalons(ctx context.Context, userID uuid.UUID) ([]memberships.MembershipWithSalon, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo        userRepository
	MembershipsRepo membershipsRepository
	SessionManager  sessionManager
	JWTConfig       config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.MembershipsRepo == nil {
		return nil, fmt.Errorf("memberships repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:       params.UserRepo,
		memberships: params.MembershipsRepo,
		session:     params.SessionManager,
		jwtCfg:      params.JWTConfig,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	userSalons, err := s.memberships.ListUserSalons(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list salons")
	}
	systemRole := normalizedSystemRole(user.SystemRole)

	now, err := s.recordLogin(ctx, user)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, userSalons, systemRole, nil, now)
}

func (s *service) AdminLogin(ctx context.Context, req LoginRequest) (*AdminLoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if normalizedSystemRole(user.SystemRole) != string(enums.MemberRoleAdmin) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now, err := s.recordLogin(ctx, user)
	if err != nil {
		return nil, err
	}

	accessID := session.NewAccessID()
	tokenPayload := pkgAuth.AccessTokenPayload{
		UserID:     user.ID,
		Role:       enums.MemberRoleAdmin,
		SystemRole: user.SystemRole,
		JTI:        accessID,
	}
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, tokenPayload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &AdminLoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

// Refresh rotates the session tied to the presented token pair and reissues claims.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*LoginResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "lookup user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	tokenPayload := pkgAuth.AccessTokenPayload{
		UserID:        user.ID,
		ActiveSalonID: claims.ActiveSalonID,
		Role:          claims.Role,
		SystemRole:    user.SystemRole,
		JTI:           newAccessID,
	}
	newAccessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), tokenPayload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
		User:         users.FromModel(user),
	}, nil
}

// Logout revokes the refresh session for the provided access identifier.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// SwitchSalon reissues tokens with the requested salon as the active tenant.
func (s *service) SwitchSalon(ctx context.Context, userID, salonID uuid.UUID) (*LoginResponse, error) {
	if salonID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salon id required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	userSalons, err := s.memberships.ListUserSalons(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list salons")
	}

	return s.issueTokens(ctx, user, userSalons, normalizedSystemRole(user.SystemRole), &salonID, time.Now().UTC())
}

func (s *service) issueTokens(ctx context.Context, user *models.User, userSalons []memberships.MembershipWithSalon, systemRole string, requestedSalonID *uuid.UUID, now time.Time) (*LoginResponse, error) {
	if len(userSalons) == 0 && systemRole == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	salonList := make([]SalonSummary, 0, len(userSalons))
	for _, m := range userSalons {
		salonList = append(salonList, SalonSummary{
			ID:   m.SalonID,
			Name: m.SalonName,
			Slug: m.SalonSlug,
		})
	}

	var activeSalonID *uuid.UUID
	var role enums.MemberRole
	if requestedSalonID != nil {
		found := false
		for _, m := range userSalons {
			if m.SalonID == *requestedSalonID {
				id := m.SalonID
				activeSalonID = &id
				role = m.Role
				found = true
				break
			}
		}
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a member of salon")
		}
	} else if len(userSalons) > 0 {
		id := userSalons[0].SalonID
		activeSalonID = &id
		role = userSalons[0].Role
	}

	if systemRole != "" && role == "" {
		parsedRole, err := enums.ParseMemberRole(systemRole)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid system role")
		}
		role = parsedRole
	}

	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	accessID := session.NewAccessID()
	tokenPayload := pkgAuth.AccessTokenPayload{
		UserID:        user.ID,
		ActiveSalonID: activeSalonID,
		Role:          role,
		SystemRole:    user.SystemRole,
		JTI:           accessID,
	}
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, tokenPayload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Salons:       salonList,
		User:         users.FromModel(user),
	}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) recordLogin(ctx context.Context, user *models.User) (time.Time, error) {
	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now
	return now, nil
}

func normalizedSystemRole(role *string) string {
	if role == nil {
		return ""
	}
	value := strings.TrimSpace(*role)
	if value == "" {
		return ""
	}
	return strings.ToLower(value)
}
