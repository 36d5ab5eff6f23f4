package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/internal/auth"
	pkgAuth "github.com/salonora/salonora-backend/pkg/auth"
	"github.com/salonora/salonora-backend/pkg/config"
	"github.com/salonora/salonora-backend/pkg/enums"
)

type testAuthService struct {
	loginFn       func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	adminLoginFn  func(ctx context.Context, req auth.LoginRequest) (*auth.AdminLoginResponse, error)
	refreshFn     func(ctx context.Context, accessToken, refreshToken string) (*auth.LoginResponse, error)
	logoutFn      func(ctx context.Context, accessID string) error
	switchSalonFn func(ctx context.Context, userID, salonID uuid.UUID) (*auth.LoginResponse, error)
}

func (s *testAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, req)
	}
	return &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (s *testAuthService) AdminLogin(ctx context.Context, req auth.LoginRequest) (*auth.AdminLoginResponse, error) {
	if s.adminLoginFn != nil {
		return s.adminLoginFn(ctx, req)
	}
	return &auth.AdminLoginResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (s *testAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*auth.LoginResponse, error) {
	if s.refreshFn != nil {
		return s.refreshFn(ctx, accessToken, refreshToken)
	}
	return &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (s *testAuthService) Logout(ctx context.Context, accessID string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, accessID)
	}
	return nil
}

func (s *testAuthService) SwitchSalon(ctx context.Context, userID, salonID uuid.UUID) (*auth.LoginResponse, error) {
	if s.switchSalonFn != nil {
		return s.switchSalonFn(ctx, userID, salonID)
	}
	return &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "salonora-test",
		ExpirationMinutes: 15,
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, jti string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.MemberRoleViewer,
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthLoginSetsTokenHeader(t *testing.T) {
	var captured auth.LoginRequest
	svc := &testAuthService{
		loginFn: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			captured = req
			return &auth.LoginResponse{AccessToken: "minted-access", RefreshToken: "minted-refresh"}, nil
		},
	}

	body := strings.NewReader(`{"email":"owner@example.com","password":"hunter22"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	resp := httptest.NewRecorder()
	AuthLogin(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Email != "owner@example.com" {
		t.Fatalf("unexpected email %q", captured.Email)
	}
	if got := resp.Header().Get("X-Salonora-Token"); got != "minted-access" {
		t.Fatalf("unexpected token header %q", got)
	}
}

func TestAuthLoginRejectsMissingPassword(t *testing.T) {
	body := strings.NewReader(`{"email":"owner@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	resp := httptest.NewRecorder()
	AuthLogin(&testAuthService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	cfg := testJWTConfig()
	jti := uuid.NewString()
	token := mintTestToken(t, cfg, uuid.New(), jti)

	var revoked string
	svc := &testAuthService{
		logoutFn: func(ctx context.Context, accessID string) error {
			revoked = accessID
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	AuthLogout(svc, cfg, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if revoked != jti {
		t.Fatalf("expected session %q revoked, got %q", jti, revoked)
	}
}

func TestAuthLogoutMissingCredentials(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	AuthLogout(&testAuthService{}, testJWTConfig(), testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshForwardsTokens(t *testing.T) {
	var gotAccess, gotRefresh string
	svc := &testAuthService{
		refreshFn: func(ctx context.Context, accessToken, refreshToken string) (*auth.LoginResponse, error) {
			gotAccess = accessToken
			gotRefresh = refreshToken
			return &auth.LoginResponse{AccessToken: "rotated", RefreshToken: "next"}, nil
		},
	}

	body := strings.NewReader(`{"refresh_token":"current-refresh"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", body)
	req.Header.Set("Authorization", "Bearer stale-access")
	resp := httptest.NewRecorder()
	AuthRefresh(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotAccess != "stale-access" || gotRefresh != "current-refresh" {
		t.Fatalf("tokens not forwarded: access=%q refresh=%q", gotAccess, gotRefresh)
	}
	if got := resp.Header().Get("X-Salonora-Token"); got != "rotated" {
		t.Fatalf("unexpected token header %q", got)
	}
}

func TestAuthSwitchSalonUsesClaims(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	salonID := uuid.New()
	token := mintTestToken(t, cfg, userID, uuid.NewString())

	var gotUser, gotSalon uuid.UUID
	svc := &testAuthService{
		switchSalonFn: func(ctx context.Context, uid, sid uuid.UUID) (*auth.LoginResponse, error) {
			gotUser = uid
			gotSalon = sid
			return &auth.LoginResponse{AccessToken: "scoped", RefreshToken: "refresh"}, nil
		},
	}

	body := strings.NewReader(`{"salon_id":"` + salonID.String() + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/switch-salon", body)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	AuthSwitchSalon(svc, cfg, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotUser != userID || gotSalon != salonID {
		t.Fatalf("unexpected args user=%s salon=%s", gotUser, gotSalon)
	}
}

func TestAuthSwitchSalonRejectsBadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/switch-salon", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp := httptest.NewRecorder()
	AuthSwitchSalon(&testAuthService{}, testJWTConfig(), testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
