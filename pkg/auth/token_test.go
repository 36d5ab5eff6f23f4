package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/config"
	"github.com/salonora/salonora-backend/pkg/enums"
)

func testTokenConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "token-test-secret",
		Issuer:            "salonora-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testTokenConfig()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	userID := uuid.New()
	salonID := uuid.New()

	signed, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID:        userID,
		ActiveSalonID: &salonID,
		Role:          enums.MemberRoleManager,
		JTI:           "session-1",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, claims.UserID)
	}
	if claims.ActiveSalonID == nil || *claims.ActiveSalonID != salonID {
		t.Fatalf("expected active salon %s, got %v", salonID, claims.ActiveSalonID)
	}
	if claims.Role != enums.MemberRoleManager {
		t.Fatalf("expected manager role, got %s", claims.Role)
	}
	if claims.ID != "session-1" {
		t.Fatalf("expected jti session-1, got %s", claims.ID)
	}
}

func TestMintAccessTokenRejectsUnknownRole(t *testing.T) {
	_, err := MintAccessToken(testTokenConfig(), time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   "janitor",
	})
	if err == nil || !strings.Contains(err.Error(), "invalid member role") {
		t.Fatalf("expected role rejection, got %v", err)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testTokenConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.MemberRoleViewer,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	forged := cfg
	forged.Secret = "another-secret"
	if _, err := ParseAccessToken(forged, signed); err == nil {
		t.Fatal("expected signature rejection")
	}
}

func TestParseAccessTokenAllowExpiredKeepsJTI(t *testing.T) {
	cfg := testTokenConfig()
	staleIssue := time.Now().Add(-2 * time.Hour)
	signed, err := MintAccessToken(cfg, staleIssue, AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.MemberRoleViewer,
		JTI:    "stale-session",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expiry rejection")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, signed)
	if err != nil {
		t.Fatalf("parse expired token: %v", err)
	}
	if claims.ID != "stale-session" {
		t.Fatalf("expected jti stale-session, got %s", claims.ID)
	}
}
