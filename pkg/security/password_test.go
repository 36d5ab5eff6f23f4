package security

import (
	"errors"
	"strings"
	"testing"

	"github.com/salonora/salonora-backend/pkg/config"
)

func testPasswordConfig() config.PasswordConfig {
	// Low-cost parameters to keep the suite fast.
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := testPasswordConfig()

	encoded, err := HashPassword("s3cret-passw0rd", cfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", encoded)
	}

	ok, err := VerifyPassword("s3cret-passw0rd", encoded)
	if err != nil {
		t.Fatalf("verify password: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}

	ok, err = VerifyPassword("wrong-password", encoded)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch to fail verification")
	}
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	cfg := testPasswordConfig()

	first, err := HashPassword("same-password", cfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	second, err := HashPassword("same-password", cfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("whatever", "$bcrypt$not-argon"); !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

func TestGenerateTempPasswordLength(t *testing.T) {
	pw, err := GenerateTempPassword(12)
	if err != nil {
		t.Fatalf("generate temp password: %v", err)
	}
	if len(pw) != 12 {
		t.Fatalf("expected 12 characters, got %d", len(pw))
	}

	if _, err := GenerateTempPassword(0); err == nil {
		t.Fatal("expected rejection of non-positive length")
	}
}
