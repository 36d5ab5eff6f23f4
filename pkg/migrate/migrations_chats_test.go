package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestChatsMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_chats.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no chats migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS chats",
		"CREATE TABLE IF NOT EXISTS chat_messages",
		"CREATE TABLE IF NOT EXISTS chat_participants",
		"CHECK (customer_unread_count >= 0)",
		"CHECK (salon_unread_count >= 0)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_chats_scope",
		"CREATE INDEX IF NOT EXISTS idx_chat_messages_chat_keyset",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_chat_participants_member",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestEveryMigrationHasDown(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration files found")
	}

	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		content := string(data)
		if !strings.Contains(content, "-- +goose Up") {
			t.Errorf("%s missing goose Up marker", filepath.Base(path))
		}
		if !strings.Contains(content, "-- +goose Down") {
			t.Errorf("%s missing goose Down marker", filepath.Base(path))
		}
	}
}
