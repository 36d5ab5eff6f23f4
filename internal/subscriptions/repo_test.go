package subscriptions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
)

func setupSubscriptionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	plans := `
CREATE TABLE IF NOT EXISTS subscription_plans (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price TEXT NOT NULL,
  billing_period TEXT NOT NULL,
  features TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	subscriptions := `
CREATE TABLE IF NOT EXISTS salon_subscriptions (
  id TEXT PRIMARY KEY,
  salon_id TEXT NOT NULL,
  plan_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  current_period_end DATETIME NOT NULL,
  canceled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, ddl := range []string{plans, subscriptions} {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func mustCreateSubscription(t *testing.T, repo *Repository, salonID uuid.UUID, status enums.SubscriptionStatus, periodEnd time.Time) *models.SalonSubscription {
	t.Helper()
	subscription := &models.SalonSubscription{
		ID:               uuid.New(),
		SalonID:          salonID,
		PlanID:           uuid.New(),
		Status:           status,
		CurrentPeriodEnd: periodEnd,
	}
	if err := repo.Create(context.Background(), subscription); err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	return subscription
}

func TestSubscriptionsRepoCancelGuard(t *testing.T) {
	repo := NewRepository(setupSubscriptionsTestDB(t))
	ctx := context.Background()

	subscription := mustCreateSubscription(t, repo, uuid.New(), enums.SubscriptionStatusActive, time.Now().Add(30*24*time.Hour))
	now := time.Now().UTC()

	if err := repo.Cancel(ctx, subscription.ID, now); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := repo.Cancel(ctx, subscription.ID, now); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected repeat cancel rejected, got %v", err)
	}
}

func TestSubscriptionsRepoExpireElapsed(t *testing.T) {
	repo := NewRepository(setupSubscriptionsTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	elapsed := mustCreateSubscription(t, repo, uuid.New(), enums.SubscriptionStatusActive, now.Add(-time.Hour))
	running := mustCreateSubscription(t, repo, uuid.New(), enums.SubscriptionStatusActive, now.Add(time.Hour))

	affected, err := repo.ExpireElapsed(ctx, now)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 expired, got %d", affected)
	}

	var stored models.SalonSubscription
	if err := repo.db.First(&stored, "id = ?", elapsed.ID).Error; err != nil {
		t.Fatalf("load elapsed: %v", err)
	}
	if stored.Status != enums.SubscriptionStatusExpired {
		t.Fatalf("expected expired, got %s", stored.Status)
	}
	var untouched models.SalonSubscription
	if err := repo.db.First(&untouched, "id = ?", running.ID).Error; err != nil {
		t.Fatalf("load running: %v", err)
	}
	if untouched.Status != enums.SubscriptionStatusActive {
		t.Fatalf("expected running subscription untouched, got %s", untouched.Status)
	}
}

func TestSubscriptionsRepoFindActiveBySalon(t *testing.T) {
	repo := NewRepository(setupSubscriptionsTestDB(t))
	ctx := context.Background()

	salonID := uuid.New()
	mustCreateSubscription(t, repo, salonID, enums.SubscriptionStatusCanceled, time.Now().Add(24*time.Hour))

	if _, err := repo.FindActiveBySalon(ctx, salonID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}

	active := mustCreateSubscription(t, repo, salonID, enums.SubscriptionStatusActive, time.Now().Add(24*time.Hour))

	found, err := repo.FindActiveBySalon(ctx, salonID)
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if found.ID != active.ID {
		t.Fatalf("expected %s, got %s", active.ID, found.ID)
	}
}
