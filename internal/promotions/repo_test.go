package promotions

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

func setupPromotionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	plans := `
CREATE TABLE IF NOT EXISTS promotion_plans (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price TEXT NOT NULL,
  duration_days INTEGER NOT NULL,
  search_priority INTEGER NOT NULL DEFAULT 0,
  features TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	promotions := `
CREATE TABLE IF NOT EXISTS service_promotions (
  id TEXT PRIMARY KEY,
  salon_id TEXT NOT NULL,
  service_id TEXT NOT NULL,
  plan_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  starts_at DATETIME NOT NULL,
  ends_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	analytics := `
CREATE TABLE IF NOT EXISTS promotion_analytics (
  id TEXT PRIMARY KEY,
  promotion_id TEXT NOT NULL,
  day DATETIME NOT NULL,
  impressions INTEGER NOT NULL DEFAULT 0,
  clicks INTEGER NOT NULL DEFAULT 0,
  bookings INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (promotion_id, day)
);`
	for _, ddl := range []string{plans, promotions, analytics} {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func mustCreatePromotion(t *testing.T, repo *Repository, serviceID uuid.UUID, status enums.PromotionStatus, endsAt time.Time) *models.ServicePromotion {
	t.Helper()
	promotion := &models.ServicePromotion{
		ID:        uuid.New(),
		SalonID:   uuid.New(),
		ServiceID: serviceID,
		PlanID:    uuid.New(),
		Status:    status,
		StartsAt:  endsAt.Add(-7 * 24 * time.Hour),
		EndsAt:    endsAt,
	}
	if err := repo.Create(context.Background(), promotion); err != nil {
		t.Fatalf("create promotion: %v", err)
	}
	return promotion
}

func TestPromotionsRepoIncrementMetricUpserts(t *testing.T) {
	repo := NewRepository(setupPromotionsTestDB(t))
	ctx := context.Background()

	promotionID := uuid.New()
	day := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := repo.IncrementMetric(ctx, promotionID, day, MetricImpressions); err != nil {
			t.Fatalf("increment impressions: %v", err)
		}
	}
	if err := repo.IncrementMetric(ctx, promotionID, day, MetricClicks); err != nil {
		t.Fatalf("increment clicks: %v", err)
	}

	rows, err := repo.Analytics(ctx, promotionID, day.Add(-24*time.Hour), day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected a single day row, got %d", len(rows))
	}
	if rows[0].Impressions != 3 {
		t.Fatalf("expected 3 impressions, got %d", rows[0].Impressions)
	}
	if rows[0].Clicks != 1 {
		t.Fatalf("expected 1 click, got %d", rows[0].Clicks)
	}
	if rows[0].Bookings != 0 {
		t.Fatalf("expected 0 bookings, got %d", rows[0].Bookings)
	}
}

func TestPromotionsRepoCancelGuard(t *testing.T) {
	repo := NewRepository(setupPromotionsTestDB(t))
	ctx := context.Background()

	promotion := mustCreatePromotion(t, repo, uuid.New(), enums.PromotionStatusActive, time.Now().Add(24*time.Hour))

	if err := repo.Cancel(ctx, promotion.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := repo.Cancel(ctx, promotion.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected repeat cancel rejected, got %v", err)
	}
}

func TestPromotionsRepoListElapsed(t *testing.T) {
	repo := NewRepository(setupPromotionsTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	elapsed := mustCreatePromotion(t, repo, uuid.New(), enums.PromotionStatusActive, now.Add(-time.Hour))
	mustCreatePromotion(t, repo, uuid.New(), enums.PromotionStatusActive, now.Add(time.Hour))
	mustCreatePromotion(t, repo, uuid.New(), enums.PromotionStatusCanceled, now.Add(-time.Hour))

	rows, err := repo.ListElapsed(ctx, now, 100)
	if err != nil {
		t.Fatalf("list elapsed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 elapsed promotion, got %d", len(rows))
	}
	if rows[0].ID != elapsed.ID {
		t.Fatalf("expected %s, got %s", elapsed.ID, rows[0].ID)
	}

	if err := repo.MarkExpired(ctx, elapsed.ID); err != nil {
		t.Fatalf("mark expired: %v", err)
	}
	if err := repo.MarkExpired(ctx, elapsed.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected repeat expiry rejected, got %v", err)
	}
}

func TestPromotionsRepoHasActiveForService(t *testing.T) {
	repo := NewRepository(setupPromotionsTestDB(t))
	ctx := context.Background()

	serviceID := uuid.New()
	now := time.Now().UTC()

	active, err := repo.HasActiveForService(ctx, serviceID, now)
	if err != nil {
		t.Fatalf("has active: %v", err)
	}
	if active {
		t.Fatal("expected no active promotion")
	}

	mustCreatePromotion(t, repo, serviceID, enums.PromotionStatusActive, now.Add(24*time.Hour))

	active, err = repo.HasActiveForService(ctx, serviceID, now)
	if err != nil {
		t.Fatalf("has active: %v", err)
	}
	if !active {
		t.Fatal("expected active promotion to be found")
	}
}
