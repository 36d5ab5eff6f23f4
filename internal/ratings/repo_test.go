package ratings

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

func setupRatingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	ratings := `
CREATE TABLE IF NOT EXISTS salon_ratings (
  id TEXT PRIMARY KEY,
  salon_id TEXT NOT NULL,
  customer_user_id TEXT NOT NULL,
  appointment_id TEXT UNIQUE,
  rating INTEGER NOT NULL,
  category_scores TEXT,
  comment TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  reject_reason TEXT,
  moderated_by_user_id TEXT,
  moderated_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	responses := `
CREATE TABLE IF NOT EXISTS salon_rating_responses (
  id TEXT PRIMARY KEY,
  rating_id TEXT NOT NULL UNIQUE,
  responder_user_id TEXT NOT NULL,
  body TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, ddl := range []string{ratings, responses} {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func mustCreateRating(t *testing.T, repo *Repository, salonID uuid.UUID, status enums.RatingStatus, score int) *models.SalonRating {
	t.Helper()
	rating := &models.SalonRating{
		ID:             uuid.New(),
		SalonID:        salonID,
		CustomerUserID: uuid.New(),
		Rating:         score,
		Status:         status,
	}
	if err := repo.Create(context.Background(), rating); err != nil {
		t.Fatalf("create rating: %v", err)
	}
	return rating
}

func TestRatingsRepoModerateGuard(t *testing.T) {
	repo := NewRepository(setupRatingsTestDB(t))
	ctx := context.Background()

	rating := mustCreateRating(t, repo, uuid.New(), enums.RatingStatusPending, 4)
	moderator := uuid.New()
	now := time.Now().UTC()

	if err := repo.Moderate(ctx, rating.ID, enums.RatingStatusApproved, nil, moderator, now); err != nil {
		t.Fatalf("approve: %v", err)
	}

	reason := "spam"
	err := repo.Moderate(ctx, rating.ID, enums.RatingStatusRejected, &reason, moderator, now)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected second decision rejected, got %v", err)
	}

	loaded, err := repo.FindByID(ctx, rating.ID)
	if err != nil {
		t.Fatalf("find rating: %v", err)
	}
	if loaded.Status != enums.RatingStatusApproved {
		t.Fatalf("expected approved, got %s", loaded.Status)
	}
	if loaded.ModeratedByUserID == nil || *loaded.ModeratedByUserID != moderator {
		t.Fatalf("expected moderator recorded, got %+v", loaded.ModeratedByUserID)
	}
}

func TestRatingsRepoApprovedStatsIgnoresUnapproved(t *testing.T) {
	repo := NewRepository(setupRatingsTestDB(t))
	ctx := context.Background()

	salonID := uuid.New()
	mustCreateRating(t, repo, salonID, enums.RatingStatusApproved, 5)
	mustCreateRating(t, repo, salonID, enums.RatingStatusApproved, 3)
	mustCreateRating(t, repo, salonID, enums.RatingStatusPending, 1)
	mustCreateRating(t, repo, salonID, enums.RatingStatusRejected, 1)

	count, average, err := repo.ApprovedStats(ctx, salonID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 approved ratings, got %d", count)
	}
	if average != 4 {
		t.Fatalf("expected average 4, got %f", average)
	}
}

func TestRatingsRepoSingleResponsePerRating(t *testing.T) {
	repo := NewRepository(setupRatingsTestDB(t))
	ctx := context.Background()

	rating := mustCreateRating(t, repo, uuid.New(), enums.RatingStatusApproved, 5)

	first := &models.SalonRatingResponse{
		ID:              uuid.New(),
		RatingID:        rating.ID,
		ResponderUserID: uuid.New(),
		Body:            "thank you!",
	}
	if err := repo.CreateResponse(ctx, first); err != nil {
		t.Fatalf("create response: %v", err)
	}

	second := &models.SalonRatingResponse{
		ID:              uuid.New(),
		RatingID:        rating.ID,
		ResponderUserID: uuid.New(),
		Body:            "duplicate",
	}
	if err := repo.CreateResponse(ctx, second); err == nil {
		t.Fatal("expected unique violation for second response")
	}

	loaded, err := repo.FindResponse(ctx, rating.ID)
	if err != nil {
		t.Fatalf("find response: %v", err)
	}
	if loaded.Body != "thank you!" {
		t.Fatalf("expected first response kept, got %q", loaded.Body)
	}
}
