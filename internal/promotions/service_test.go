package promotions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/outbox"
)

func newPromotionsValidationService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:     &db.Client{},
		Outbox: &outbox.Service{},
		Now:    func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreatePlanValidation(t *testing.T) {
	svc := newPromotionsValidationService(t)

	cases := []CreatePlanInput{
		{Name: "", Price: decimal.NewFromInt(10), DurationDays: 7},
		{Name: "Boost", Price: decimal.NewFromInt(10), DurationDays: 0},
		{Name: "Boost", Price: decimal.NewFromInt(-1), DurationDays: 7},
	}
	for _, input := range cases {
		_, err := svc.CreatePlan(context.Background(), input)
		if err == nil {
			t.Fatalf("expected error for %+v", input)
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation code, got %v", err)
		}
	}
}

func TestPurchaseRejectsPastStart(t *testing.T) {
	svc := newPromotionsValidationService(t)

	past := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	_, err := svc.Purchase(context.Background(), uuid.New(), uuid.New(), PurchaseInput{
		ServiceID: uuid.New(),
		PlanID:    uuid.New(),
		StartsAt:  &past,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	running := &models.ServicePromotion{Status: enums.PromotionStatusActive, EndsAt: now.Add(time.Hour)}
	if got := EffectiveStatus(running, now); got != enums.PromotionStatusActive {
		t.Fatalf("expected active, got %s", got)
	}

	elapsed := &models.ServicePromotion{Status: enums.PromotionStatusActive, EndsAt: now.Add(-time.Hour)}
	if got := EffectiveStatus(elapsed, now); got != enums.PromotionStatusExpired {
		t.Fatalf("expected expired, got %s", got)
	}

	canceled := &models.ServicePromotion{Status: enums.PromotionStatusCanceled, EndsAt: now.Add(-time.Hour)}
	if got := EffectiveStatus(canceled, now); got != enums.PromotionStatusCanceled {
		t.Fatalf("expected canceled, got %s", got)
	}
}

func TestPromotionEndsAt(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	end := promotionEndsAt(start, 30)
	if want := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Fatalf("expected %s, got %s", want, end)
	}

	for _, days := range []int{1, 7, 90} {
		if got := promotionEndsAt(start, days).Sub(start); got != time.Duration(days)*24*time.Hour {
			t.Fatalf("expected %d day window, got %s", days, got)
		}
	}
}

func TestAnalyticsWindowValidation(t *testing.T) {
	svc := newPromotionsValidationService(t)

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(-24 * time.Hour)
	_, err := svc.Analytics(context.Background(), uuid.New(), uuid.New(), uuid.New(), from, to)
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}
