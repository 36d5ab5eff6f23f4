package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/outbox"
)

func newSubscriptionsValidationService(t *testing.T) Service {
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

func TestCreatePlanRejectsBadBillingPeriod(t *testing.T) {
	svc := newSubscriptionsValidationService(t)

	_, err := svc.CreatePlan(context.Background(), CreatePlanInput{
		Name:          "Pro",
		Price:         decimal.NewFromInt(29),
		BillingPeriod: enums.BillingPeriod("weekly"),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestSubscribeRequiresPlan(t *testing.T) {
	svc := newSubscriptionsValidationService(t)

	_, err := svc.Subscribe(context.Background(), uuid.New(), uuid.New(), uuid.Nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}
