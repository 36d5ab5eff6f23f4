package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/salonora/salonora-backend/pkg/logger"
)

func TestPromotionExpiryJobRunsSweep(t *testing.T) {
	svc := &fakePromotionExpirer{expired: 3}
	job := newPromotionExpiryJob(t, svc)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if svc.called != 1 {
		t.Fatalf("expected service called once, got %d", svc.called)
	}
}

func TestPromotionExpiryJobPropagatesErrors(t *testing.T) {
	svc := &fakePromotionExpirer{err: errors.New("boom")}
	job := newPromotionExpiryJob(t, svc)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewPromotionExpiryJobRequiresService(t *testing.T) {
	_, err := NewPromotionExpiryJob(PromotionExpiryJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func newPromotionExpiryJob(t *testing.T, svc *fakePromotionExpirer) Job {
	t.Helper()
	job, err := NewPromotionExpiryJob(PromotionExpiryJobParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Promoter: svc,
	})
	if err != nil {
		t.Fatalf("NewPromotionExpiryJob: %v", err)
	}
	return job
}

type fakePromotionExpirer struct {
	expired int
	err     error
	called  int
}

func (f *fakePromotionExpirer) ExpireElapsed(ctx context.Context) (int, error) {
	f.called++
	if f.err != nil {
		return 0, f.err
	}
	return f.expired, nil
}
