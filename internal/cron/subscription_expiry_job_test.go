package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/salonora/salonora-backend/pkg/logger"
)

func TestSubscriptionExpiryJobRunsSweep(t *testing.T) {
	svc := &fakeSubscriptionExpirer{expired: 2}
	job := newSubscriptionExpiryJob(t, svc)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if svc.called != 1 {
		t.Fatalf("expected service called once, got %d", svc.called)
	}
}

func TestSubscriptionExpiryJobPropagatesErrors(t *testing.T) {
	svc := &fakeSubscriptionExpirer{err: errors.New("boom")}
	job := newSubscriptionExpiryJob(t, svc)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newSubscriptionExpiryJob(t *testing.T, svc *fakeSubscriptionExpirer) Job {
	t.Helper()
	job, err := NewSubscriptionExpiryJob(SubscriptionExpiryJobParams{
		Logger:        logger.New(logger.Options{ServiceName: "test"}),
		Subscriptions: svc,
	})
	if err != nil {
		t.Fatalf("NewSubscriptionExpiryJob: %v", err)
	}
	return job
}

type fakeSubscriptionExpirer struct {
	expired int64
	err     error
	called  int
}

func (f *fakeSubscriptionExpirer) ExpireElapsed(ctx context.Context) (int64, error) {
	f.called++
	if f.err != nil {
		return 0, f.err
	}
	return f.expired, nil
}
