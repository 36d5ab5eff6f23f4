package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/salonora/salonora-backend/pkg/logger"
)

// SubscriptionExpiryJobParams configure the subscription expiry sweep.
type SubscriptionExpiryJobParams struct {
	Logger        *logger.Logger
	Subscriptions subscriptionExpirer
}

type subscriptionExpirer interface {
	ExpireElapsed(ctx context.Context) (int64, error)
}

// NewSubscriptionExpiryJob builds the job that expires subscriptions whose
// billing period has ended.
func NewSubscriptionExpiryJob(params SubscriptionExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscriptions service required")
	}
	return &subscriptionExpiryJob{
		logg: params.Logger,
		subs: params.Subscriptions,
		now:  time.Now,
	}, nil
}

type subscriptionExpiryJob struct {
	logg *logger.Logger
	subs subscriptionExpirer
	now  func() time.Time
}

func (j *subscriptionExpiryJob) Name() string { return "subscription-expiry" }

func (j *subscriptionExpiryJob) Run(ctx context.Context) error {
	expired, err := j.subs.ExpireElapsed(ctx)
	if err != nil {
		return fmt.Errorf("subscription expiry: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"expired": expired,
	})
	j.logg.Info(logCtx, "subscription expiry sweep complete")
	return nil
}
