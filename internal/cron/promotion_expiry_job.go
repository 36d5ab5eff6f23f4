package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/salonora/salonora-backend/pkg/logger"
)

// PromotionExpiryJobParams configure the promotion expiry sweep.
type PromotionExpiryJobParams struct {
	Logger   *logger.Logger
	Promoter promotionExpirer
}

type promotionExpirer interface {
	ExpireElapsed(ctx context.Context) (int, error)
}

// NewPromotionExpiryJob builds the job that flips elapsed promotions to expired.
func NewPromotionExpiryJob(params PromotionExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Promoter == nil {
		return nil, fmt.Errorf("promotions service required")
	}
	return &promotionExpiryJob{
		logg:     params.Logger,
		promoter: params.Promoter,
		now:      time.Now,
	}, nil
}

type promotionExpiryJob struct {
	logg     *logger.Logger
	promoter promotionExpirer
	now      func() time.Time
}

func (j *promotionExpiryJob) Name() string { return "promotion-expiry" }

func (j *promotionExpiryJob) Run(ctx context.Context) error {
	expired, err := j.promoter.ExpireElapsed(ctx)
	if err != nil {
		return fmt.Errorf("promotion expiry: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"expired": expired,
	})
	j.logg.Info(logCtx, "promotion expiry sweep complete")
	return nil
}
