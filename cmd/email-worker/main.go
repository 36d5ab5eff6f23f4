package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/salonora/salonora-backend/internal/emailer"
	"github.com/salonora/salonora-backend/internal/notifications"
	"github.com/salonora/salonora-backend/internal/salons"
	"github.com/salonora/salonora-backend/internal/users"
	"github.com/salonora/salonora-backend/pkg/config"
	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/logger"
	"github.com/salonora/salonora-backend/pkg/outbox/idempotency"
	"github.com/salonora/salonora-backend/pkg/pubsub"
	"github.com/salonora/salonora-backend/pkg/redis"
	"github.com/salonora/salonora-backend/pkg/sendgrid"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "email-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "email-worker"

	logg = logger.New(logger.Options{
		ServiceName: "email-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "failed to close database client", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "failed to close redis client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "failed to close pubsub client", err)
		}
	}()

	subscription := pubsubClient.EmailSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "email subscription", errors.New("subscription not configured"))
	}

	manager, err := idempotency.NewManager(redisClient, cfg.Eventing.OutboxIdempotencyTTL)
	requireResource(ctx, logg, "idempotency manager", err)

	mailClient, err := sendgrid.NewClient(cfg.Sendgrid, logg)
	requireResource(ctx, logg, "sendgrid client", err)

	notificationService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "notification service", err)

	consumer, err := emailer.NewConsumer(emailer.ConsumerParams{
		Sender:        mailClient,
		Users:         users.NewRepository(dbClient.DB()),
		Salons:        salons.NewRepository(dbClient.DB()),
		Idempotency:   manager,
		Notifier:      notificationService,
		Logger:        logg,
		InviteBaseURL: cfg.Invitations.BaseURL,
	})
	requireResource(ctx, logg, "email consumer", err)

	worker, err := emailer.NewWorker(subscription, consumer, logg)
	requireResource(ctx, logg, "email worker", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(runCtx, "email worker ready")

	if err := worker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "email worker failed", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
