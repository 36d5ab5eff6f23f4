package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/salonora/salonora-backend/api/routes"
	"github.com/salonora/salonora-backend/internal/admin"
	"github.com/salonora/salonora-backend/internal/appointments"
	"github.com/salonora/salonora-backend/internal/auth"
	"github.com/salonora/salonora-backend/internal/blog"
	"github.com/salonora/salonora-backend/internal/catalog"
	"github.com/salonora/salonora-backend/internal/chat"
	"github.com/salonora/salonora-backend/internal/invitations"
	"github.com/salonora/salonora-backend/internal/memberships"
	"github.com/salonora/salonora-backend/internal/notifications"
	"github.com/salonora/salonora-backend/internal/promotions"
	"github.com/salonora/salonora-backend/internal/ratings"
	"github.com/salonora/salonora-backend/internal/salons"
	"github.com/salonora/salonora-backend/internal/subscriptions"
	"github.com/salonora/salonora-backend/internal/users"
	"github.com/salonora/salonora-backend/pkg/auth/session"
	"github.com/salonora/salonora-backend/pkg/config"
	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/logger"
	"github.com/salonora/salonora-backend/pkg/migrate"
	"github.com/salonora/salonora-backend/pkg/outbox"
	"github.com/salonora/salonora-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	membershipsRepo := memberships.NewRepository(gormDB)
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:        usersRepo,
		MembershipsRepo: membershipsRepo,
		SessionManager:  sessionManager,
		JWTConfig:       cfg.JWT,
	})
	requireService(logg, "auth service", err)

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	requireService(logg, "register service", err)

	adminRegisterService, err := auth.NewAdminRegisterService(auth.AdminRegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	requireService(logg, "admin register service", err)

	salonService, err := salons.NewService(salons.NewRepository(gormDB), membershipsRepo)
	requireService(logg, "salon service", err)

	invitationService, err := invitations.NewService(invitations.ServiceParams{
		DB:     dbClient,
		Outbox: outboxService,
		Config: cfg.Invitations,
	})
	requireService(logg, "invitation service", err)

	catalogService, err := catalog.NewService(catalog.NewRepository(gormDB), membershipsRepo)
	requireService(logg, "catalog service", err)

	appointmentService, err := appointments.NewService(appointments.ServiceParams{
		DB:     dbClient,
		Outbox: outboxService,
	})
	requireService(logg, "appointment service", err)

	chatService, err := chat.NewService(chat.ServiceParams{
		DB:     dbClient,
		Outbox: outboxService,
	})
	requireService(logg, "chat service", err)

	ratingService, err := ratings.NewService(ratings.ServiceParams{
		DB:     dbClient,
		Outbox: outboxService,
	})
	requireService(logg, "rating service", err)

	promotionService, err := promotions.NewService(promotions.ServiceParams{
		DB:     dbClient,
		Outbox: outboxService,
	})
	requireService(logg, "promotion service", err)

	subscriptionService, err := subscriptions.NewService(subscriptions.ServiceParams{
		DB:     dbClient,
		Outbox: outboxService,
	})
	requireService(logg, "subscription service", err)

	blogService, err := blog.NewService(blog.ServiceParams{DB: dbClient})
	requireService(logg, "blog service", err)

	notificationService, err := notifications.NewService(notifications.NewRepository(gormDB))
	requireService(logg, "notification service", err)

	adminService, err := admin.NewService(gormDB)
	requireService(logg, "admin service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:               cfg,
			Logger:               logg,
			DB:                   dbClient,
			Redis:                redisClient,
			SessionManager:       sessionManager,
			Memberships:          membershipsRepo,
			AuthService:          authService,
			RegisterService:      registerService,
			AdminRegisterService: adminRegisterService,
			SalonService:         salonService,
			InvitationService:    invitationService,
			CatalogService:       catalogService,
			AppointmentService:   appointmentService,
			ChatService:          chatService,
			RatingService:        ratingService,
			PromotionService:     promotionService,
			SubscriptionService:  subscriptionService,
			BlogService:          blogService,
			NotificationService:  notificationService,
			AdminService:         adminService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+name, err)
		os.Exit(1)
	}
}
