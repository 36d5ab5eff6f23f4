package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salonora/salonora-backend/api/controllers"
	"github.com/salonora/salonora-backend/api/middleware"
	"github.com/salonora/salonora-backend/internal/admin"
	"github.com/salonora/salonora-backend/internal/appointments"
	"github.com/salonora/salonora-backend/internal/auth"
	"github.com/salonora/salonora-backend/internal/blog"
	"github.com/salonora/salonora-backend/internal/catalog"
	"github.com/salonora/salonora-backend/internal/chat"
	"github.com/salonora/salonora-backend/internal/invitations"
	"github.com/salonora/salonora-backend/internal/notifications"
	"github.com/salonora/salonora-backend/internal/promotions"
	"github.com/salonora/salonora-backend/internal/ratings"
	"github.com/salonora/salonora-backend/internal/salons"
	"github.com/salonora/salonora-backend/internal/subscriptions"
	"github.com/salonora/salonora-backend/pkg/auth/session"
	"github.com/salonora/salonora-backend/pkg/config"
	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/enums"
	"github.com/salonora/salonora-backend/pkg/logger"
	"github.com/salonora/salonora-backend/pkg/redis"
)

// Dependencies carries everything the HTTP surface needs.
type Dependencies struct {
	Config               *config.Config
	Logger               *logger.Logger
	DB                   *db.Client
	Redis                *redis.Client
	SessionManager       session.AccessSessionChecker
	Memberships          middleware.MembershipChecker
	AuthService          auth.Service
	RegisterService      auth.RegisterService
	AdminRegisterService auth.AdminRegisterService
	SalonService         salons.Service
	InvitationService    invitations.Service
	CatalogService       catalog.Service
	AppointmentService   appointments.Service
	ChatService          chat.Service
	RatingService        ratings.Service
	PromotionService     promotions.Service
	SubscriptionService  subscriptions.Service
	BlogService          blog.Service
	NotificationService  notifications.Service
	AdminService         admin.Service
}

// NewRouter assembles the full route tree with its middleware stack.
func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	staffOnly := middleware.RequireSalonRoles(deps.Memberships, logg, enums.StaffRoles()...)
	managersOnly := middleware.RequireSalonRoles(deps.Memberships, logg, enums.MemberRoleOwner, enums.MemberRoleManager)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/salons", controllers.PublicSalonSearch(deps.SalonService, logg))
		r.Get("/salons/{slug}", controllers.PublicSalonBySlug(deps.SalonService, logg))
		r.Get("/salons/{salonId}/services", controllers.PublicSalonServices(deps.CatalogService, logg))
		r.Get("/salons/{salonId}/ratings", controllers.PublicSalonRatings(deps.RatingService, logg))
		r.Get("/salons/{salonId}/ratings/stats", controllers.PublicSalonRatingStats(deps.RatingService, logg))
		r.Get("/services/{serviceId}", controllers.PublicServiceDetail(deps.CatalogService, logg))
		r.Get("/subscription-plans", controllers.SubscriptionPlans(deps.SubscriptionService, logg))
		r.Route("/promotions/{promotionId}/track", func(r chi.Router) {
			r.Post("/impression", controllers.PromotionTrackImpression(deps.PromotionService, logg))
			r.Post("/click", controllers.PromotionTrackClick(deps.PromotionService, logg))
			r.Post("/booking", controllers.PromotionTrackBooking(deps.PromotionService, logg))
		})
		r.Route("/blog", func(r chi.Router) {
			r.Get("/posts", controllers.PublicBlogPosts(deps.BlogService, logg))
			r.Get("/posts/{slug}", controllers.PublicBlogPostBySlug(deps.BlogService, logg))
			r.Get("/categories", controllers.BlogCategories(deps.BlogService, logg))
		})
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/switch-salon", controllers.AuthSwitchSalon(deps.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AdminAuthRegister(deps.AdminRegisterService, deps.AuthService, cfg, logg))
		}
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AdminAuthLogin(deps.AuthService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/v1/appointments", func(r chi.Router) {
			r.Post("/", controllers.AppointmentBook(deps.AppointmentService, logg))
			r.Get("/", controllers.CustomerAppointments(deps.AppointmentService, logg))
			r.Get("/{appointmentId}", controllers.AppointmentDetail(deps.AppointmentService, logg))
			r.Post("/{appointmentId}/cancel", controllers.AppointmentCancel(deps.AppointmentService, logg))
			r.Get("/{appointmentId}/review-eligibility", controllers.AppointmentReviewEligibility(deps.AppointmentService, logg))
		})

		r.Route("/v1/chats", func(r chi.Router) {
			r.Post("/", controllers.ChatCreateOrGet(deps.ChatService, logg))
			r.Get("/", controllers.CustomerChats(deps.ChatService, logg))
			r.Get("/{chatId}", controllers.ChatDetail(deps.ChatService, logg))
			r.Get("/{chatId}/messages", controllers.ChatMessages(deps.ChatService, logg))
			r.Post("/{chatId}/messages", controllers.ChatSendMessage(deps.ChatService, logg))
			r.Post("/{chatId}/read", controllers.ChatMarkRead(deps.ChatService, logg))
			r.Post("/{chatId}/messages/{messageId}/delivered", controllers.ChatMarkDelivered(deps.ChatService, logg))
			r.Get("/{chatId}/participants", controllers.ChatParticipants(deps.ChatService, logg))
		})

		r.Post("/v1/ratings", controllers.RatingSubmit(deps.RatingService, logg))

		r.Route("/v1/invitations", func(r chi.Router) {
			r.Post("/accept", controllers.InvitationAccept(deps.InvitationService, logg))
			r.Post("/decline", controllers.InvitationDecline(deps.InvitationService, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.NotificationService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.NotificationService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.NotificationService, logg))
		})

		r.Route("/v1/salon", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(staffOnly)
				r.Get("/me", controllers.SalonProfile(deps.SalonService, logg))
				r.Get("/services", controllers.SalonServices(deps.CatalogService, logg))
				r.Get("/appointments", controllers.SalonAppointments(deps.AppointmentService, logg))
				r.Post("/appointments/walk-in", controllers.AppointmentWalkIn(deps.AppointmentService, logg))
				r.Post("/appointments/{appointmentId}/status", controllers.AppointmentUpdateStatus(deps.AppointmentService, logg))
				r.Get("/chats", controllers.SalonChats(deps.ChatService, logg))
				r.Post("/chats/{chatId}/archive", controllers.ChatArchive(deps.ChatService, logg))
				r.Post("/chats/{chatId}/unarchive", controllers.ChatUnarchive(deps.ChatService, logg))
				r.Get("/ratings", controllers.SalonRatings(deps.RatingService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(managersOnly)
				r.Put("/me", controllers.SalonUpdate(deps.SalonService, logg))
				r.Get("/staff", controllers.SalonStaff(deps.SalonService, logg))
				r.Put("/staff/{userId}/role", controllers.SalonUpdateStaffRole(deps.SalonService, logg))
				r.Delete("/staff/{userId}", controllers.SalonRemoveStaff(deps.SalonService, logg))

				r.Route("/invitations", func(r chi.Router) {
					r.Post("/", controllers.SalonInvite(deps.InvitationService, logg))
					r.Get("/", controllers.SalonInvitations(deps.InvitationService, logg))
					r.Delete("/{invitationId}", controllers.SalonInvitationRevoke(deps.InvitationService, logg))
				})

				r.Route("/services", func(r chi.Router) {
					r.Post("/", controllers.SalonServiceCreate(deps.CatalogService, logg))
					r.Patch("/{serviceId}", controllers.SalonServiceUpdate(deps.CatalogService, logg))
					r.Delete("/{serviceId}", controllers.SalonServiceDeactivate(deps.CatalogService, logg))
				})

				r.Post("/ratings/{ratingId}/response", controllers.RatingRespond(deps.RatingService, logg))

				r.Route("/promotions", func(r chi.Router) {
					r.Get("/plans", controllers.PromotionPlans(deps.PromotionService, logg))
					r.Post("/", controllers.PromotionPurchase(deps.PromotionService, logg))
					r.Get("/", controllers.SalonPromotions(deps.PromotionService, logg))
					r.Post("/{promotionId}/cancel", controllers.PromotionCancel(deps.PromotionService, logg))
					r.Get("/{promotionId}/analytics", controllers.PromotionAnalytics(deps.PromotionService, logg))
				})

				r.Route("/subscription", func(r chi.Router) {
					r.Post("/", controllers.SalonSubscribe(deps.SubscriptionService, logg))
					r.Get("/", controllers.SalonSubscriptionCurrent(deps.SubscriptionService, logg))
					r.Get("/history", controllers.SalonSubscriptionHistory(deps.SubscriptionService, logg))
					r.Post("/cancel", controllers.SalonSubscriptionCancel(deps.SubscriptionService, logg))
				})
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.RequireRole(string(enums.MemberRoleAdmin), logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/v1/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUsers(deps.AdminService, logg))
			r.Put("/{userId}/active", controllers.AdminSetUserActive(deps.AdminService, logg))
		})

		r.Route("/v1/salons", func(r chi.Router) {
			r.Get("/", controllers.AdminSalons(deps.AdminService, logg))
			r.Put("/{salonId}/active", controllers.AdminSetSalonActive(deps.AdminService, logg))
		})

		r.Route("/v1/ratings", func(r chi.Router) {
			r.Get("/pending", controllers.AdminPendingRatings(deps.RatingService, logg))
			r.Post("/{ratingId}/moderate", controllers.AdminModerateRating(deps.RatingService, logg))
		})

		r.Route("/v1/promotion-plans", func(r chi.Router) {
			r.Get("/", controllers.PromotionPlans(deps.PromotionService, logg))
			r.Post("/", controllers.AdminPromotionPlanCreate(deps.PromotionService, logg))
			r.Patch("/{planId}", controllers.AdminPromotionPlanUpdate(deps.PromotionService, logg))
		})

		r.Route("/v1/subscription-plans", func(r chi.Router) {
			r.Get("/", controllers.SubscriptionPlans(deps.SubscriptionService, logg))
			r.Post("/", controllers.AdminSubscriptionPlanCreate(deps.SubscriptionService, logg))
			r.Patch("/{planId}", controllers.AdminSubscriptionPlanUpdate(deps.SubscriptionService, logg))
		})

		r.Route("/v1/blog", func(r chi.Router) {
			r.Get("/posts", controllers.AdminBlogPosts(deps.BlogService, logg))
			r.Post("/posts", controllers.AdminBlogPostCreate(deps.BlogService, logg))
			r.Patch("/posts/{postId}", controllers.AdminBlogPostUpdate(deps.BlogService, logg))
			r.Post("/posts/{postId}/publish", controllers.AdminBlogPostPublish(deps.BlogService, logg))
			r.Post("/posts/{postId}/unpublish", controllers.AdminBlogPostUnpublish(deps.BlogService, logg))
			r.Get("/authors", controllers.AdminBlogAuthors(deps.BlogService, logg))
			r.Post("/authors", controllers.AdminBlogAuthorCreate(deps.BlogService, logg))
			r.Get("/categories", controllers.BlogCategories(deps.BlogService, logg))
			r.Post("/categories", controllers.AdminBlogCategoryCreate(deps.BlogService, logg))
		})
	})

	return r
}
