package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kiran026/sports-portal-backend/config"
	"github.com/kiran026/sports-portal-backend/database"
	"github.com/kiran026/sports-portal-backend/internal/auditlog"
	"github.com/kiran026/sports-portal-backend/internal/auth"
	"github.com/kiran026/sports-portal-backend/internal/event"
	"github.com/kiran026/sports-portal-backend/internal/notification"
	"github.com/kiran026/sports-portal-backend/internal/registration"
	"github.com/kiran026/sports-portal-backend/internal/reports"
	"github.com/kiran026/sports-portal-backend/internal/storage"
	"github.com/kiran026/sports-portal-backend/middleware"
)

// actorProvider adapts the auth service into the identity source the
// registration flow uses for locked form fields.
type actorProvider struct {
	authSvc auth.Service
}

func (p actorProvider) ActorByID(userID uint) (registration.Actor, error) {
	user, err := p.authSvc.GetUserByID(userID)
	if err != nil {
		return registration.Actor{}, err
	}
	return registration.Actor{
		UserID:       user.ID,
		FullName:     user.FullName,
		Email:        user.Email,
		Mobile:       user.Mobile,
		Gender:       user.Gender,
		ProfileImage: user.ProfileImage,
	}, nil
}

// Setup wires every module and returns the notification service so main can
// start the Kafka mail consumer.
func Setup(r *gin.Engine, cfg *config.Config) *notification.Service {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())
	api.Use(middleware.AuditMiddleware())

	// ========== Audit Logs ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)

		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)

		// Public roles endpoint for the signup form (no auth required)
		authGroup.GET("/public-roles", authHandler.GetPublicRoles)

		authGroup.POST("/logout", middleware.AuthMiddleware(cfg, authSvc), authHandler.Logout)
	}

	// ========== Storage ==========
	store := storage.NewLocalStore(cfg.UploadDir)
	storageHandler := storage.NewHandler(store)

	// ========== Events ==========
	eventRepo := event.NewRepository(database.DB)
	eventService := event.NewService(eventRepo, auditSvc)
	eventHandler := event.NewHandler(eventService)

	// ========== Registrations ==========
	registrationRepo := registration.NewRepository(database.DB)
	registrationService := registration.NewService(registrationRepo, eventRepo, auditSvc, actorProvider{authSvc}, store)
	registrationHandler := registration.NewHandler(registrationService)

	// Event deletion purges registrations and their stored files
	eventService.Purger = registrationService
	eventService.Files = store

	// Public event discovery: no auth, participants browse before signing up
	api.GET("/events/upcoming", eventHandler.GetUpcomingEvents)
	api.GET("/events/slug/:slug", eventHandler.GetEventBySlug)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))

	// ========== Profile ==========
	profileRoutes := protected.Group("/profile")
	{
		profileRoutes.GET("", authHandler.GetProfile)
		profileRoutes.PUT("", authHandler.UpdateProfile)
	}

	// ========== Event Management (admin + organizer) ==========
	eventRoutes := protected.Group("/events")
	eventRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleOrganizer))
	{
		writeRoutes := eventRoutes.Group("")
		writeRoutes.Use(middleware.RequireWriteAccess())
		{
			writeRoutes.POST("", eventHandler.CreateEvent)
			writeRoutes.PUT("/:id", eventHandler.UpdateEvent)
			writeRoutes.DELETE("/:id", eventHandler.DeleteEvent)

			// Form schema editing
			writeRoutes.POST("/:id/schema/fields", eventHandler.AddSchemaField)
			writeRoutes.DELETE("/:id/schema/fields/:field_id", eventHandler.RemoveSchemaField)
			writeRoutes.POST("/:id/schema/fields/:field_id/duplicate", eventHandler.DuplicateSchemaField)
			writeRoutes.PATCH("/:id/schema/fields/:field_id/move", eventHandler.MoveSchemaField)
			writeRoutes.PATCH("/:id/schema/fields/:field_id", eventHandler.UpdateSchemaField)
			writeRoutes.PUT("/:id/schema", eventHandler.SaveSchema)
		}

		eventRoutes.GET("", eventHandler.ListEvents)
		eventRoutes.GET("/stats", eventHandler.GetEventStats)
		eventRoutes.GET("/:id", eventHandler.GetEventByID)
		eventRoutes.GET("/:id/schema", eventHandler.GetSchema)
		eventRoutes.GET("/:id/registrations", registrationHandler.ListByEvent)
	}

	// ========== Registrations ==========
	registrationRoutes := protected.Group("/registrations")
	{
		// Participants submit; tighter rate limit since this is the spammable path
		registrationRoutes.POST("",
			middleware.RBACMiddleware(auth.RoleParticipant),
			middleware.SubmissionRateLimiter(),
			registrationHandler.Register)

		manageRoutes := registrationRoutes.Group("")
		manageRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleOrganizer), middleware.RequireWriteAccess())
		{
			manageRoutes.PATCH("/disposition", registrationHandler.Disposition)
			manageRoutes.GET("/:id", registrationHandler.GetByID)
			manageRoutes.DELETE("/:id", registrationHandler.Delete)
		}
	}

	// ========== Uploads ==========
	uploadRoutes := protected.Group("/uploads")
	uploadRoutes.Use(middleware.SubmissionRateLimiter())
	{
		uploadRoutes.POST("/payment-proof", storageHandler.UploadPaymentProof)
		uploadRoutes.POST("/profile-image", storageHandler.UploadProfileImage)
		uploadRoutes.POST("/event-qr",
			middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleOrganizer),
			middleware.RequireWriteAccess(),
			storageHandler.UploadEventQR)
	}

	// ========== Notifications ==========
	notificationRepo := notification.NewRepository(database.DB)
	notifSvc := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notifSvc)

	protected.GET("/notifications/mail-log",
		middleware.RBACMiddleware(auth.RoleAdmin),
		notificationHandler.GetMailLog)

	// ========== Audit Logs (admin only) ==========
	auditRoutes := protected.Group("/auditlogs")
	auditRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin))
	{
		auditRoutes.GET("", auditHandler.GetAuditLogs)
		auditRoutes.GET("/stats", auditHandler.GetAuditLogStats)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}

	// ========== Reports ==========
	reportsRepo := reports.NewRepository(database.DB)
	reportsExporter := reports.NewReportExporter()
	reportsService := reports.NewService(reportsRepo, reportsExporter, auditSvc)
	reportsHandler := reports.NewHandler(reportsService)

	reportsRoutes := protected.Group("/reports")
	reportsRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleOrganizer), middleware.RequireWriteAccess())
	{
		reportsRoutes.GET("/events", reportsHandler.GetEventsReport)
		reportsRoutes.GET("/registrations", reportsHandler.GetRegistrationsReport)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return notifSvc
}
