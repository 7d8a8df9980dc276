package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kiran026/sports-portal-backend/config"
	"github.com/kiran026/sports-portal-backend/database"
	"github.com/kiran026/sports-portal-backend/internal/auditlog"
	"github.com/kiran026/sports-portal-backend/internal/auth"
	"github.com/kiran026/sports-portal-backend/internal/event"
	"github.com/kiran026/sports-portal-backend/internal/notification"
	"github.com/kiran026/sports-portal-backend/internal/registration"
	"github.com/kiran026/sports-portal-backend/routes"
	"github.com/kiran026/sports-portal-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis
	if err := utils.InitRedis(); err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}

	// Init Kafka
	utils.InitializeKafka()
	defer utils.CloseKafka()

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.UserRole{},
		&auth.User{},
		&event.Event{},
		&registration.Registration{},
		&auditlog.AuditLog{},
		&notification.MailLog{},
	); err != nil {
		log.Fatalf("❌ DB AutoMigrate failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Duplicate-registration backstop: the admission transaction checks first,
	// these indexes catch races it cannot see
	log.Println("🔄 Checking registration uniqueness indexes...")
	if err := migrateRegistrationIndexes(db); err != nil {
		log.Printf("⚠️ Warning: registration index migration issue: %v", err)
	} else {
		log.Println("✅ Registration uniqueness indexes verified")
	}

	// Seed roles & bootstrap admin
	authRepo := auth.NewRepository(db)
	authSvc := auth.NewService(authRepo, cfg)
	if err := authSvc.Seed(cfg); err != nil {
		log.Fatalf("❌ Failed to seed roles and admin: %v", err)
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:4173", "http://127.0.0.1:4173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With", "Cache-Control", "Pragma"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", "Cache-Control", "Pragma", "Expires"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Uploaded files (payment proofs, profile images, event QR codes)
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}
	router.Static("/uploads", cfg.UploadDir)

	notifSvc := routes.Setup(router, cfg)

	// Mail consumer: drains the registration-emails topic and sends SMTP mail
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	go notifSvc.StartKafkaConsumer(consumerCtx)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		fmt.Printf("🚀 Server starting on port %s\n", cfg.Port)
		fmt.Printf("📁 Upload directory: %s\n", cfg.UploadDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🔄 Shutting down server...")
	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server forced to shutdown: %v", err)
	}
	log.Println("✅ Server stopped")
}

// migrateRegistrationIndexes creates the partial unique indexes that stop the
// same person registering twice for an event. Rejected rows are excluded so a
// rejected registrant may try again.
func migrateRegistrationIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_registrations_event_user
			ON registrations (event_id, user_id)
			WHERE payment_status <> 'rejected' AND user_id IS NOT NULL;`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_registrations_event_email
			ON registrations (event_id, lower(email))
			WHERE payment_status <> 'rejected';`,
	}

	for _, sql := range statements {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create registration index: %v", err)
		}
	}
	return nil
}
