package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"careledger/internal/adapters/http/middleware"
	"careledger/internal/adapters/http/routes"
	"careledger/internal/adapters/persistence/models"
	"careledger/internal/adapters/persistence/repositories"
	"careledger/internal/config"
	"careledger/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// @title CareLedger API
// @version 1.0
// @description Role-gated patient record access with consent gating, anonymization and a GDPR-style audit trail.

// @host localhost:3000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed demo identities in dev mode
	if cfg.IsDev() {
		if err := config.SeedDemoIdentities(db); err != nil {
			log.Printf("⚠️ Warning: Failed to seed demo identities: %v", err)
		}
	}

	// Consent flags live for session lifetime only, so the service is
	// created once here and shared between middleware and handlers.
	consentService := services.NewConsentService()

	// Start the nightly retention scan
	auditService := services.NewAuditService(repositories.NewAuditRepository(db))
	retentionAuto := services.NewRetentionAutoService(
		repositories.NewPatientRepository(db),
		auditService,
		cfg.Retention.Days,
		cfg.Retention.ScanSchedule,
	)
	if err := retentionAuto.Start(); err != nil {
		log.Fatalf("❌ Failed to start retention scan: %v", err)
	}
	defer retentionAuto.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CareLedger API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg, consentService)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
