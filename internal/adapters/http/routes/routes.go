package routes

import (
	"careledger/internal/adapters/http/handlers"
	"careledger/internal/adapters/http/middleware"
	"careledger/internal/adapters/persistence/repositories"
	"careledger/internal/config"
	"careledger/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and wires the
// dependency graph: repositories → services → handlers.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, consentService *services.ConsentService) {
	// Repositories (the record store adapter)
	userRepo := repositories.NewUserRepository(db)
	patientRepo := repositories.NewPatientRepository(db)
	apptRepo := repositories.NewAppointmentRepository(db)
	auditRepo := repositories.NewAuditRepository(db)

	// Services
	auditService := services.NewAuditService(auditRepo)
	policyService := services.NewPolicyService()
	authService := services.NewAuthService(userRepo, auditService, cfg)
	patientService := services.NewPatientService(patientRepo, auditService, policyService)
	anonymizerService := services.NewAnonymizerService(patientRepo, auditService, policyService)
	apptService := services.NewAppointmentService(apptRepo, patientRepo, auditService, policyService)
	userService := services.NewUserService(userRepo, auditService, policyService)
	retentionService := services.NewRetentionService(patientRepo, userRepo, auditRepo, auditService, policyService)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, consentService, cfg)
	consentHandler := handlers.NewConsentHandler(consentService)
	patientHandler := handlers.NewPatientHandler(patientService, anonymizerService)
	apptHandler := handlers.NewAppointmentHandler(apptService)
	staffHandler := handlers.NewStaffHandler(userService)
	auditHandler := handlers.NewAuditHandler(auditService)
	complianceHandler := handlers.NewComplianceHandler(retentionService, cfg)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Public auth routes
	auth := apiV1.Group("/auth")
	auth.Post("/bootstrap", authHandler.Bootstrap)
	auth.Post("/login", authHandler.Login)

	// Protected routes: the auth middleware builds the AccessContext
	// (identity + role + per-session consent flag) for every request.
	protected := apiV1.Group("", middleware.AuthMiddleware(authService, consentService))

	protected.Post("/auth/logout", authHandler.Logout)

	protected.Post("/consent", consentHandler.Grant)
	protected.Get("/consent", consentHandler.Status)

	protected.Get("/patients", patientHandler.List)
	protected.Post("/patients", patientHandler.Add)
	protected.Get("/patients/export.csv", patientHandler.ExportCSV)
	protected.Post("/patients/anonymize-all", patientHandler.AnonymizeAll)
	protected.Get("/patients/:id", patientHandler.Get)
	protected.Post("/patients/:id/anonymize", patientHandler.Anonymize)

	protected.Get("/appointments", apptHandler.List)
	protected.Post("/appointments", apptHandler.Create)

	protected.Get("/staff", staffHandler.List)
	protected.Get("/audit", auditHandler.List)

	compliance := protected.Group("/compliance")
	compliance.Get("/report", complianceHandler.Report)
	compliance.Get("/retention", complianceHandler.Retention)
	compliance.Delete("/retention", complianceHandler.PurgeExpired)
	compliance.Delete("/patients/:id", complianceHandler.Forget)
	compliance.Get("/export/:userId", complianceHandler.Export)
}
