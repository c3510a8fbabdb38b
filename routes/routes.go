package routes

import (
	"SonoCare/cache"
	"SonoCare/config"
	"SonoCare/controllers"
	"SonoCare/handlers"
	"SonoCare/middlewares"
	"SonoCare/repositories"
	"SonoCare/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.example.com", "https://example-dev.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories, services, and handlers
	billingRepo := repositories.NewBillingRepository(cache)
	examinationRepo := repositories.NewExaminationRepository(cache)
	appointmentRepo := repositories.NewAppointmentRepository(cache)
	serviceTypeRepo := repositories.NewServiceTypeRepository(cache)
	reportRepo := repositories.NewReportRepository()

	patientRepo := repositories.NewPatientRepository(
		cache,
		examinationRepo,
		appointmentRepo,
		billingRepo,
	)

	userRepo := repositories.NewUserRepository(db, cache)

	patientService := services.NewPatientService(patientRepo)
	userService := services.NewUserService(userRepo)
	billingService := services.NewBillingService(billingRepo, patientRepo, userRepo)
	reminderService := services.NewReminderService(billingRepo, patientRepo)

	patientHandler := handlers.NewPatientHandler(patientService)
	authHandler := handlers.NewAuthHandler(userService)
	examinationHandler := handlers.NewExaminationHandler(services.NewExaminationService(examinationRepo))
	appointmentHandler := handlers.NewAppointmentHandler(services.NewAppointmentService(appointmentRepo))
	serviceTypeHandler := handlers.NewServiceTypeHandler(services.NewServiceTypeService(serviceTypeRepo))
	billingHandler := handlers.NewBillingHandler(billingService, reminderService)
	reportHandler := handlers.NewReportHandler(services.NewReportService(reportRepo))

	// Register routes
	controllers.SetupClinicRoutes(
		router,
		patientHandler,
		examinationHandler,
		appointmentHandler,
		serviceTypeHandler,
		billingHandler,
		reportHandler,
	)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}
