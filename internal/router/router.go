package router

import (
	"database/sql"
	"time"

	"visatrack_backend/internal/handlers"
	"visatrack_backend/internal/middleware"
	"visatrack_backend/internal/repositories"
	"visatrack_backend/internal/services"
	"visatrack_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Config carries the runtime knobs the services need; main reads them from
// the environment so nothing here depends on ambient global state.
type Config struct {
	JWTSecret         string
	TokenTTL          time.Duration
	Renumber          services.RenumberConfig
	SeedNotifications bool
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, cfg Config) {
	// Initialize Repositories
	clientRepo := repositories.NewClientRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	adminRepo := repositories.NewAdminRepository(db)

	// Initialize Services
	clientService := services.NewClientService(clientRepo, db, cfg.Renumber)
	notificationService := services.NewNotificationService(notificationRepo, db)
	authService := services.NewAuthService(adminRepo, db, cfg.JWTSecret, cfg.TokenTTL)

	if cfg.SeedNotifications {
		if err := notificationService.SeedSampleNotifications(); err != nil {
			utils.LogError(err, "Failed to seed sample notifications")
		}
	}

	// Initialize Handlers
	clientHandler := handlers.NewClientHandler(clientService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	authHandler := handlers.NewAuthHandler(authService, clientService)

	apiV1 := engine.Group("/api/v1")

	// Public routes: login and the session probe. The probe answers
	// {authenticated:false} instead of the Unauthorized failure, so it stays
	// outside the middleware.
	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(authService))
	{
		SetupClientRoutes(authenticated, clientHandler)
		SetupNotificationRoutes(authenticated, notificationHandler)
		SetupProfileRoutes(authenticated, authHandler)
	}
}
