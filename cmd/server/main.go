package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"visatrack_backend/internal/database"
	"visatrack_backend/internal/middleware"
	router_pkg "visatrack_backend/internal/router"
	"visatrack_backend/internal/services"
	"visatrack_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	utils.InitLogger()

	// Load database configuration from environment variables
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "visatrack_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "visatrack_password")
	dbName := utils.Getenv("DB_NAME", "visatrack_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

	database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath)
	utils.LogInfo("Database initialized", map[string]interface{}{"configured_from_env": true})

	router := gin.Default()

	router.Use(utils.GinLogger())
	router.Use(middleware.Metrics())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	router.Use(cors.New(config))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	cfg := router_pkg.Config{
		JWTSecret: utils.Getenv("JWT_SECRET", "change-me-in-production"),
		TokenTTL:  utils.DefaultTokenTTL,
		Renumber: services.RenumberConfig{
			TriggerMax: getenvInt("RENUMBER_TRIGGER_MAX", 10),
			RowCap:     getenvInt("RENUMBER_ROW_CAP", 100),
		},
		SeedNotifications: utils.Getenv("SEED_NOTIFICATIONS", "true") == "true",
	}
	if ttlHours := getenvInt("TOKEN_TTL_HOURS", 0); ttlHours > 0 {
		cfg.TokenTTL = time.Duration(ttlHours) * time.Hour
	}

	dbConn := database.GetDB()
	router_pkg.Setup(router, dbConn, cfg)

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port, "configured_from_env": true})

	if err := router.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getenvInt reads an integer environment variable, falling back on absence or
// a non-numeric value.
func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		utils.LogError(err, "Ignoring non-numeric value for "+key)
		return fallback
	}
	return parsed
}
