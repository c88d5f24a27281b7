package router

import (
	"visatrack_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the public authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/session", authHandler.CheckSession)
	}
}

// SetupClientRoutes sets up the client CRUD routes. The update carries its id
// in the body (full-record replace), and deletion is a bulk POST.
func SetupClientRoutes(authenticatedGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := authenticatedGroup.Group("/clients")
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("", clientHandler.UpdateClient)
		clientRoutes.POST("/delete", clientHandler.DeleteClients)
	}
}

// SetupNotificationRoutes sets up the notification feed routes.
func SetupNotificationRoutes(authenticatedGroup *gin.RouterGroup, notificationHandler *handlers.NotificationHandler) {
	notificationRoutes := authenticatedGroup.Group("/notifications")
	{
		notificationRoutes.GET("", notificationHandler.GetNotifications)
		notificationRoutes.POST("/read", notificationHandler.MarkNotificationRead)
		notificationRoutes.POST("/read-all", notificationHandler.MarkAllNotificationsRead)
	}
}

// SetupProfileRoutes sets up the admin profile routes.
func SetupProfileRoutes(authenticatedGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	profileRoutes := authenticatedGroup.Group("/profile")
	{
		profileRoutes.GET("", authHandler.GetProfile)
		profileRoutes.POST("", authHandler.UpdateProfile)
	}
}
