package middleware

import (
	"strings"

	"visatrack_backend/internal/models"
	"visatrack_backend/internal/services"
	"visatrack_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	ContextAdminID  = "adminID"
	ContextUsername = "username"
)

// BearerToken extracts the bearer token from the Authorization header.
// Returns "" when the header is missing or malformed.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// AuthMiddleware creates a Gin middleware enforcing the session gate. Every
// failure answers the uniform body-level Unauthorized response; the store is
// never touched by the guarded handler. Tokens issued before the admin's last
// password change are rejected, forcing a re-login.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c)
		if tokenString == "" {
			utils.RespondUnauthorized(c)
			return
		}

		admin, err := authService.AuthorizeToken(tokenString)
		if err != nil {
			utils.RespondUnauthorized(c)
			return
		}

		c.Set(ContextAdminID, admin.ID)
		c.Set(ContextUsername, admin.Username)

		c.Next()
	}
}

// CurrentAdminID returns the authenticated admin id set by AuthMiddleware.
func CurrentAdminID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextAdminID)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}

// CurrentAdmin is a convenience for handlers that only need the display name.
func CurrentAdmin(c *gin.Context) *models.Admin {
	id, ok := CurrentAdminID(c)
	if !ok {
		return nil
	}
	username, _ := c.Get(ContextUsername)
	name, _ := username.(string)
	return &models.Admin{ID: id, Username: name}
}
