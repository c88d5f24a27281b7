package handlers

import (
	"errors"

	"visatrack_backend/internal/middleware"
	"visatrack_backend/internal/services"
	"visatrack_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the auth service plus the client service the session
// probe needs for its dashboard payload.
type AuthHandler struct {
	authService   services.AuthService
	clientService services.ClientService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService, cs services.ClientService) *AuthHandler {
	return &AuthHandler{authService: as, clientService: cs}
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "Login: Failed to bind JSON")
		utils.RespondFailure(c, "Invalid JSON data")
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondFailure(c, "Invalid username or password!")
			return
		}
		utils.LogError(err, "Login: Error from authService.Login")
		utils.RespondFailure(c, "Server error")
		return
	}

	utils.RespondSuccess(c, gin.H{
		"message": "Login successful",
		"token":   resp.Token,
		"admin":   resp.Admin,
	})
}

// CheckSession is the session probe. It is deliberately outside the auth
// middleware: an unauthenticated caller gets {authenticated:false}, not the
// Unauthorized failure. An authenticated caller gets the admin name, the full
// client list and the dashboard aggregates in one payload.
func (h *AuthHandler) CheckSession(c *gin.Context) {
	tokenString := middleware.BearerToken(c)
	if tokenString == "" {
		c.JSON(200, gin.H{"authenticated": false})
		return
	}

	admin, err := h.authService.AuthorizeToken(tokenString)
	if err != nil {
		c.JSON(200, gin.H{"authenticated": false})
		return
	}

	clients, err := h.clientService.GetClients()
	if err != nil {
		utils.LogError(err, "CheckSession: Error fetching clients")
		utils.RespondFailure(c, "Database error")
		return
	}

	stats := services.BuildDashboardStats(clients)
	c.JSON(200, gin.H{
		"authenticated": true,
		"admin":         admin.Username,
		"clients":       clients,
		"totalClients":  stats.TotalClients,
		"ageGroups":     stats.AgeGroups,
		"genderCount":   stats.GenderCount,
		"locationCount": stats.LocationCount,
		"visaTypeCount": stats.VisaTypeCount,
	})
}

// GetProfile returns the authenticated admin account, hash excluded.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	adminID, ok := middleware.CurrentAdminID(c)
	if !ok {
		utils.RespondUnauthorized(c)
		return
	}

	admin, err := h.authService.GetProfile(adminID)
	if err != nil {
		if errors.Is(err, services.ErrAdminNotFound) {
			utils.RespondFailure(c, "Admin user not found")
			return
		}
		utils.LogError(err, "GetProfile: Error from authService.GetProfile")
		utils.RespondFailure(c, "Server error")
		return
	}
	utils.RespondSuccess(c, gin.H{"admin": admin})
}

// UpdateProfile changes the admin display name and/or password. A committed
// password change invalidates every outstanding session token.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	adminID, ok := middleware.CurrentAdminID(c)
	if !ok {
		utils.RespondUnauthorized(c)
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateProfile: Failed to bind JSON")
		utils.RespondFailure(c, "Invalid JSON data")
		return
	}

	admin, changes, err := h.authService.UpdateProfile(adminID, req)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			utils.RespondFailure(c, vErr.Message)
		case errors.Is(err, services.ErrNoChanges):
			utils.RespondFailure(c, "No changes were made")
		case errors.Is(err, services.ErrAdminNotFound):
			utils.RespondFailure(c, "Admin user not found")
		default:
			utils.LogError(err, "UpdateProfile: Error from authService.UpdateProfile")
			utils.RespondFailure(c, "Server error")
		}
		return
	}

	utils.RespondSuccess(c, gin.H{
		"message": "Profile updated successfully",
		"admin":   admin,
		"changes": changes,
	})
}
