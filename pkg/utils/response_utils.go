package utils

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// The frontend expects every endpoint to answer HTTP 200 with a
// {success: bool, message?: string, ...} body; failures are signaled in the
// body, never via transport-level status codes.

// RespondSuccess sends a success response, merging any extra payload fields.
func RespondSuccess(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// RespondFailure sends a body-level failure response with a user-visible message.
func RespondFailure(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": false, "message": message})
}

// RespondUnauthorized sends the uniform unauthenticated response and stops
// further handler processing.
func RespondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": false, "message": "Unauthorized"})
	c.Abort()
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidPasswordLength checks if password meets minimum length requirement.
func IsValidPasswordLength(password string, minLength int) bool {
	return len(password) >= minLength
}
