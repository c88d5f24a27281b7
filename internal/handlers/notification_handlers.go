package handlers

import (
	"encoding/json"
	"errors"

	"visatrack_backend/internal/services"
	"visatrack_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler holds the notification service.
type NotificationHandler struct {
	notificationService services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(ns services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: ns}
}

// GetNotifications returns the full feed newest first plus the unread count.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	feed, err := h.notificationService.ListNotifications()
	if err != nil {
		utils.LogError(err, "GetNotifications: Error from notificationService.ListNotifications")
		utils.RespondFailure(c, "Server error")
		return
	}

	utils.RespondSuccess(c, gin.H{
		"notifications": feed.Notifications,
		"unreadCount":   feed.UnreadCount,
	})
}

// MarkReadRequest is the mark-single-read payload.
type MarkReadRequest struct {
	NotificationID *json.Number `json:"notificationId"`
}

// MarkNotificationRead flags one notification as read. Already-read is a
// distinct non-error outcome.
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "MarkNotificationRead: Failed to bind JSON")
		utils.RespondFailure(c, "Invalid JSON data")
		return
	}
	if req.NotificationID == nil {
		utils.RespondFailure(c, "Notification ID is required")
		return
	}

	id, err := req.NotificationID.Int64()
	if err != nil || id <= 0 {
		utils.RespondFailure(c, "Invalid notification ID")
		return
	}

	unreadCount, err := h.notificationService.MarkNotificationRead(id)
	if err != nil {
		if errors.Is(err, services.ErrNotificationNotRead) {
			utils.RespondFailure(c, "Notification not found or already read")
			return
		}
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			utils.RespondFailure(c, vErr.Message)
			return
		}
		utils.LogError(err, "MarkNotificationRead: Error from notificationService.MarkNotificationRead")
		utils.RespondFailure(c, "Server error")
		return
	}

	utils.RespondSuccess(c, gin.H{
		"message":     "Notification marked as read",
		"unreadCount": unreadCount,
	})
}

// MarkAllNotificationsRead flags every unread notification. Zero marked is a
// valid outcome.
func (h *NotificationHandler) MarkAllNotificationsRead(c *gin.Context) {
	marked, err := h.notificationService.MarkAllNotificationsRead()
	if err != nil {
		utils.LogError(err, "MarkAllNotificationsRead: Error from notificationService.MarkAllNotificationsRead")
		utils.RespondFailure(c, "Server error")
		return
	}

	utils.RespondSuccess(c, gin.H{
		"message":     "All notifications marked as read",
		"markedCount": marked,
		"unreadCount": 0,
	})
}
