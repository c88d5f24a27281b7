package services

import (
	"database/sql"
	"errors"
	"fmt"

	"visatrack_backend/internal/models"
	"visatrack_backend/internal/repositories"
	"visatrack_backend/pkg/utils"
)

// ErrNotificationNotRead reports a mark-read call where the notification is
// absent or already read. Marking twice is not an error; ReadAt is untouched.
var ErrNotificationNotRead = errors.New("notification not found or already read")

// NotificationFeed bundles the full feed with its unread counter.
type NotificationFeed struct {
	Notifications []models.Notification
	UnreadCount   int
}

// --- NotificationService Interface ---
type NotificationService interface {
	ListNotifications() (*NotificationFeed, error)
	MarkNotificationRead(id int64) (int, error)
	MarkAllNotificationsRead() (int64, error)
	SeedSampleNotifications() error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	db               *sql.DB
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(repo repositories.NotificationRepository, db *sql.DB) NotificationService {
	return &notificationService{notificationRepo: repo, db: db}
}

// ListNotifications returns all notifications newest first plus the unread count.
func (s *notificationService) ListNotifications() (*NotificationFeed, error) {
	notifications, err := s.notificationRepo.GetNotifications()
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}
	return &NotificationFeed{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkNotificationRead flags one notification as read and returns the
// remaining unread count. Already-read and missing notifications yield
// ErrNotificationNotRead.
func (s *notificationService) MarkNotificationRead(id int64) (int, error) {
	if id <= 0 {
		return 0, validationError("Invalid notification ID")
	}

	rowsAffected, err := s.notificationRepo.MarkRead(s.db, id)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notification read: %w", err)
	}
	if rowsAffected == 0 {
		return 0, ErrNotificationNotRead
	}

	unread, err := s.notificationRepo.CountUnread()
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return unread, nil
}

// MarkAllNotificationsRead flags every unread notification and returns the
// count affected. Zero is a valid outcome, not an error.
func (s *notificationService) MarkAllNotificationsRead() (int64, error) {
	marked, err := s.notificationRepo.MarkAllRead(s.db)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return marked, nil
}

// sampleNotifications are the system-seeded entries for a fresh install.
var sampleNotifications = []struct {
	Title   string
	Message string
	Type    string
}{
	{
		Title:   "Welcome to Admin Dashboard",
		Message: "You have successfully logged into the admin dashboard. All systems are operational.",
		Type:    "success",
	},
	{
		Title:   "New Client Added",
		Message: `A new client "John Doe" has been added to the system.`,
		Type:    "info",
	},
	{
		Title:   "System Backup Completed",
		Message: "Daily system backup has been completed successfully. All data is secure.",
		Type:    "success",
	},
	{
		Title:   "Profile Update Required",
		Message: "Please review and update your admin profile settings for security compliance.",
		Type:    "warning",
	},
}

// SeedSampleNotifications inserts the sample feed once, only when the table is
// empty.
func (s *notificationService) SeedSampleNotifications() error {
	count, err := s.notificationRepo.CountAll()
	if err != nil {
		return fmt.Errorf("failed to count notifications before seeding: %w", err)
	}
	if count > 0 {
		utils.LogDebug("Notifications already exist, skipping seed", map[string]interface{}{"count": count})
		return nil
	}

	for _, n := range sampleNotifications {
		if err := s.notificationRepo.InsertNotification(s.db, n.Title, n.Message, n.Type); err != nil {
			return fmt.Errorf("failed to seed notifications: %w", err)
		}
	}
	utils.LogInfo("Sample notifications seeded", map[string]interface{}{"count": len(sampleNotifications)})
	return nil
}
