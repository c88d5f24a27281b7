package repositories

import (
	"database/sql"
	"fmt"

	"visatrack_backend/internal/models"
)

// NotificationRepository defines the interface for notification feed operations.
type NotificationRepository interface {
	GetNotifications() ([]models.Notification, error)
	CountUnread() (int, error)
	CountAll() (int, error)
	MarkRead(executor SQLExecutor, id int64) (int64, error)
	MarkAllRead(executor SQLExecutor) (int64, error)
	InsertNotification(executor SQLExecutor, title, message, notifType string) error
}

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// GetNotifications retrieves all notifications ordered newest first.
func (r *notificationRepository) GetNotifications() ([]models.Notification, error) {
	query := `SELECT id, title, message, type, is_read, created_at, read_at
	          FROM notifications ORDER BY created_at DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying notifications: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt, &readAt); err != nil {
			return nil, fmt.Errorf("%w: scanning notification: %v", ErrDatabaseError, err)
		}
		if readAt.Valid {
			n.ReadAt = &readAt.Time
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating notification rows: %v", ErrDatabaseError, err)
	}
	return notifications, nil
}

// CountUnread returns the number of unread notifications.
func (r *notificationRepository) CountUnread() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE is_read = FALSE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting unread notifications: %v", ErrDatabaseError, err)
	}
	return count, nil
}

// CountAll returns the total number of notifications.
func (r *notificationRepository) CountAll() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting notifications: %v", ErrDatabaseError, err)
	}
	return count, nil
}

// MarkRead flags a single unread notification as read. Returns the number of
// rows changed: 0 means the notification is absent or already read, which the
// caller reports as a non-error outcome. ReadAt is never overwritten.
func (r *notificationRepository) MarkRead(executor SQLExecutor, id int64) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE, read_at = CURRENT_TIMESTAMP
	          WHERE id = $1 AND is_read = FALSE`
	result, err := executor.Exec(query, id)
	if err != nil {
		return 0, fmt.Errorf("%w: marking notification %d read: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for notification %d: %v", ErrDatabaseError, id, err)
	}
	return rowsAffected, nil
}

// MarkAllRead flags every unread notification as read and returns the count affected.
func (r *notificationRepository) MarkAllRead(executor SQLExecutor) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE, read_at = CURRENT_TIMESTAMP
	          WHERE is_read = FALSE`
	result, err := executor.Exec(query)
	if err != nil {
		return 0, fmt.Errorf("%w: marking all notifications read: %v", ErrDatabaseError, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for mark-all-read: %v", ErrDatabaseError, err)
	}
	return rowsAffected, nil
}

// InsertNotification creates a new feed entry. Only seeding uses this; the
// panel itself has no notification-creation surface.
func (r *notificationRepository) InsertNotification(executor SQLExecutor, title, message, notifType string) error {
	query := `INSERT INTO notifications (title, message, type) VALUES ($1, $2, $3)`
	if _, err := executor.Exec(query, title, message, notifType); err != nil {
		return fmt.Errorf("%w: inserting notification: %v", ErrDatabaseError, err)
	}
	return nil
}
