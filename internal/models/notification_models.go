package models

import "time"

// Notification is a read/unread admin feed entry. There is no deletion path;
// rows are only created by seeding and flipped to read.
type Notification struct {
	ID        int64      `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Message   string     `json:"message" db:"message"`
	Type      string     `json:"type" db:"type"` // info, success, warning, error
	IsRead    bool       `json:"is_read" db:"is_read"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	ReadAt    *time.Time `json:"read_at" db:"read_at"`
}
