package models

import "time"

// Admin is the single panel account. PasswordChangedAt is the session cutoff:
// tokens issued before it are rejected by the auth middleware.
type Admin struct {
	ID                int64      `json:"id" db:"id"`
	Username          string     `json:"username" db:"username"`
	PasswordHash      string     `json:"-" db:"password"`
	PasswordChangedAt *time.Time `json:"-" db:"password_changed_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}
