package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"visatrack_backend/internal/models"

	"github.com/lib/pq"
)

// AdminRepository defines the interface for admin account operations.
type AdminRepository interface {
	GetAdminByID(id int64) (*models.Admin, error)
	GetAdminByUsername(username string) (*models.Admin, error)
	UpdateAdminProfile(executor SQLExecutor, id int64, username *string, passwordHash *string, passwordChangedAt *time.Time) (int64, error)
}

type adminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a new instance of AdminRepository.
func NewAdminRepository(db *sql.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) scanAdmin(row *sql.Row) (*models.Admin, error) {
	admin := &models.Admin{}
	var changedAt sql.NullTime
	err := row.Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &changedAt, &admin.CreatedAt)
	if err != nil {
		return nil, err
	}
	if changedAt.Valid {
		admin.PasswordChangedAt = &changedAt.Time
	}
	return admin, nil
}

// GetAdminByID retrieves an admin account by id.
func (r *adminRepository) GetAdminByID(id int64) (*models.Admin, error) {
	query := `SELECT id, username, password, password_changed_at, created_at FROM admins WHERE id = $1`
	admin, err := r.scanAdmin(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting admin by ID %d: %v", ErrDatabaseError, id, err)
	}
	return admin, nil
}

// GetAdminByUsername retrieves an admin account by username.
func (r *adminRepository) GetAdminByUsername(username string) (*models.Admin, error) {
	query := `SELECT id, username, password, password_changed_at, created_at FROM admins WHERE username = $1`
	admin, err := r.scanAdmin(r.db.QueryRow(query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting admin by username %s: %v", ErrDatabaseError, username, err)
	}
	return admin, nil
}

// UpdateAdminProfile updates username and/or password hash for an admin.
// Only non-nil fields are written. Returns the number of rows changed.
func (r *adminRepository) UpdateAdminProfile(executor SQLExecutor, id int64, username *string, passwordHash *string, passwordChangedAt *time.Time) (int64, error) {
	sets := ""
	args := []interface{}{}
	argCount := 1

	if username != nil {
		sets += fmt.Sprintf("username = $%d", argCount)
		args = append(args, *username)
		argCount++
	}
	if passwordHash != nil {
		if sets != "" {
			sets += ", "
		}
		sets += fmt.Sprintf("password = $%d, password_changed_at = $%d", argCount, argCount+1)
		args = append(args, *passwordHash, passwordChangedAt)
		argCount += 2
	}
	if sets == "" {
		return 0, nil
	}

	query := fmt.Sprintf("UPDATE admins SET %s WHERE id = $%d", sets, argCount)
	args = append(args, id)

	result, err := executor.Exec(query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: updating admin ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for updating admin ID %d: %v", ErrDatabaseError, id, err)
	}
	return rowsAffected, nil
}
