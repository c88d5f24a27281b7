package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"visatrack_backend/internal/models"
	"visatrack_backend/internal/repositories"
	"visatrack_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminNotFound      = errors.New("admin user not found")
	// ErrSessionInvalidated is returned for tokens issued before the last
	// password change. Changing the password deliberately forces a re-login.
	ErrSessionInvalidated = errors.New("session invalidated by password change")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// profileError reports a profile update rule failure, user-visible verbatim.
func profileError(message string) error {
	return &ValidationError{Message: message}
}

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse DTO
type AuthResponse struct {
	Admin *models.Admin `json:"admin"`
	Token string        `json:"token"`
}

// UpdateProfileRequest DTO. A password change requires all three password
// fields; a name-only change requires only Name.
type UpdateProfileRequest struct {
	Name            string `json:"name"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// --- AuthService Interface ---
type AuthService interface {
	Login(req LoginRequest) (*AuthResponse, error)
	AuthorizeToken(tokenString string) (*models.Admin, error)
	GetProfile(adminID int64) (*models.Admin, error)
	UpdateProfile(adminID int64, req UpdateProfileRequest) (*models.Admin, []string, error)
}

// --- authService Implementation ---
type authService struct {
	adminRepo repositories.AdminRepository
	db        *sql.DB
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(adminRepo repositories.AdminRepository, db *sql.DB, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		adminRepo: adminRepo,
		db:        db,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Login verifies credentials and issues a session token.
func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	admin, err := s.adminRepo.GetAdminByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up admin for login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.jwtSecret, admin.ID, admin.Username, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return &AuthResponse{Admin: admin, Token: token}, nil
}

// AuthorizeToken validates a session token and returns the current admin
// record. Tokens issued before the admin's last password change are rejected.
func (s *authService) AuthorizeToken(tokenString string) (*models.Admin, error) {
	claims, err := utils.ValidateToken(s.jwtSecret, tokenString)
	if err != nil {
		return nil, err
	}

	admin, err := s.adminRepo.GetAdminByID(claims.AdminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to look up admin for token: %w", err)
	}

	if admin.PasswordChangedAt != nil && claims.IssuedAt != nil &&
		claims.IssuedAt.Time.Before(*admin.PasswordChangedAt) {
		return nil, ErrSessionInvalidated
	}
	return admin, nil
}

// GetProfile returns the admin account for the profile page.
func (s *authService) GetProfile(adminID int64) (*models.Admin, error) {
	admin, err := s.adminRepo.GetAdminByID(adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin profile: %w", err)
	}
	return admin, nil
}

// UpdateProfile changes the admin's display name and/or password. The returned
// slice names what changed ("name", "password"), for the response body.
func (s *authService) UpdateProfile(adminID int64, req UpdateProfileRequest) (*models.Admin, []string, error) {
	admin, err := s.adminRepo.GetAdminByID(adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrAdminNotFound
		}
		return nil, nil, fmt.Errorf("failed to find admin for profile update: %w", err)
	}

	newName := strings.TrimSpace(req.Name)
	updateName := newName != ""
	updatePassword := req.CurrentPassword != "" && req.NewPassword != ""

	if !updateName && !updatePassword {
		return nil, nil, profileError("No changes specified")
	}

	if updateName && len(newName) < 2 {
		return nil, nil, profileError("Name must be at least 2 characters long")
	}

	var newPasswordHash *string
	var passwordChangedAt *time.Time
	if updatePassword {
		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return nil, nil, profileError("Current password is incorrect")
		}
		if !utils.IsValidPasswordLength(req.NewPassword, 6) {
			return nil, nil, profileError("New password must be at least 6 characters long")
		}
		if req.NewPassword != req.ConfirmPassword {
			return nil, nil, profileError("New password and confirmation do not match")
		}
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.NewPassword)) == nil {
			return nil, nil, profileError("New password must be different from current password")
		}

		hashedBytes, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to hash new password: %w", err)
		}
		hashed := string(hashedBytes)
		newPasswordHash = &hashed
		now := time.Now()
		passwordChangedAt = &now
	}

	// A rename to the identical name with no password change is a no-op.
	if updateName && newName == admin.Username && !updatePassword {
		return nil, nil, ErrNoChanges
	}

	var usernameUpdate *string
	if updateName {
		usernameUpdate = &newName
	}

	rowsAffected, err := s.adminRepo.UpdateAdminProfile(s.db, admin.ID, usernameUpdate, newPasswordHash, passwordChangedAt)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, nil, profileError("Username is already taken")
		}
		return nil, nil, fmt.Errorf("failed to update admin profile: %w", err)
	}
	if rowsAffected == 0 {
		return nil, nil, ErrNoChanges
	}

	changes := []string{}
	if updateName {
		changes = append(changes, "name")
	}
	if updatePassword {
		changes = append(changes, "password")
	}

	updated, err := s.adminRepo.GetAdminByID(admin.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read back admin profile: %w", err)
	}
	return updated, changes, nil
}
