package services

import (
	"database/sql"
	"errors"
	"fmt"

	"visatrack_backend/internal/models"
	"visatrack_backend/internal/repositories"
	"visatrack_backend/pkg/utils"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound = errors.New("client not found")
	// ErrNoChanges reports a well-formed update that changed nothing. It is a
	// distinct outcome, not a store failure.
	ErrNoChanges = errors.New("no changes were made")
	// ErrNoClientsDeleted reports a bulk delete where no requested id existed.
	ErrNoClientsDeleted = errors.New("no clients were found to delete")
)

// RenumberConfig carries the two deletion-maintenance thresholds. The values
// have no documented rationale in the panel; they are deliberately
// configuration, not constants.
type RenumberConfig struct {
	// TriggerMax is the largest deletedCount that still triggers renumbering.
	// Larger deletions skip it entirely to bound lock time.
	TriggerMax int
	// RowCap aborts the renumbering transaction when more rows survive.
	RowCap int
}

// DefaultRenumberConfig mirrors the panel's hardcoded thresholds.
func DefaultRenumberConfig() RenumberConfig {
	return RenumberConfig{TriggerMax: 10, RowCap: 100}
}

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(req CreateClientRequest) (*models.Client, error)
	GetClientByID(clientID int64) (*models.Client, error)
	GetClients() ([]models.Client, error)
	UpdateClient(req UpdateClientRequest) (*models.Client, error)
	DeleteClients(ids []int64) (*models.DeleteClientsResult, error)
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo repositories.ClientRepository
	db         *sql.DB
	renumber   RenumberConfig
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository, db *sql.DB, renumber RenumberConfig) ClientService {
	return &clientService{
		clientRepo: repo,
		db:         db,
		renumber:   renumber,
	}
}

// CreateClient validates and inserts a new client, then reads the row back so
// the caller sees authoritative stored values.
func (s *clientService) CreateClient(req CreateClientRequest) (*models.Client, error) {
	client, err := ValidateClientInput(req)
	if err != nil {
		return nil, err
	}

	id, err := s.clientRepo.CreateClient(s.db, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create client in repository: %w", err)
	}
	return s.clientRepo.GetClientByID(id)
}

func (s *clientService) GetClientByID(clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

// GetClients returns all clients ordered by id descending, most recently
// created first.
func (s *clientService) GetClients() ([]models.Client, error) {
	clients, err := s.clientRepo.GetClients()
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, nil
}

// UpdateClient re-validates every field exactly as create, replaces the row
// and reads it back. A same-values update reports ErrNoChanges.
func (s *clientService) UpdateClient(req UpdateClientRequest) (*models.Client, error) {
	clientID, err := req.ID.Int64()
	if err != nil || clientID <= 0 {
		return nil, validationError("Invalid client ID")
	}

	client, err := ValidateClientInput(req.CreateClientRequest)
	if err != nil {
		return nil, err
	}
	client.ID = clientID

	// Existence check first, so an absent row is NotFound rather than NoOp.
	if _, err := s.clientRepo.GetClientByID(clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client for update: %w", err)
	}

	rowsAffected, err := s.clientRepo.UpdateClient(s.db, client)
	if err != nil {
		return nil, fmt.Errorf("failed to update client in repository: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNoChanges
	}
	return s.clientRepo.GetClientByID(clientID)
}

// DeleteClients removes the given ids in one statement, then renumbers the
// surviving rows when the deletion is small enough. Renumbering failure never
// fails the deletion: ids are simply left with gaps.
func (s *clientService) DeleteClients(ids []int64) (*models.DeleteClientsResult, error) {
	deletedCount, err := s.clientRepo.DeleteClients(s.db, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to delete clients: %w", err)
	}
	if deletedCount == 0 {
		return nil, ErrNoClientsDeleted
	}

	result := &models.DeleteClientsResult{
		DeletedCount: deletedCount,
		Renumber:     models.RenumberOutcome{Status: models.RenumberIdle},
	}

	if deletedCount > int64(s.renumber.TriggerMax) {
		result.ReorderSkipped = true
		utils.LogInfo("Skipping ID reordering for large deletion", map[string]interface{}{
			"deleted_count": deletedCount,
		})
		return result, nil
	}

	rows, reorderErr := s.clientRepo.ReorderClientIDs(s.renumber.RowCap)
	switch {
	case reorderErr == nil:
		result.IDsReordered = true
		result.Renumber = models.RenumberOutcome{Status: models.RenumberCommitted, Rows: rows}
	case errors.Is(reorderErr, repositories.ErrReorderSkipped):
		result.Renumber = models.RenumberOutcome{Status: models.RenumberSkipped, Rows: rows}
		utils.LogInfo("ID reordering skipped: too many surviving rows", map[string]interface{}{
			"surviving_rows": rows,
			"row_cap":        s.renumber.RowCap,
		})
	default:
		result.Renumber = models.RenumberOutcome{Status: models.RenumberRolledBack}
		utils.LogError(reorderErr, "ID reordering failed, ids left with gaps")
	}
	return result, nil
}
