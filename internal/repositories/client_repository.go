package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"visatrack_backend/internal/models"

	"github.com/lib/pq"
)

// ClientRepository defines the interface for client-related database operations.
type ClientRepository interface {
	CreateClient(executor SQLExecutor, client *models.Client) (int64, error)
	GetClientByID(id int64) (*models.Client, error)
	GetClients() ([]models.Client, error)
	UpdateClient(executor SQLExecutor, client *models.Client) (int64, error)
	DeleteClients(executor SQLExecutor, ids []int64) (int64, error)
	ReorderClientIDs(maxRows int) (int, error)
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, name, age, gender, location, type, dob, phone, arrival_date, us_arrival_date, visa_expiry_date, note`

// dateToString formats a nullable DATE column as YYYY-MM-DD.
func dateToString(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.Format("2006-01-02")
	return &s
}

func scanClient(row interface{ Scan(dest ...interface{}) error }) (*models.Client, error) {
	client := &models.Client{}
	var dob, arrival, usArrival, visaExpiry sql.NullTime
	err := row.Scan(
		&client.ID, &client.Name, &client.Age, &client.Gender, &client.Location, &client.VisaType,
		&dob, &client.Phone, &arrival, &usArrival, &visaExpiry, &client.Note,
	)
	if err != nil {
		return nil, err
	}
	client.DateOfBirth = dateToString(dob)
	client.ArrivalDate = dateToString(arrival)
	client.USArrivalDate = dateToString(usArrival)
	client.VisaExpiryDate = dateToString(visaExpiry)
	return client, nil
}

// CreateClient inserts a new client row and returns the id assigned by the store.
func (r *clientRepository) CreateClient(executor SQLExecutor, client *models.Client) (int64, error) {
	query := `INSERT INTO clients (name, age, gender, location, type, dob, phone, arrival_date, us_arrival_date, visa_expiry_date, note)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`

	err := executor.QueryRow(query,
		client.Name, client.Age, client.Gender, client.Location, client.VisaType,
		client.DateOfBirth, client.Phone, client.ArrivalDate, client.USArrivalDate,
		client.VisaExpiryDate, client.Note,
	).Scan(&client.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating client: %v", ErrDatabaseError, err)
	}
	return client.ID, nil
}

// GetClientByID retrieves a client by id.
func (r *clientRepository) GetClientByID(id int64) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	client, err := scanClient(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %d: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// GetClients retrieves all clients ordered by id descending. The ordering is a
// contract: the panel derives its countdown display id from list position.
func (r *clientRepository) GetClients() ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY id DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, *client)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// UpdateClient replaces all mutable fields of an existing client. It returns
// the number of rows changed: 0 means the row is either absent or the update
// left every field identical (the caller distinguishes the two).
func (r *clientRepository) UpdateClient(executor SQLExecutor, client *models.Client) (int64, error) {
	// IS DISTINCT FROM keeps the "no changes were made" outcome observable:
	// a same-values update matches zero rows instead of reporting success.
	query := `UPDATE clients SET
	            name = $1, age = $2, gender = $3, location = $4, type = $5,
	            dob = $6, phone = $7, arrival_date = $8, us_arrival_date = $9,
	            visa_expiry_date = $10, note = $11
	          WHERE id = $12
	            AND (name, age, gender, location, type, dob, phone, arrival_date, us_arrival_date, visa_expiry_date, note)
	                IS DISTINCT FROM
	                ($1, $2, $3, $4, $5, $6::date, $7, $8::date, $9::date, $10::date, $11)`

	result, err := executor.Exec(query,
		client.Name, client.Age, client.Gender, client.Location, client.VisaType,
		client.DateOfBirth, client.Phone, client.ArrivalDate, client.USArrivalDate,
		client.VisaExpiryDate, client.Note, client.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: updating client ID %d: %v", ErrDatabaseError, client.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for updating client ID %d: %v", ErrDatabaseError, client.ID, err)
	}
	return rowsAffected, nil
}

// DeleteClients removes all matching rows in one statement and reports the
// count actually removed, which may be less than requested.
func (r *clientRepository) DeleteClients(executor SQLExecutor, ids []int64) (int64, error) {
	query := `DELETE FROM clients WHERE id = ANY($1)`
	result, err := executor.Exec(query, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("%w: deleting clients: %v", ErrDatabaseError, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting clients: %v", ErrDatabaseError, err)
	}
	return rowsAffected, nil
}

// ReorderClientIDs rewrites the clients table so ids form a contiguous 1..N
// sequence, preserving relative order by current id ascending. The whole
// rewrite runs in one transaction: a concurrent reader sees either the old id
// set or the fully-renumbered one, never a mix.
//
// Returns the surviving row count. If that count exceeds maxRows the procedure
// rolls back, leaves original ids untouched and returns ErrReorderSkipped.
func (r *clientRepository) ReorderClientIDs(maxRows int) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("%w: beginning reorder transaction: %v", ErrDatabaseError, err)
	}
	// Rollback is a no-op once the transaction commits.
	defer tx.Rollback()

	// SET LOCAL scopes the override to this transaction, so referential
	// integrity triggers are restored on every exit path, commit or rollback.
	if _, err := tx.Exec(`SET LOCAL session_replication_role = 'replica'`); err != nil {
		return 0, fmt.Errorf("%w: disabling integrity checks for reorder: %v", ErrDatabaseError, err)
	}

	rows, err := tx.Query(`SELECT ` + clientColumns + ` FROM clients ORDER BY id ASC`)
	if err != nil {
		return 0, fmt.Errorf("%w: reading clients for reorder: %v", ErrDatabaseError, err)
	}

	clients := []models.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			rows.Close()
			return 0, fmt.Errorf("%w: scanning client for reorder: %v", ErrDatabaseError, err)
		}
		clients = append(clients, *client)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("%w: iterating clients for reorder: %v", ErrDatabaseError, err)
	}
	rows.Close()

	if len(clients) > maxRows {
		return len(clients), ErrReorderSkipped
	}

	if len(clients) == 0 {
		// Nothing to rewrite; still reset the generator so the next insert is id 1.
		if _, err := tx.Exec(`ALTER SEQUENCE clients_id_seq RESTART WITH 1`); err != nil {
			return 0, fmt.Errorf("%w: resetting client id sequence: %v", ErrDatabaseError, err)
		}
		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("%w: committing reorder: %v", ErrDatabaseError, err)
		}
		return 0, nil
	}

	if _, err := tx.Exec(`DELETE FROM clients`); err != nil {
		return 0, fmt.Errorf("%w: clearing clients table for reorder: %v", ErrDatabaseError, err)
	}
	if _, err := tx.Exec(`ALTER SEQUENCE clients_id_seq RESTART WITH 1`); err != nil {
		return 0, fmt.Errorf("%w: resetting client id sequence: %v", ErrDatabaseError, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO clients (name, age, gender, location, type, dob, phone, arrival_date, us_arrival_date, visa_expiry_date, note)
	                         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`)
	if err != nil {
		return 0, fmt.Errorf("%w: preparing reorder insert: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	// Re-insert in captured order; the store assigns ids 1..N in that order.
	for _, client := range clients {
		if _, err := stmt.Exec(
			client.Name, client.Age, client.Gender, client.Location, client.VisaType,
			client.DateOfBirth, client.Phone, client.ArrivalDate, client.USArrivalDate,
			client.VisaExpiryDate, client.Note,
		); err != nil {
			return 0, fmt.Errorf("%w: re-inserting client during reorder: %v", ErrDatabaseError, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: committing reorder: %v", ErrDatabaseError, err)
	}
	return len(clients), nil
}
