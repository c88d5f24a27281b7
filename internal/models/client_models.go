package models

// ValidGenders enumerates the accepted gender values.
var ValidGenders = []string{"Male", "Female", "Other"}

// ValidVisaTypes enumerates the accepted visa type values.
var ValidVisaTypes = []string{"H1B", "F1", "L1", "O1", "J1"}

// Client represents a visa-sponsored client record.
// Date fields are stored as YYYY-MM-DD strings; optional fields are nil when
// absent so they serialize as explicit JSON nulls.
type Client struct {
	ID             int64   `json:"id" db:"id"`
	Name           string  `json:"name" db:"name"`
	Age            int     `json:"age" db:"age"`
	Gender         string  `json:"gender" db:"gender"`
	Location       string  `json:"location" db:"location"`
	VisaType       string  `json:"type" db:"type"`
	DateOfBirth    *string `json:"dob" db:"dob"`
	Phone          *string `json:"phone" db:"phone"`
	ArrivalDate    *string `json:"arrival_date" db:"arrival_date"`
	USArrivalDate  *string `json:"us_arrival_date" db:"us_arrival_date"`
	VisaExpiryDate *string `json:"visa_expiry_date" db:"visa_expiry_date"`
	Note           *string `json:"note" db:"note"`
}

// RenumberStatus tracks the id-renumbering procedure through its states.
type RenumberStatus string

const (
	// RenumberIdle means the procedure was not attempted for this deletion.
	RenumberIdle RenumberStatus = "idle"
	// RenumberCommitted means every surviving row now holds an id in 1..N.
	RenumberCommitted RenumberStatus = "committed"
	// RenumberSkipped means the surviving-row safety cap aborted the rewrite.
	RenumberSkipped RenumberStatus = "skipped"
	// RenumberRolledBack means a store failure forced a full rollback.
	RenumberRolledBack RenumberStatus = "rolled_back"
)

// RenumberOutcome reports how a renumbering run ended.
// Rows is the surviving row count observed inside the transaction.
type RenumberOutcome struct {
	Status RenumberStatus
	Rows   int
}

// DeleteClientsResult is the outcome of a bulk client deletion.
// The renumbering flags mirror the panel's contract: IDsReordered is true only
// when renumbering ran and committed, ReorderSkipped only when the deletion was
// too large to attempt it at all.
type DeleteClientsResult struct {
	DeletedCount   int64           `json:"deletedCount"`
	IDsReordered   bool            `json:"idsReordered"`
	ReorderSkipped bool            `json:"reorderSkipped"`
	Renumber       RenumberOutcome `json:"-"`
}
