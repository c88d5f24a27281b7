package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"visatrack_backend/internal/models"
	"visatrack_backend/pkg/utils"
)

// ValidationError reports the first failing input rule. Validation is
// fail-fast: the message names exactly one field and is user-visible verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CreateClientRequest carries the client fields accepted on create.
// Age is a json.Number so numeric strings from the form are tolerated; a
// non-numeric value fails validation rather than JSON binding.
type CreateClientRequest struct {
	Name           string      `json:"name"`
	Age            json.Number `json:"age"`
	Gender         string      `json:"gender"`
	Location       string      `json:"location"`
	VisaType       string      `json:"type"`
	DateOfBirth    string      `json:"dob"`
	Phone          string      `json:"phone"`
	ArrivalDate    string      `json:"arrival_date"`
	USArrivalDate  string      `json:"us_arrival_date"`
	VisaExpiryDate string      `json:"visa_expiry_date"`
	Note           string      `json:"note"`
}

// UpdateClientRequest is a full-record replace; id is immutable and only
// selects the row.
type UpdateClientRequest struct {
	ID json.Number `json:"id"`
	CreateClientRequest
}

func validationError(message string) error {
	return &ValidationError{Message: message}
}

// requiredFieldOrder fixes which missing field is reported first.
var requiredFieldOrder = []string{"name", "age", "gender", "location", "type"}

func containsValue(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// normalizeOptionalDate trims an optional date field and checks its format.
// Empty input normalizes to nil so the store holds NULL, not "".
func normalizeOptionalDate(field, value string) (*string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if _, err := time.Parse("2006-01-02", trimmed); err != nil {
		return nil, validationError(fmt.Sprintf("Invalid date format for '%s', please use YYYY-MM-DD", field))
	}
	return &trimmed, nil
}

// ValidateClientInput applies the panel's validation rules, fail-fast, and
// returns the normalized record (without id) ready for the store. The same
// rule set runs on create and update.
func ValidateClientInput(req CreateClientRequest) (*models.Client, error) {
	requiredValues := map[string]string{
		"name":     req.Name,
		"age":      req.Age.String(),
		"gender":   req.Gender,
		"location": req.Location,
		"type":     req.VisaType,
	}
	for _, field := range requiredFieldOrder {
		if utils.IsEmpty(requiredValues[field]) {
			return nil, validationError(fmt.Sprintf("Field '%s' is required", field))
		}
	}

	// Non-numeric ages fall through to the range message, same as the panel.
	age, err := req.Age.Int64()
	if err != nil || age < 1 || age > 120 {
		return nil, validationError("Age must be between 1 and 120")
	}

	gender := strings.TrimSpace(req.Gender)
	if !containsValue(models.ValidGenders, gender) {
		return nil, validationError("Invalid gender value")
	}

	visaType := strings.TrimSpace(req.VisaType)
	if !containsValue(models.ValidVisaTypes, visaType) {
		return nil, validationError("Invalid visa type")
	}

	dob, err := normalizeOptionalDate("dob", req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	arrivalDate, err := normalizeOptionalDate("arrival_date", req.ArrivalDate)
	if err != nil {
		return nil, err
	}
	usArrivalDate, err := normalizeOptionalDate("us_arrival_date", req.USArrivalDate)
	if err != nil {
		return nil, err
	}
	visaExpiryDate, err := normalizeOptionalDate("visa_expiry_date", req.VisaExpiryDate)
	if err != nil {
		return nil, err
	}

	return &models.Client{
		Name:           strings.TrimSpace(req.Name),
		Age:            int(age),
		Gender:         gender,
		Location:       strings.TrimSpace(req.Location),
		VisaType:       visaType,
		DateOfBirth:    dob,
		Phone:          utils.NewNullString(strings.TrimSpace(req.Phone)),
		ArrivalDate:    arrivalDate,
		USArrivalDate:  usArrivalDate,
		VisaExpiryDate: visaExpiryDate,
		Note:           utils.NewNullString(strings.TrimSpace(req.Note)),
	}, nil
}

// ParseClientIDs validates a bulk-delete id list. An empty list or any
// non-numeric entry rejects the entire batch before the store is touched.
// Entries arrive untyped because the panel sends ids as numbers or strings
// interchangeably.
func ParseClientIDs(raw []interface{}) ([]int64, error) {
	if len(raw) == 0 {
		return nil, validationError("No client IDs provided")
	}
	ids := make([]int64, 0, len(raw))
	for _, entry := range raw {
		id, ok := coerceID(entry)
		if !ok {
			return nil, validationError(fmt.Sprintf("Invalid client ID format: %v", entry))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func coerceID(entry interface{}) (int64, bool) {
	switch v := entry.(type) {
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case string:
		id, err := json.Number(strings.TrimSpace(v)).Int64()
		if err != nil {
			return 0, false
		}
		return id, true
	case json.Number:
		id, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}
