package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() CreateClientRequest {
	return CreateClientRequest{
		Name:     "Jane Doe",
		Age:      json.Number("29"),
		Gender:   "Female",
		Location: "Yangon",
		VisaType: "F1",
	}
}

func TestValidateClientInputValid(t *testing.T) {
	client, err := ValidateClientInput(validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", client.Name)
	assert.Equal(t, 29, client.Age)
	assert.Equal(t, "Female", client.Gender)
	assert.Equal(t, "Yangon", client.Location)
	assert.Equal(t, "F1", client.VisaType)

	// Absent optional fields normalize to NULL, not empty string.
	assert.Nil(t, client.DateOfBirth)
	assert.Nil(t, client.Phone)
	assert.Nil(t, client.ArrivalDate)
	assert.Nil(t, client.USArrivalDate)
	assert.Nil(t, client.VisaExpiryDate)
	assert.Nil(t, client.Note)
}

func TestValidateClientInputRequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*CreateClientRequest)
		message string
	}{
		{"missing name", func(r *CreateClientRequest) { r.Name = "" }, "Field 'name' is required"},
		{"blank name", func(r *CreateClientRequest) { r.Name = "   " }, "Field 'name' is required"},
		{"missing age", func(r *CreateClientRequest) { r.Age = "" }, "Field 'age' is required"},
		{"missing gender", func(r *CreateClientRequest) { r.Gender = "" }, "Field 'gender' is required"},
		{"missing location", func(r *CreateClientRequest) { r.Location = "" }, "Field 'location' is required"},
		{"missing type", func(r *CreateClientRequest) { r.VisaType = "" }, "Field 'type' is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)

			_, err := ValidateClientInput(req)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.message, vErr.Message)
		})
	}
}

func TestValidateClientInputFailsFastOnFirstField(t *testing.T) {
	req := validCreateRequest()
	req.Name = ""
	req.Gender = "bogus"

	_, err := ValidateClientInput(req)
	require.Error(t, err)
	assert.Equal(t, "Field 'name' is required", err.Error())
}

func TestValidateClientInputAgeBounds(t *testing.T) {
	for _, age := range []string{"0", "-5", "121", "1000", "abc", "12.5"} {
		req := validCreateRequest()
		req.Age = json.Number(age)

		_, err := ValidateClientInput(req)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, "age %s should be rejected", age)
		assert.Equal(t, "Age must be between 1 and 120", vErr.Message)
	}

	for _, age := range []string{"1", "120", "29"} {
		req := validCreateRequest()
		req.Age = json.Number(age)

		_, err := ValidateClientInput(req)
		assert.NoError(t, err, "age %s should be accepted", age)
	}
}

func TestValidateClientInputGenderEnum(t *testing.T) {
	// Case-sensitive exact match.
	for _, gender := range []string{"male", "FEMALE", "unknown", "M"} {
		req := validCreateRequest()
		req.Gender = gender

		_, err := ValidateClientInput(req)
		require.Error(t, err, "gender %q should be rejected", gender)
		assert.Equal(t, "Invalid gender value", err.Error())
	}

	for _, gender := range []string{"Male", "Female", "Other"} {
		req := validCreateRequest()
		req.Gender = gender
		_, err := ValidateClientInput(req)
		assert.NoError(t, err)
	}
}

func TestValidateClientInputVisaTypeEnum(t *testing.T) {
	for _, visaType := range []string{"B2", "h1b", "H-1B", "F2"} {
		req := validCreateRequest()
		req.VisaType = visaType

		_, err := ValidateClientInput(req)
		require.Error(t, err, "visa type %q should be rejected", visaType)
		assert.Equal(t, "Invalid visa type", err.Error())
	}

	for _, visaType := range []string{"H1B", "F1", "L1", "O1", "J1"} {
		req := validCreateRequest()
		req.VisaType = visaType
		_, err := ValidateClientInput(req)
		assert.NoError(t, err)
	}
}

func TestValidateClientInputOptionalFields(t *testing.T) {
	req := validCreateRequest()
	req.DateOfBirth = "1996-03-14"
	req.Phone = "  +95 9 123456  "
	req.Note = "prefers email"

	client, err := ValidateClientInput(req)
	require.NoError(t, err)
	require.NotNil(t, client.DateOfBirth)
	assert.Equal(t, "1996-03-14", *client.DateOfBirth)
	require.NotNil(t, client.Phone)
	assert.Equal(t, "+95 9 123456", *client.Phone)
	require.NotNil(t, client.Note)
	assert.Equal(t, "prefers email", *client.Note)
}

func TestValidateClientInputDateFormat(t *testing.T) {
	for _, bad := range []string{"14-03-1996", "1996/03/14", "not-a-date", "1996-13-40"} {
		req := validCreateRequest()
		req.DateOfBirth = bad

		_, err := ValidateClientInput(req)
		require.Error(t, err, "dob %q should be rejected", bad)
		assert.Equal(t, "Invalid date format for 'dob', please use YYYY-MM-DD", err.Error())
	}
}

func TestParseClientIDs(t *testing.T) {
	t.Run("empty list rejected", func(t *testing.T) {
		_, err := ParseClientIDs(nil)
		require.Error(t, err)
		assert.Equal(t, "No client IDs provided", err.Error())
	})

	t.Run("non-numeric id aborts entire batch", func(t *testing.T) {
		_, err := ParseClientIDs([]interface{}{float64(1), "abc", float64(3)})
		require.Error(t, err)
		assert.Equal(t, "Invalid client ID format: abc", err.Error())
	})

	t.Run("fractional id rejected", func(t *testing.T) {
		_, err := ParseClientIDs([]interface{}{2.5})
		require.Error(t, err)
	})

	t.Run("numbers and numeric strings accepted", func(t *testing.T) {
		ids, err := ParseClientIDs([]interface{}{float64(2), "4", json.Number("5")})
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 4, 5}, ids)
	})
}
