package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty(" \t "))
	assert.False(t, IsEmpty(" Rent "))
}

func TestIsValidEmail(t *testing.T) {
	for _, email := range []string{"jane@acme.test", "jane.doe+payroll@acme.co.ke"} {
		assert.True(t, IsValidEmail(email), email)
	}
	for _, email := range []string{"", "jane@", "@acme.test", "jane@acme", "jane@.test"} {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"123e4567-e89b-12d3-a456-426614174000", true},
		{"123E4567-E89B-12D3-A456-426614174000", true},
		{"123e4567e89b12d3a456426614174000", false},
		{"urn:uuid:123e4567-e89b-12d3-a456-426614174000", false},
		{"STAFMA0001", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidUUID(tt.id), tt.id)
	}
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("2024-01-31")
	assert.True(t, ok)
	assert.Equal(t, 31, date.Day())

	for _, s := range []string{"2024-02-30", "2024/01/01", "31-01-2024", ""} {
		_, ok := IsValidDate(s)
		assert.False(t, ok, s)
	}
}

func TestPeriodBounds(t *testing.T) {
	assert.True(t, IsValidMonth(1))
	assert.True(t, IsValidMonth(12))
	assert.False(t, IsValidMonth(0))
	assert.False(t, IsValidMonth(13))

	assert.True(t, IsValidYear(2024))
	assert.False(t, IsValidYear(1999))
}

func TestIsInSlice(t *testing.T) {
	statuses := []string{"approved", "rejected"}
	assert.True(t, IsInSlice("approved", statuses))
	assert.False(t, IsInSlice("pending", statuses))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "amount", Message: "must be positive"},
		{Field: "reason", Message: "is required"},
	}

	assert.EqualError(t, errs, "amount: must be positive; reason: is required")
	assert.Equal(t, map[string]string{
		"amount": "must be positive",
		"reason": "is required",
	}, errs.ToMap())
}
