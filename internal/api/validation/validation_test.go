package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"valid_simple", "user@example.com", true},
		{"valid_subdomain", "user@mail.example.com", true},
		{"valid_plus", "user+tag@example.com", true},
		{"valid_dash", "user-name@example.com", true},
		{"invalid_no_at", "userexample.com", false},
		{"invalid_no_domain", "user@", false},
		{"invalid_no_user", "@example.com", false},
		{"invalid_spaces", "user @example.com", false},
		{"invalid_no_tld", "user@example", false},
		{"too_long", "a" + string(make([]byte, 250)) + "@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidEmail(tt.email)
			assert.Equal(t, tt.valid, result, "Email: %s", tt.email)
		})
	}
}

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		name  string
		uuid  string
		valid bool
	}{
		{"valid_uuid", "550e8400-e29b-41d4-a716-446655440000", true},
		{"valid_uppercase", "550E8400-E29B-41D4-A716-446655440000", true},
		{"invalid_short", "550e8400-e29b-41d4-a716", false},
		{"invalid_no_dashes", "550e8400e29b41d4a716446655440000", false},
		{"invalid_letters", "ggge8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidUUID(tt.uuid))
		})
	}
}

func TestIsValidTimeOfDay(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"00:00", true},
		{"09:30", true},
		{"23:59", true},
		{"24:00", false},
		{"9:30", false},
		{"09:60", false},
		{"0930", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidTimeOfDay(tt.value))
		})
	}
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("2025-01-06"))
	assert.False(t, IsValidDate("01-06-2025"))
	assert.False(t, IsValidDate("2025-1-6"))
	assert.False(t, IsValidDate("tomorrow"))
}

func TestIsValidFrequency(t *testing.T) {
	for _, f := range []string{"daily", "2x_daily", "3x_daily", "every_other_day", "weekly", "specific_days", "custom"} {
		assert.True(t, IsValidFrequency(f), f)
	}
	assert.False(t, IsValidFrequency("fortnightly"))
	assert.False(t, IsValidFrequency(""))
}

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid", "Sup3rSecret", true},
		{"too_short", "Ab1", false},
		{"no_upper", "sup3rsecret", false},
		{"no_lower", "SUP3RSECRET", false},
		{"no_number", "SuperSecret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, _ := IsValidPassword(tt.password)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "gate code 1234", SanitizeString("gate code 1234\x00"))
	assert.Equal(t, "line1\nline2", SanitizeString("line1\nline2"))
	assert.Equal(t, "ab", SanitizeString("a\x1bb"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abc", 10))
	assert.Equal(t, "abc", TruncateString("abcdef", 3))
}
