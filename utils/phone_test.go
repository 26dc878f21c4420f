// utils/phone_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"national format with leading zero", "0555 123 45 67", "905551234567"},
		{"international with plus", "+905551234567", "905551234567"},
		{"bare mobile", "5551234567", "905551234567"},
		{"already canonical", "905551234567", "905551234567"},
		{"formatted with punctuation", "+90 (555) 123-45-67", "905551234567"},
		{"foreign number keeps digits", "+4915712345678", "4915712345678"},
		{"empty", "", ""},
		{"no digits", "ara beni", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PhoneKey(tt.input))
		})
	}
}

func TestPhoneKey_EquivalentSpellingsCollapse(t *testing.T) {
	spellings := []string{"0555 123 45 67", "+905551234567", "5551234567", "905551234567"}
	want := PhoneKey(spellings[0])
	for _, s := range spellings[1:] {
		assert.Equal(t, want, PhoneKey(s), "spelling %q must share the canonical key", s)
	}
}

func TestFormatPhoneE164(t *testing.T) {
	assert.Equal(t, "+905551234567", FormatPhoneE164("0555 123 45 67"))
	assert.Equal(t, "", FormatPhoneE164(""))
}

func TestFormatPhoneDisplay(t *testing.T) {
	assert.Equal(t, "+90 555 123 4567", FormatPhoneDisplay("05551234567"))
	assert.Equal(t, "+4915712345678", FormatPhoneDisplay("+49 157 12345678"))
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+90 555 123 45 67"))
	assert.True(t, ValidatePhone("05551234567"))
	assert.True(t, ValidatePhone("(555) 123-4567"))
	assert.False(t, ValidatePhone(""))
	assert.False(t, ValidatePhone("123"))
	assert.False(t, ValidatePhone("phone"))
	assert.False(t, ValidatePhone("12345678901234567890"))
}
