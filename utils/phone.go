// utils/phone.go
package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// PhoneDigits strips everything but digits.
func PhoneDigits(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// PhoneKey returns the canonical contact key for a phone number: digits only,
// with the Turkish country code made explicit so the three spellings of the
// same subscriber collapse to one key:
//
//	"0555 123 45 67"  -> "905551234567"
//	"+905551234567"   -> "905551234567"
//	"5551234567"      -> "905551234567"
//
// Numbers that fit none of the TR patterns keep their bare digits. An empty
// result means the entry has no resolvable phone and cannot be threaded.
func PhoneKey(phone string) string {
	digits := PhoneDigits(phone)
	if digits == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(digits, "90") && len(digits) >= 12:
		return digits
	case strings.HasPrefix(digits, "0") && len(digits) == 11:
		return "90" + digits[1:]
	case strings.HasPrefix(digits, "5") && len(digits) == 10:
		return "90" + digits
	}
	return digits
}

// FormatPhoneE164 returns the +-prefixed canonical form, or "" for no phone.
func FormatPhoneE164(phone string) string {
	key := PhoneKey(phone)
	if key == "" {
		return ""
	}
	return "+" + key
}

// FormatPhoneDisplay renders a phone for the operator UI: "+90 5XX XXX XXXX"
// for Turkish numbers, "+digits" otherwise.
func FormatPhoneDisplay(phone string) string {
	key := PhoneKey(phone)
	if key == "" {
		return ""
	}
	if len(key) == 12 && strings.HasPrefix(key, "90") {
		return "+90 " + key[2:5] + " " + key[5:8] + " " + key[8:]
	}
	return "+" + key
}

var phonePattern = regexp.MustCompile(`^\+?\d{7,15}$`)

// ValidatePhone checks whether a phone number is plausible after cleanup.
// Allows an optional + prefix followed by 7-15 digits.
func ValidatePhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	return phonePattern.MatchString(cleaned)
}
