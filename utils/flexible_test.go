// utils/flexible_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlexibleList(t *testing.T) {
	def := []string{"fallback"}

	tests := []struct {
		name     string
		input    interface{}
		expected []string
	}{
		{"nil yields default", nil, def},
		{"native string slice", []string{"a", "b"}, []string{"a", "b"}},
		{"interface slice from JSON decode", []interface{}{"a", "b"}, []string{"a", "b"}},
		{"JSON array string", `["g","v"]`, []string{"g", "v"}},
		{"doubly encoded array", `"[\"g\",\"v\"]"`, []string{"g", "v"}},
		{"empty string yields default", "", def},
		{"whitespace yields default", "   ", def},
		{"malformed JSON yields default", `[not json`, def},
		{"JSON object yields default", `{"a":1}`, def},
		{"number yields default", 42, def},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FlexibleList(tt.input, def))
		})
	}
}

func TestFlexibleList_SkipsNonStringItems(t *testing.T) {
	got := FlexibleList([]interface{}{"a", 1, "b", nil}, nil)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestFlexibleBool(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected bool
	}{
		{"native true", true, true},
		{"native false", false, false},
		{"lowercase true", "true", true},
		{"uppercase TRUE", "TRUE", true},
		{"mixed case is not truthy", "True", false},
		{"false string", "false", false},
		{"yes is not truthy", "yes", false},
		{"one is not truthy", "1", false},
		{"nil is false", nil, false},
		{"empty string is false", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FlexibleBool(tt.input))
		})
	}
}

func TestEncodeList_ReadableByFlexibleList(t *testing.T) {
	stored := EncodeList([]string{"g", "vip"})
	assert.Equal(t, []string{"g", "vip"}, FlexibleList(stored, nil))

	assert.Equal(t, "[]", EncodeList(nil))
}

func TestFlexibleMap(t *testing.T) {
	assert.Equal(t, map[string]string{"1": "musteri"}, FlexibleMap(`{"1":"musteri"}`))
	assert.Empty(t, FlexibleMap(""))
	assert.Empty(t, FlexibleMap("not json"))

	stored := EncodeMap(map[string]string{"2": "randevu_saati"})
	assert.Equal(t, map[string]string{"2": "randevu_saati"}, FlexibleMap(stored))
}
