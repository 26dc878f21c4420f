// utils/flexible.go
package utils

import (
	"encoding/json"
	"strings"
)

// Flow and template rows were written by several client generations: list
// fields may be native arrays or JSON-encoded strings, booleans may be native
// or the strings "true"/"TRUE"/"false". All reads of such fields go through
// these two helpers so the permissive-parsing policy lives in one place.

// FlexibleList decodes a list field from any of its stored forms. A value
// that cannot be interpreted yields def; a malformed row must not abort
// processing of the rest of the batch.
func FlexibleList(value interface{}, def []string) []string {
	switch v := value.(type) {
	case nil:
		return def
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return def
		}
		var out []string
		if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
			return out
		}
		// doubly encoded: a JSON string containing a JSON array
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err == nil {
			if err := json.Unmarshal([]byte(inner), &out); err == nil {
				return out
			}
		}
		return def
	default:
		return def
	}
}

// FlexibleBool reports whether a stored active flag is truthy. The truth set
// is exactly {true, "true", "TRUE"}; everything else, including a missing
// value, is false. Permissive toward true, never toward false.
func FlexibleBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "TRUE"
	default:
		return false
	}
}

// EncodeList is the canonical stored form for list fields: a JSON array
// string. Older rows keep whatever shape they were written with; new writes
// always use this one.
func EncodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

// EncodeBool is the canonical stored form for active flags.
func EncodeBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// EncodeMap is the canonical stored form for JSON object fields.
func EncodeMap(m map[string]string) string {
	if m == nil {
		m = map[string]string{}
	}
	b, _ := json.Marshal(m)
	return string(b)
}

// FlexibleMap decodes a JSON object field stored as a string, returning an
// empty map for anything unparsable.
func FlexibleMap(value string) map[string]string {
	out := map[string]string{}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return out
	}
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return map[string]string{}
	}
	return out
}
