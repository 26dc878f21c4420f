// services/render_service.go
package services

import (
	"regexp"
	"strconv"
	"strings"

	"boutique-backend/models"
)

// Older sends logged the ordered substitution values joined with " | "
// instead of the final rendered text. Current template definitions are used
// to reconstruct those bodies for display.
const legacyParamDelimiter = " | "

var placeholderPattern = regexp.MustCompile(`\{\{(\d+)\}\}`)

// TemplateLookup finds a template by its logged name, returning the body
// content and the position -> variable-key map.
type TemplateLookup func(name string) (content string, variables map[string]string, ok bool)

// RenderMessage reconstructs the human-viewable body of a logged message.
// It never fails: every malformed input degrades toward the most literal
// available content.
func RenderMessage(entry models.MessageLog, lookup TemplateLookup) string {
	// Incoming text has no template to resolve against.
	if entry.Direction == models.DirectionIncoming {
		if entry.MessageContent == "" {
			return "[Mesaj içeriği yok]"
		}
		return entry.MessageContent
	}

	// No template reference: content is already final.
	if entry.TemplateName == "" {
		return entry.MessageContent
	}

	content, variables, ok := lookupTemplate(entry.TemplateName, lookup)
	if !ok || content == "" {
		if entry.MessageContent != "" {
			return entry.MessageContent
		}
		return "[Şablon: " + entry.TemplateName + "]"
	}

	if looksLikeLegacyParams(entry.MessageContent) {
		return substituteParams(content, strings.Split(entry.MessageContent, legacyParamDelimiter))
	}

	// Already resolved, or template-shaped. Placeholders still present are
	// shown as bracketed variable labels, a preview rather than an actual send.
	source := entry.MessageContent
	if source == "" {
		source = content
	}
	return substituteLabels(source, variables)
}

// looksLikeLegacyParams applies the legacy-format heuristic: splitting on the
// delimiter yields two or more segments, so the content is an ordered
// parameter list. Log rows carry no format tag, so this stays a heuristic; a
// future version field should short-circuit it here.
func looksLikeLegacyParams(content string) bool {
	return strings.Contains(content, legacyParamDelimiter)
}

// substituteParams fills {{1}}, {{2}}, ... with the ordered parameters,
// leaving placeholders with no supplied parameter unresolved.
func substituteParams(content string, params []string) string {
	return placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		pos, err := strconv.Atoi(placeholderPattern.FindStringSubmatch(match)[1])
		if err != nil || pos < 1 || pos > len(params) {
			return match
		}
		return params[pos-1]
	})
}

// substituteLabels replaces each numbered placeholder with a bracketed
// variable label from the template's variables map, falling back to the raw
// variable key when the catalog has no label for it. Positions absent from
// the map stay as they are.
func substituteLabels(content string, variables map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		pos := placeholderPattern.FindStringSubmatch(match)[1]
		key, ok := variables[pos]
		if !ok || key == "" {
			return match
		}
		return "[" + VariableLabel(key) + "]"
	})
}

// PreviewTemplate renders a template body with bracketed variable labels in
// place of real values, for the template editor.
func PreviewTemplate(content string, variables map[string]string) string {
	return substituteLabels(content, variables)
}

// lookupTemplate guards against nil lookups so callers without a template
// store still degrade correctly.
func lookupTemplate(name string, lookup TemplateLookup) (string, map[string]string, bool) {
	if lookup == nil {
		return "", nil, false
	}
	return lookup(name)
}

// RenderTemplate fills a template body with actual values for an outgoing
// send: each placeholder position resolves through its variable key against
// the appointment data.
func RenderTemplate(content string, variables map[string]string, appt models.Appointment) string {
	return placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		pos := placeholderPattern.FindStringSubmatch(match)[1]
		key, ok := variables[pos]
		if !ok || key == "" {
			return match
		}
		return VariableValue(key, appt)
	})
}

// OrderedParams extracts the substitution values for a template in placeholder
// order, one entry per position from 1 to the highest mapped position.
func OrderedParams(variables map[string]string, appt models.Appointment) []string {
	max := 0
	for pos := range variables {
		if n, err := strconv.Atoi(pos); err == nil && n > max {
			max = n
		}
	}
	params := make([]string, 0, max)
	for i := 1; i <= max; i++ {
		key := variables[strconv.Itoa(i)]
		value := VariableValue(key, appt)
		if value == "" {
			value = "-"
		}
		params = append(params, value)
	}
	return params
}

