// utils/profiles.go
package utils

// Booking links historically carried single-letter profile codes; newer
// records store the full key. Both forms coexist in persisted flow rows.
var profileKeys = map[string]string{
	"g": "general",
	"w": "walk-in",
	"b": "boutique",
	"m": "management",
	"s": "individual",
	"v": "vip",
}

var profileCodes = map[string]string{}

// Turkish display labels for the admin panel.
var profileLabels = map[string]string{
	"general":    "Genel",
	"walk-in":    "Walk-in",
	"boutique":   "Mağaza",
	"management": "Yönetim",
	"individual": "Bireysel",
	"vip":        "Özel Müşteri",
}

func init() {
	for code, key := range profileKeys {
		profileCodes[key] = code
	}
}

// NormalizeProfile maps a legacy short code to its profile key. Already
// normalized or unknown values pass through unchanged, so normalization is
// idempotent and unknown profiles simply never match a flow.
func NormalizeProfile(code string) string {
	if key, ok := profileKeys[code]; ok {
		return key
	}
	return code
}

// ProfileCode returns the legacy short code for a profile key, or the input
// unchanged when no code exists.
func ProfileCode(key string) string {
	if code, ok := profileCodes[key]; ok {
		return code
	}
	return key
}

// ProfileLabel returns the display label for a profile key or code.
func ProfileLabel(key string) string {
	normalized := NormalizeProfile(key)
	if label, ok := profileLabels[normalized]; ok {
		return label
	}
	return normalized
}

// ProfileKeys lists all known profile keys.
func ProfileKeys() []string {
	return []string{"general", "walk-in", "boutique", "management", "individual", "vip"}
}
