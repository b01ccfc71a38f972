package utils

import (
	"fmt"
	"strings"
	"time"
)

// storedLayouts are the timestamp shapes we may find in the database or the
// journal: RFC3339 from the Go writers, plain "YYYY-MM-DD HH:MM:SS" from
// imported legacy rows.
var storedLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// DisplayLocation builds a fixed-offset location for presentation times.
func DisplayLocation(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}

// ClockString formats an instant as a local "HH:MM" display string.
// A zero instant (corrupt or missing stored value) degrades to a placeholder
// instead of failing the caller.
func ClockString(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "00:00"
	}
	return t.In(loc).Format("15:04")
}

// ClockFromRaw parses a raw stored timestamp string and renders it as a local
// "HH:MM" string. Unparseable values fall back to extracting the clock part
// of the string directly, and finally to a placeholder, so one corrupt row
// never aborts a listing.
func ClockFromRaw(raw string, loc *time.Location) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "00:00"
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return ClockString(t, loc)
	}

	// Strip fractional seconds, normalise a trailing Z.
	cleaned := raw
	if i := strings.IndexByte(cleaned, '.'); i > 0 {
		cleaned = cleaned[:i]
	}
	cleaned = strings.TrimSuffix(cleaned, "Z")

	for _, layout := range storedLayouts {
		layout = strings.TrimSuffix(layout, "Z07:00")
		if t, err := time.ParseInLocation(layout, cleaned, time.UTC); err == nil {
			return ClockString(t, loc)
		}
	}

	// Best effort: "YYYY-MM-DD HH:MM:SS" -> "HH:MM"
	if len(raw) >= 16 && (raw[10] == ' ' || raw[10] == 'T') {
		return raw[11:16]
	}

	return "00:00"
}
