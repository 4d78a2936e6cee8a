package utils

import (
	"time"
)

// ISO_TIMESTAMP is the single serializable timestamp representation used in
// stored records and API payloads.
const ISO_TIMESTAMP = "2006-01-02T15:04:05.000Z07:00"

var dateFormats = []string{
	ISO_TIMESTAMP,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func IsValidDate(dateStr string) bool {
	_, ok := ParseDate(dateStr)
	return ok
}

func ParseDate(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// FormatISO renders t in UTC with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISO_TIMESTAMP)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last instant of t's day in t's location.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
