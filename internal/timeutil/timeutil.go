package timeutil

import "time"

// DateLayout is the backup date key format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date key in UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// Today returns the UTC date key for t.
func Today(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// RetentionCutoff is midnight UTC of the day retentionDays before now.
// Date keys strictly before it are expired.
func RetentionCutoff(now time.Time, retentionDays int) time.Time {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.AddDate(0, 0, -retentionDays)
}

// Expired reports whether the date key falls before the retention window.
// Keys that do not parse are never expired.
func Expired(date string, now time.Time, retentionDays int) bool {
	parsed, err := ParseDate(date)
	if err != nil {
		return false
	}
	return parsed.Before(RetentionCutoff(now, retentionDays))
}
