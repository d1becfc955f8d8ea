package handlers

import (
	"errors"
	"time"

	"github.com/BruksfildServices01/gym-manager/internal/timezone"
)

var errInvalidTime = errors.New("invalid time")

// Accepted layouts for timestamps in request bodies and query strings.
// Layouts without an offset are read in the gym timezone.
var localLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseDateInGym(dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, timezone.Gym())
}

// parseTimestamp reads RFC 3339 or a local wall clock time in the gym timezone.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, timezone.Gym()); err == nil {
			return t, nil
		}
	}
	if t, err := parseDateInGym(s); err == nil {
		return t, nil
	}
	return time.Time{}, errInvalidTime
}

// parseOptionalTimestamp returns nil for an empty string.
func parseOptionalTimestamp(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
