package parser

import (
	"fmt"
	"time"
)

// isoLayouts are the accepted shapes of an ISO-8601 offset date-time.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// Civil drops the location of t and keeps its wall clock, second precision.
// Two civil times compare as local-to-log date-times.
func Civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// ParseISO parses an ISO-8601 offset date-time such as
// 2015-05-17T00:00:00+00:00 and returns its civil wall-clock time.
// The offset is parsed and then discarded.
func ParseISO(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return Civil(t), nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parsing ISO-8601 date-time %q: %w", value, lastErr)
}

// FormatCivil renders a civil time in its textual ISO form. Zero seconds
// are omitted: 2015-05-17T00:00, 2015-05-17T23:59:59.
func FormatCivil(t time.Time) string {
	if t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02T15:04")
	}
	return t.Format("2006-01-02T15:04:05")
}
