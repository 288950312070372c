// Package dates converts the date strings that reach the engine into
// canonical calendar days.  A date-only string such as "2024-03-15" is
// anchored to local noon before anything else looks at it, so a host zone
// offset can never move it to the neighbouring day the way a UTC-midnight
// interpretation does.  Every component compares days through this
// package.
package dates

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/iliyamo/rental-booking/internal/apperror"
)

// Layout is the wire format of a calendar day.
const Layout = "2006-01-02"

// isoLayouts are accepted for strings carrying a time component.  The
// first layout carries its own offset; the others are read in the
// configured location.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Normalize parses s into an instant.  Date-only input yields that day at
// 12:00 in loc; input containing a 'T' is parsed as an ISO timestamp and
// expressed in loc.  Empty or malformed input is a validation error; the
// current time is never substituted.
func Normalize(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperror.Validation("date is required")
	}
	if strings.Contains(s, "T") {
		for i, layout := range isoLayouts {
			var (
				t   time.Time
				err error
			)
			if i == 0 {
				t, err = time.Parse(layout, s)
			} else {
				t, err = time.ParseInLocation(layout, s, loc)
			}
			if err == nil {
				return t.In(loc), nil
			}
		}
		return time.Time{}, apperror.Validation("invalid timestamp %q", s)
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return time.Time{}, apperror.Wrap(apperror.KindValidation, err, "invalid date "+quote(s))
	}
	return Noon(d, loc), nil
}

// ParseDay normalizes s and truncates the result to its calendar day.
func ParseDay(s string, loc *time.Location) (civil.Date, error) {
	t, err := Normalize(s, loc)
	if err != nil {
		return civil.Date{}, err
	}
	return civil.DateOf(t), nil
}

// Noon returns d at 12:00 in loc.
func Noon(d civil.Date, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, loc)
}

// DayOf returns the calendar day of t as seen in loc.
func DayOf(t time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.Local
	}
	return civil.DateOf(t.In(loc))
}

// Span returns every day of [start, end] inclusive, or nil when end is
// before start.
func Span(start, end civil.Date) []civil.Date {
	if end.Before(start) {
		return nil
	}
	days := make([]civil.Date, 0, end.DaysSince(start)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Shift moves both ends of a range by n days.
func Shift(start, end civil.Date, n int) (civil.Date, civil.Date) {
	return start.AddDays(n), end.AddDays(n)
}

func quote(s string) string { return `"` + s + `"` }
