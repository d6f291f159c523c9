package analytics

import (
	"fmt"
	"strings"
	"time"
)

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate reads YYYY-MM-DD as midnight in loc (UTC when nil).
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// DateOf is the ledger key for instant t in loc.
func DateOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return FormatDate(t.In(loc))
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ValidateRange checks both bounds parse and start <= end.
func ValidateRange(start, end string) error {
	s, err := ParseDate(start, time.UTC)
	if err != nil {
		return err
	}
	e, err := ParseDate(end, time.UTC)
	if err != nil {
		return err
	}
	if e.Before(s) {
		return fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return nil
}
