// Package dates normalizes free-text due dates into canonical UTC instants.
//
// A due date without a time of day means "end of that local day", so the
// default clock is 23:59 in the assumed local zone. Everything stored or
// compared downstream is the UTC conversion of that local instant.
package dates

import (
	"fmt"
	"time"
)

// ErrorKind classifies date resolution failures.
type ErrorKind string

const (
	KindInvalidFormat ErrorKind = "invalid_format"
)

// Error is a date resolution failure. Callers log and skip the single item;
// it must never abort a whole course.
type Error struct {
	Kind  ErrorKind
	Input string
}

func (e *Error) Error() string {
	return fmt.Sprintf("date %s: %q", e.Kind, e.Input)
}

// StorageLayout is the canonical on-the-wire instant format: second
// precision, literal Z offset. Matches the course backend's due_at format.
const StorageLayout = "2006-01-02T15:04:05Z"

// layouts are the accepted input grammars, tried in order. First parse wins.
var layouts = []string{"2006-01-02", "01/02/2006"}

const (
	defaultHour   = 23
	defaultMinute = 59
)

// Resolve parses a date-only string, applies the 23:59 end-of-day default in
// loc, and returns the equivalent UTC instant.
func Resolve(dateStr string, loc *time.Location) (time.Time, error) {
	return ResolveAt(dateStr, loc, defaultHour, defaultMinute)
}

// ResolveAt is Resolve with an explicit clock, used by manual entry. Hour
// and minute must be within 0-23 and 0-59.
func ResolveAt(dateStr string, loc *time.Location, hour, minute int) (time.Time, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("clock out of range: %02d:%02d", hour, minute)
	}

	for _, layout := range layouts {
		d, err := time.ParseInLocation(layout, dateStr, loc)
		if err != nil {
			continue
		}
		local := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
		return local.UTC(), nil
	}
	return time.Time{}, &Error{Kind: KindInvalidFormat, Input: dateStr}
}

// FormatUTC renders an instant in the canonical storage format.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(StorageLayout)
}

// ParseUTC parses the canonical storage format back into a UTC instant.
func ParseUTC(s string) (time.Time, error) {
	t, err := time.Parse(StorageLayout, s)
	if err != nil {
		return time.Time{}, &Error{Kind: KindInvalidFormat, Input: s}
	}
	return t.UTC(), nil
}
