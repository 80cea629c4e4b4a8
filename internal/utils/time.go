package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/weekslot/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) as midnight in loc.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, strings.TrimSpace(dateStr), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", dateStr, err)
	}
	return t, nil
}

// ParseDateTimeInLocation parses "YYYY-MM-DD HH:MM" or RFC3339 input.
// The first form is interpreted in loc.
func ParseDateTimeInLocation(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(constants.DateTimeFormat, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid date/time %q (expected YYYY-MM-DD HH:MM)", value)
}

// FormatSpan renders a slot interval, omitting the end date when it matches the start.
func FormatSpan(start, end time.Time, loc *time.Location) string {
	s, e := start.In(loc), end.In(loc)
	if s.Format(constants.DateFormat) == e.Format(constants.DateFormat) {
		return fmt.Sprintf("%s-%s", s.Format(constants.TimeFormat), e.Format(constants.TimeFormat))
	}
	return fmt.Sprintf("%s-%s", s.Format(constants.TimeFormat), e.Format("Mon "+constants.TimeFormat))
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}
