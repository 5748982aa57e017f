package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
)

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
// "Today" follows the user's configured timezone, not the system one.
func GetTodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// GetTodayFromSettings returns today's date string (YYYY-MM-DD) using the timezone from settings.
func GetTodayFromSettings(settings models.Settings) (string, error) {
	return GetTodayInTimezone(settings.Timezone)
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// ParseDay parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDay(day string) (time.Time, error) {
	return time.Parse(constants.DateFormat, day)
}

// FormatDay renders t's calendar date as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ValidateDay checks if the string is a real calendar date in YYYY-MM-DD form.
func ValidateDay(day string) bool {
	_, err := ParseDay(day)
	return err == nil
}

// AddDays shifts a YYYY-MM-DD day by n calendar days.
func AddDays(day string, n int) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return FormatDay(t.AddDate(0, 0, n)), nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the next month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first and last day of a month as YYYY-MM-DD strings.
func MonthBounds(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, month, DaysInMonth(year, month), 0, 0, 0, 0, time.UTC)
	return FormatDay(first), FormatDay(last)
}

// MaxDay returns the later of two YYYY-MM-DD days.
func MaxDay(a, b string) string {
	if a > b {
		return a
	}
	return b
}

// MinDay returns the earlier of two YYYY-MM-DD days.
func MinDay(a, b string) string {
	if a < b {
		return a
	}
	return b
}
