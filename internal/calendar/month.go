package calendar

import (
	"fmt"
	"time"

	cerrors "github.com/julianstephens/cadence/internal/errors"
)

// Month identifies a calendar month
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth normalizes out-of-range months, so NewMonth(2024, 13) is January 2025
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// MonthOf returns the month containing a YYYY-MM-DD day
func MonthOf(day string) (Month, error) {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return Month{}, cerrors.Invalid("day", "%q is not a YYYY-MM-DD date", day)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// ParseMonth parses a YYYY-MM string
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, cerrors.Invalid("month", "%q is not a YYYY-MM month", s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Title renders the month for headings, e.g. "June 2024"
func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// Prev returns the month before m
func (m Month) Prev() Month {
	return NewMonth(m.Year, m.Month-1)
}

// Next returns the month after m
func (m Month) Next() Month {
	return NewMonth(m.Year, m.Month+1)
}

// PrevMonth returns the year and month before the given one
func PrevMonth(year int, month time.Month) (int, time.Month) {
	p := NewMonth(year, month).Prev()
	return p.Year, p.Month
}

// NextMonth returns the year and month after the given one
func NextMonth(year int, month time.Month) (int, time.Month) {
	n := NewMonth(year, month).Next()
	return n.Year, n.Month
}
