package utils

import (
	"time"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
)

// IsOccurrence determines if the habit falls due on the given date based on its
// recurrence class. It only looks at the calendar date, never at the wall clock,
// so the materializer and the validation layer agree on every day.
func IsOccurrence(habit models.Habit, date time.Time) bool {
	switch habit.Recurrence {
	case constants.RecurrenceDaily:
		if habit.CreatedOn == "" {
			return true
		}
		created, err := time.Parse(constants.DateFormat, habit.CreatedOn)
		if err != nil {
			return false
		}
		return !dateOnly(date).Before(created)
	case constants.RecurrenceWeekly:
		return date.Weekday() == constants.WeeklyAnchor
	case constants.RecurrenceMonthly:
		// second-to-last calendar day of the month
		return date.Day() == DaysInMonth(date.Year(), date.Month())-1
	default:
		return false
	}
}

// IsValidRecurrence reports whether r names a supported recurrence class.
func IsValidRecurrence(r constants.RecurrenceType) bool {
	for _, known := range constants.RecurrenceTypes {
		if r == known {
			return true
		}
	}
	return false
}

// dateOnly strips the clock and zone so dates compare by calendar day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
