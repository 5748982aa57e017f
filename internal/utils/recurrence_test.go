package utils

import (
	"testing"
	"time"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
)

func mustDay(t *testing.T, day string) time.Time {
	t.Helper()
	d, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		t.Fatalf("bad test date %q: %v", day, err)
	}
	return d
}

func TestIsOccurrence_Daily(t *testing.T) {
	habit := models.Habit{
		ID:         "daily-read",
		Name:       "Read",
		Recurrence: constants.RecurrenceDaily,
		CreatedOn:  "2024-06-01",
	}

	// every day from the creation date on is an occurrence
	start := mustDay(t, "2024-06-01")
	for i := 0; i < 400; i++ {
		d := start.AddDate(0, 0, i)
		if !IsOccurrence(habit, d) {
			t.Fatalf("expected daily habit to fall due on %s", d.Format(constants.DateFormat))
		}
	}

	if IsOccurrence(habit, mustDay(t, "2024-05-31")) {
		t.Error("daily habit must not fall due before its creation date")
	}
}

func TestIsOccurrence_DailyIgnoresClockAndZone(t *testing.T) {
	habit := models.Habit{Recurrence: constants.RecurrenceDaily, CreatedOn: "2024-06-01"}

	loc := time.FixedZone("UTC+9", 9*60*60)
	lateOnCreationDay := time.Date(2024, time.June, 1, 23, 59, 0, 0, loc)
	if !IsOccurrence(habit, lateOnCreationDay) {
		t.Error("expected the creation day itself to count regardless of time of day")
	}
}

func TestIsOccurrence_Weekly(t *testing.T) {
	habit := models.Habit{Recurrence: constants.RecurrenceWeekly, CreatedOn: "2024-01-01"}

	start := mustDay(t, "2023-01-01")
	for i := 0; i < 3*366; i++ {
		d := start.AddDate(0, 0, i)
		want := d.Weekday() == time.Saturday
		if got := IsOccurrence(habit, d); got != want {
			t.Fatalf("IsOccurrence(weekly, %s [%s]) = %v, want %v",
				d.Format(constants.DateFormat), d.Weekday(), got, want)
		}
	}
}

func TestIsOccurrence_Monthly(t *testing.T) {
	habit := models.Habit{Recurrence: constants.RecurrenceMonthly, CreatedOn: "2024-01-01"}

	tests := []struct {
		day  string
		want bool
	}{
		{"2024-01-30", true},
		{"2024-01-31", false},
		{"2024-02-28", true}, // leap year: February has 29 days
		{"2024-02-29", false},
		{"2023-02-27", true}, // common year
		{"2023-02-28", false},
		{"2024-04-29", true},
		{"2024-04-30", false},
		{"2024-06-15", false},
		{"2024-12-30", true},
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			if got := IsOccurrence(habit, mustDay(t, tt.day)); got != tt.want {
				t.Errorf("IsOccurrence(monthly, %s) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}

func TestIsOccurrence_UnknownRecurrence(t *testing.T) {
	habit := models.Habit{Recurrence: "yearly", CreatedOn: "2024-01-01"}
	if IsOccurrence(habit, mustDay(t, "2024-06-15")) {
		t.Error("unknown recurrence classes must never fall due")
	}
}

func TestIsValidRecurrence(t *testing.T) {
	for _, r := range constants.RecurrenceTypes {
		if !IsValidRecurrence(r) {
			t.Errorf("expected %q to be valid", r)
		}
	}
	for _, r := range []constants.RecurrenceType{"", "Daily", "yearly"} {
		if IsValidRecurrence(r) {
			t.Errorf("expected %q to be invalid", r)
		}
	}
}
