package day

import (
	"testing"

	"github.com/julianstephens/cadence/internal/calendar"
	"github.com/julianstephens/cadence/internal/constants"
)

func testDay(date string, completed ...bool) calendar.Day {
	d := calendar.Day{Date: date}
	for i, c := range completed {
		d.Occurrences = append(d.Occurrences, calendar.Occurrence{
			EntryID:    date + "-" + string(rune('a'+i)),
			HabitName:  "habit " + string(rune('A'+i)),
			Recurrence: constants.RecurrenceDaily,
			Completed:  c,
		})
	}
	return d
}

func TestSetDayAndSelected(t *testing.T) {
	m := New(40, 10)

	if _, ok := m.Selected(); ok {
		t.Error("expected no selection on an empty list")
	}

	m.SetDay(testDay("2024-06-01", true, false))
	o, ok := m.Selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	if o.EntryID != "2024-06-01-a" {
		t.Errorf("selected %s, want first entry", o.EntryID)
	}

	m.list.Select(1)
	m.SetDay(testDay("2024-06-01", true, true))
	if o, _ := m.Selected(); o.EntryID != "2024-06-01-b" {
		t.Errorf("selection not kept for the same day: %s", o.EntryID)
	}

	m.SetDay(testDay("2024-06-02", false, false))
	if o, _ := m.Selected(); o.EntryID != "2024-06-02-a" {
		t.Errorf("selection not reset for a new day: %s", o.EntryID)
	}
}

func TestItemTitle(t *testing.T) {
	done := Item{Occurrence: calendar.Occurrence{HabitName: "Read", Completed: true}}
	if done.Title() != "✓ Read" {
		t.Errorf("Title = %q", done.Title())
	}
	open := Item{Occurrence: calendar.Occurrence{HabitName: "Read"}}
	if open.Title() != "○ Read" {
		t.Errorf("Title = %q", open.Title())
	}
}
