package calendar

import (
	"sort"
	"time"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/utils"
)

// WeekdayHeaders are the column titles of a Monday-start grid
var WeekdayHeaders = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Occurrence is one habit due on a grid day
type Occurrence struct {
	EntryID    string                   `json:"entry_id"`
	HabitID    string                   `json:"habit_id"`
	HabitName  string                   `json:"habit_name"`
	Recurrence constants.RecurrenceType `json:"recurrence"`
	Completed  bool                     `json:"completed"`
}

// Day is a single real day of the month
type Day struct {
	Date        string       `json:"date"`
	Number      int          `json:"number"`
	Occurrences []Occurrence `json:"occurrences"`
	Reason      string       `json:"reason,omitempty"`
	Completed   int          `json:"completed"`
	Total       int          `json:"total"`
	Status      Status       `json:"status"`
	IsToday     bool         `json:"is_today"`
}

// Grid is a month laid out under Monday..Sunday columns
type Grid struct {
	Month   Month `json:"month"`
	Leading int   `json:"leading"`
	Days    []Day `json:"days"`
}

// Cell is a grid slot; Day is nil for blank padding
type Cell struct {
	Day *Day
}

// BuildMonth projects a month into a grid. entries are expected to be
// materialized already; entries whose habit is not in habits are ignored.
func BuildMonth(month Month, habits []models.Habit, entries []models.HabitEntry, reasons []models.DayReason, today string) Grid {
	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	occurrences := make(map[string][]Occurrence)
	for _, e := range entries {
		h, ok := byID[e.HabitID]
		if !ok {
			continue
		}
		occurrences[e.Day] = append(occurrences[e.Day], Occurrence{
			EntryID:    e.ID,
			HabitID:    h.ID,
			HabitName:  h.Name,
			Recurrence: h.Recurrence,
			Completed:  e.Completed,
		})
	}

	reasonByDay := make(map[string]string, len(reasons))
	for _, r := range reasons {
		reasonByDay[r.Day] = r.Text
	}

	first := time.Date(month.Year, month.Month, 1, 0, 0, 0, 0, time.UTC)
	n := utils.DaysInMonth(month.Year, month.Month)

	grid := Grid{
		Month:   month,
		Leading: (int(first.Weekday()) + 6) % 7,
		Days:    make([]Day, 0, n),
	}

	for i := 0; i < n; i++ {
		date := utils.FormatDay(first.AddDate(0, 0, i))
		occ := occurrences[date]
		sort.Slice(occ, func(a, b int) bool {
			if occ[a].HabitName != occ[b].HabitName {
				return occ[a].HabitName < occ[b].HabitName
			}
			return occ[a].HabitID < occ[b].HabitID
		})

		completed := 0
		for _, o := range occ {
			if o.Completed {
				completed++
			}
		}

		grid.Days = append(grid.Days, Day{
			Date:        date,
			Number:      i + 1,
			Occurrences: occ,
			Reason:      reasonByDay[date],
			Completed:   completed,
			Total:       len(occ),
			Status:      Bucket(completed, len(occ), date, today),
			IsToday:     date == today,
		})
	}

	return grid
}

// Cells returns the leading blanks followed by every day of the month
func (g Grid) Cells() []Cell {
	cells := make([]Cell, g.Leading, g.Leading+len(g.Days))
	for i := range g.Days {
		cells = append(cells, Cell{Day: &g.Days[i]})
	}
	return cells
}

// Weeks chunks the cells into rows of seven, padding the last row with blanks
func (g Grid) Weeks() [][]Cell {
	cells := g.Cells()
	for len(cells)%7 != 0 {
		cells = append(cells, Cell{})
	}

	weeks := make([][]Cell, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}

// DayByDate finds a day in the grid
func (g Grid) DayByDate(date string) (Day, bool) {
	for _, d := range g.Days {
		if d.Date == date {
			return d, true
		}
	}
	return Day{}, false
}
