package stats

import (
	"sort"

	"github.com/julianstephens/cadence/internal/models"
)

// sortedByDay returns a copy of entries in ascending day order
func sortedByDay(entries []models.HabitEntry) []models.HabitEntry {
	out := make([]models.HabitEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Day < out[j].Day
	})
	return out
}

// LongestStreak returns the best run of consecutive completed entries.
// Days without an entry neither break nor extend a run; only an entry
// that exists and is incomplete resets it.
func LongestStreak(entries []models.HabitEntry) int {
	best, run := 0, 0
	for _, e := range sortedByDay(entries) {
		if e.Completed {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// CurrentStreak counts the trailing completed entries dated on or before
// today. Entries after today are not yet actionable and are skipped. The
// first incomplete entry ends the count.
func CurrentStreak(entries []models.HabitEntry, today string) int {
	sorted := sortedByDay(entries)
	streak := 0
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		if e.Day > today {
			continue
		}
		if !e.Completed {
			break
		}
		streak++
	}
	return streak
}
