package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/julianstephens/cadence/internal/models"
)

// Tier buckets a consistency percentage into a coarse label
type Tier string

const (
	TierCold    Tier = "cold"
	TierWarming Tier = "warming"
	TierSteady  Tier = "steady"
	TierOnFire  Tier = "on_fire"
)

// Tally counts completed entries and all entries
func Tally(entries []models.HabitEntry) (completed, total int) {
	for _, e := range entries {
		if e.Completed {
			completed++
		}
	}
	return completed, len(entries)
}

// Percent returns round(100*completed/total), or 0 when total is 0
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// Consistency is the completion percentage of entries. The caller picks
// the scope by choosing which entries to pass in.
func Consistency(entries []models.HabitEntry) int {
	return Percent(Tally(entries))
}

// TierFor maps a percentage onto its tier
func TierFor(percent int) Tier {
	switch {
	case percent <= 0:
		return TierCold
	case percent < 50:
		return TierWarming
	case percent < 80:
		return TierSteady
	default:
		return TierOnFire
	}
}

// HabitSummary is the per-habit statistics block
type HabitSummary struct {
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	Completed     int  `json:"completed"`
	Total         int  `json:"total"`
	Consistency   int  `json:"consistency"`
	Tier          Tier `json:"tier"`
}

// Summarize computes streaks over history and consistency over window.
// history and window may be the same slice for an all-time summary.
func Summarize(history, window []models.HabitEntry, today string) HabitSummary {
	completed, total := Tally(window)
	pct := Percent(completed, total)
	return HabitSummary{
		CurrentStreak: CurrentStreak(history, today),
		LongestStreak: LongestStreak(history),
		Completed:     completed,
		Total:         total,
		Consistency:   pct,
		Tier:          TierFor(pct),
	}
}

// ReasonCount is one row of the top reasons rollup
type ReasonCount struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// TopReasons counts reason texts on days where at least one of the
// user's entries was left incomplete. Results are ordered by count,
// then text, and cut to limit.
func TopReasons(entries []models.HabitEntry, reasons []models.DayReason, limit int) []ReasonCount {
	missed := make(map[string]bool)
	for _, e := range entries {
		if !e.Completed {
			missed[e.Day] = true
		}
	}

	counts := make(map[string]int)
	for _, r := range reasons {
		text := strings.TrimSpace(r.Text)
		if text == "" || !missed[r.Day] {
			continue
		}
		counts[text]++
	}

	out := make([]ReasonCount, 0, len(counts))
	for text, n := range counts {
		out = append(out, ReasonCount{Text: text, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Text < out[j].Text
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
