package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cadence/internal/calendar"
	"github.com/julianstephens/cadence/internal/tracker"
)

var statusGlyphs = map[calendar.Status]string{
	calendar.StatusFull:    "●",
	calendar.StatusPartial: "◐",
	calendar.StatusNone:    "○",
	calendar.StatusFuture:  "·",
}

// RenderMonth draws the month grid and its statistics without a cursor.
// The month command prints it directly.
func RenderMonth(view tracker.MonthView) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		renderGrid(view.Grid, ""),
		"",
		renderSummary(view),
	)
}

func renderGrid(grid calendar.Grid, cursor string) string {
	headers := make([]string, 0, len(calendar.WeekdayHeaders))
	for _, h := range calendar.WeekdayHeaders {
		headers = append(headers, headerStyle.Render(h))
	}

	rows := []string{
		titleStyle.Render(grid.Month.Title()),
		lipgloss.JoinHorizontal(lipgloss.Top, headers...),
	}
	for _, week := range grid.Weeks() {
		cells := make([]string, 0, len(week))
		for _, c := range week {
			cells = append(cells, renderCell(c, cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(c calendar.Cell, cursor string) string {
	if c.Day == nil {
		return cellStyle.Render("")
	}
	d := c.Day

	num := fmt.Sprintf("%2d", d.Number)
	if d.IsToday {
		num = todayStyle.Render(num)
	}

	mark := ""
	if d.Total > 0 {
		mark = statusGlyphs[d.Status]
		if d.Status != calendar.StatusFuture {
			mark += fmt.Sprintf(" %d/%d", d.Completed, d.Total)
		}
	}
	if d.Reason != "" {
		mark += "*"
	}

	style := cellStyle
	if d.Date == cursor {
		style = cursorStyle
	}
	return style.Render(num + "\n" + statusStyle(d.Status).Render(mark))
}

func renderSummary(view tracker.MonthView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Consistency %s  %s  (last month %d%%)\n",
		tierStyle(view.Tier).Render(fmt.Sprintf("%d%%", view.Consistency)),
		tierStyle(view.Tier).Render(string(view.Tier)),
		view.PrevConsistency)

	if len(view.Habits) == 0 {
		b.WriteString(mutedStyle.Render("No habits yet."))
	} else {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-24s %7s %7s %7s", "Habit", "Streak", "Best", "Month")))
		for _, h := range view.Habits {
			fmt.Fprintf(&b, "\n%-24s %7d %7d %6d%%",
				truncate(h.Habit.Name, 24), h.Stats.CurrentStreak, h.Stats.LongestStreak, h.Stats.Consistency)
		}
	}

	if len(view.TopReasons) > 0 {
		parts := make([]string, 0, len(view.TopReasons))
		for _, r := range view.TopReasons {
			parts = append(parts, fmt.Sprintf("%s (%d)", r.Text, r.Count))
		}
		b.WriteString("\n\nTop reasons: " + strings.Join(parts, ", "))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
