package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cadence/internal/calendar"
	"github.com/julianstephens/cadence/internal/stats"
)

const cellWidth = 9

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(cellWidth).
			Align(lipgloss.Center)

	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Height(2).
			Align(lipgloss.Center)

	cursorStyle = cellStyle.
			Background(lipgloss.Color("236")).
			Bold(true)

	todayStyle = lipgloss.NewStyle().Underline(true)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	docStyle = lipgloss.NewStyle().Padding(1, 2)

	statusColors = map[calendar.Status]lipgloss.Color{
		calendar.StatusFull:    lipgloss.Color("42"),
		calendar.StatusPartial: lipgloss.Color("214"),
		calendar.StatusNone:    lipgloss.Color("250"),
		calendar.StatusFuture:  lipgloss.Color("240"),
	}

	tierColors = map[stats.Tier]lipgloss.Color{
		stats.TierCold:    lipgloss.Color("39"),
		stats.TierWarming: lipgloss.Color("220"),
		stats.TierSteady:  lipgloss.Color("42"),
		stats.TierOnFire:  lipgloss.Color("202"),
	}
)

func statusStyle(s calendar.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(statusColors[s])
}

func tierStyle(t stats.Tier) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(tierColors[t]).Bold(true)
}
