package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateAddHabit, StateReason:
		return docStyle.Render(m.form.View())
	}

	var body string
	if m.loaded {
		body = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top,
				renderGrid(m.view.Grid, m.cursor),
				"    ",
				m.dayModel.View(),
			),
			"",
			renderSummary(m.view),
		)
	} else {
		body = mutedStyle.Render("Loading " + m.month.Title() + "…")
	}

	footer := ""
	switch {
	case m.err != nil:
		footer = dangerStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		footer = warningStyle.Render(m.status)
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		body,
		"",
		footer,
		m.help.View(m.keys),
	))
}
