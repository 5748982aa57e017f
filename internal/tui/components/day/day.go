package day

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/cadence/internal/calendar"
)

type Item struct {
	Occurrence calendar.Occurrence
}

func (i Item) Title() string {
	if i.Occurrence.Completed {
		return "✓ " + i.Occurrence.HabitName
	}
	return "○ " + i.Occurrence.HabitName
}

func (i Item) Description() string {
	return string(i.Occurrence.Recurrence)
}

func (i Item) FilterValue() string { return i.Occurrence.HabitName }

// Model lists the occurrences of the selected calendar day
type Model struct {
	list list.Model
	date string
}

func New(width, height int) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), width, height)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	l.Title = "No day selected"
	return Model{list: l}
}

// SetDay replaces the listed occurrences, keeping the selection when the
// same day is shown again.
func (m *Model) SetDay(d calendar.Day) {
	items := make([]list.Item, 0, len(d.Occurrences))
	for _, o := range d.Occurrences {
		items = append(items, Item{Occurrence: o})
	}
	index := m.list.Index()
	m.list.SetItems(items)
	if d.Date != m.date {
		index = 0
	}
	if index < len(items) {
		m.list.Select(index)
	}
	m.date = d.Date

	m.list.Title = d.Date
	if d.Reason != "" {
		m.list.Title = fmt.Sprintf("%s · %s", d.Date, d.Reason)
	}
}

// Selected returns the highlighted occurrence
func (m Model) Selected() (calendar.Occurrence, bool) {
	item, ok := m.list.SelectedItem().(Item)
	if !ok {
		return calendar.Occurrence{}, false
	}
	return item.Occurrence, true
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.list.Title + "\n\n  Nothing due."
	}
	return m.list.View()
}
