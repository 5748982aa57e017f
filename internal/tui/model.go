package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/cadence/internal/calendar"
	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/tracker"
	"github.com/julianstephens/cadence/internal/tui/components/day"
)

type SessionState int

const (
	StateCalendar SessionState = iota
	StateDay
	StateAddHabit
	StateReason
)

type HabitFormModel struct {
	Name       string
	Recurrence constants.RecurrenceType
}

type ReasonFormModel struct {
	Text string
}

type Model struct {
	tracker    *tracker.Tracker
	userID     string
	today      string
	month      calendar.Month
	cursor     string
	view       tracker.MonthView
	loaded     bool
	state      SessionState
	keys       KeyMap
	help       help.Model
	dayModel   day.Model
	form       *huh.Form
	habitForm  *HabitFormModel
	reasonForm *ReasonFormModel
	status     string
	err        error
	quitting   bool
	width      int
	height     int
}

type monthLoadedMsg struct {
	view tracker.MonthView
	err  error
}

// actionMsg reports the outcome of a write; the month is reloaded afterwards
type actionMsg struct {
	status string
	err    error
}

func NewModel(tr *tracker.Tracker, userID, today string) (Model, error) {
	month, err := calendar.MonthOf(today)
	if err != nil {
		return Model{}, err
	}
	return Model{
		tracker:  tr,
		userID:   userID,
		today:    today,
		month:    month,
		cursor:   today,
		state:    StateCalendar,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		dayModel: day.New(40, 14),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return m.loadMonth()
}

func (m Model) loadMonth() tea.Cmd {
	tr, userID, month, today := m.tracker, m.userID, m.month, m.today
	return func() tea.Msg {
		view, err := tr.ViewMonth(context.Background(), userID, month.Year, month.Month, today)
		return monthLoadedMsg{view: view, err: err}
	}
}

func (m Model) toggle(entryID string) tea.Cmd {
	tr, userID := m.tracker, m.userID
	return func() tea.Msg {
		completed, err := tr.ToggleOccurrence(context.Background(), userID, entryID)
		status := "Marked not done"
		if completed {
			status = "Marked done"
		}
		return actionMsg{status: status, err: err}
	}
}

func (m Model) markAllDone() tea.Cmd {
	tr, userID, today := m.tracker, m.userID, m.today
	return func() tea.Msg {
		n, err := tr.MarkAllDone(context.Background(), userID, today)
		return actionMsg{status: pluralize(n, "occurrence") + " completed today", err: err}
	}
}

func (m Model) addHabit(name string, recurrence constants.RecurrenceType) tea.Cmd {
	tr, userID, today := m.tracker, m.userID, m.today
	return func() tea.Msg {
		habit, err := tr.AddHabit(context.Background(), userID, name, recurrence, today)
		return actionMsg{status: "Added " + habit.Name, err: err}
	}
}

func (m Model) setReason(date, text string) tea.Cmd {
	tr, userID := m.tracker, m.userID
	return func() tea.Msg {
		err := tr.SetDayReason(context.Background(), userID, date, text)
		return actionMsg{status: "Saved reason for " + date, err: err}
	}
}

// syncDay points the day list at the cursor
func (m *Model) syncDay() {
	if d, ok := m.view.Grid.DayByDate(m.cursor); ok {
		m.dayModel.SetDay(d)
	}
}
