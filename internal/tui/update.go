package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/cadence/internal/calendar"
	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.dayModel.SetSize(max(msg.Width-7*cellWidth-6, 20), 14)

	case monthLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.view = msg.view
		m.loaded = true
		m.syncDay()
		return m, nil

	case actionMsg:
		if msg.err != nil {
			logger.Warn("TUI action failed", "error", msg.err)
			m.err = msg.err
			m.status = ""
		} else {
			m.err = nil
			m.status = msg.status
		}
		return m, m.loadMonth()
	}

	if m.state == StateAddHabit || m.state == StateReason {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Focus):
		if m.state == StateCalendar {
			m.state = StateDay
		} else {
			m.state = StateCalendar
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.Toggle):
		if o, ok := m.dayModel.Selected(); ok {
			return m, m.toggle(o.EntryID)
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.DoneAll):
		return m, m.markAllDone()
	case key.Matches(keyMsg, m.keys.Add):
		m.habitForm = &HabitFormModel{Recurrence: constants.RecurrenceDaily}
		m.form = newHabitForm(m.habitForm)
		m.state = StateAddHabit
		return m, m.form.Init()
	case key.Matches(keyMsg, m.keys.Reason):
		m.reasonForm = &ReasonFormModel{}
		if d, ok := m.view.Grid.DayByDate(m.cursor); ok {
			m.reasonForm.Text = d.Reason
		}
		m.form = newReasonForm(m.reasonForm, m.cursor)
		m.state = StateReason
		return m, m.form.Init()
	case key.Matches(keyMsg, m.keys.PrevMonth):
		return m.jumpMonth(m.month.Prev())
	case key.Matches(keyMsg, m.keys.NextMonth):
		return m.jumpMonth(m.month.Next())
	case key.Matches(keyMsg, m.keys.Today):
		return m.moveTo(m.today)
	}

	if m.state == StateDay {
		var cmd tea.Cmd
		m.dayModel, cmd = m.dayModel.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Left):
		return m.moveBy(-1)
	case key.Matches(keyMsg, m.keys.Right):
		return m.moveBy(1)
	case key.Matches(keyMsg, m.keys.Up):
		return m.moveBy(-7)
	case key.Matches(keyMsg, m.keys.Down):
		return m.moveBy(7)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateCalendar
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var next tea.Cmd
		if m.state == StateAddHabit {
			next = tea.Batch(cmd, m.addHabit(m.habitForm.Name, m.habitForm.Recurrence))
		} else {
			next = tea.Batch(cmd, m.setReason(m.cursor, m.reasonForm.Text))
		}
		m.state = StateCalendar
		return m, next
	case huh.StateAborted:
		m.state = StateCalendar
	}
	return m, cmd
}

func (m Model) moveBy(days int) (tea.Model, tea.Cmd) {
	next, err := utils.AddDays(m.cursor, days)
	if err != nil {
		m.err = err
		return m, nil
	}
	return m.moveTo(next)
}

// moveTo places the cursor on date, loading its month when it changes
func (m Model) moveTo(date string) (tea.Model, tea.Cmd) {
	month, err := calendar.MonthOf(date)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.cursor = date
	m.status = ""
	if month != m.month {
		m.month = month
		m.loaded = false
		return m, m.loadMonth()
	}
	m.syncDay()
	return m, nil
}

// jumpMonth keeps the cursor's day number, clamped to the target month
func (m Model) jumpMonth(target calendar.Month) (tea.Model, tea.Cmd) {
	current, err := utils.ParseDay(m.cursor)
	if err != nil {
		m.err = err
		return m, nil
	}
	dayNum := min(current.Day(), utils.DaysInMonth(target.Year, target.Month))
	return m.moveTo(fmt.Sprintf("%s-%02d", target.String(), dayNum))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
