package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/validation"
)

func newHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					_, err := validation.HabitName(s)
					return err
				}),
			huh.NewSelect[constants.RecurrenceType]().
				Title("Recurrence").
				Options(
					huh.NewOption("Daily", constants.RecurrenceDaily),
					huh.NewOption("Weekly (Saturdays)", constants.RecurrenceWeekly),
					huh.NewOption("Monthly (second-to-last day)", constants.RecurrenceMonthly),
				).
				Value(&fm.Recurrence),
		),
	).WithTheme(huh.ThemeDracula())
}

func newReasonForm(fm *ReasonFormModel, date string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Why was " + date + " missed?").
				Description("Leave empty to clear.").
				Value(&fm.Text).
				Validate(func(s string) error {
					_, err := validation.ReasonText(s)
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
