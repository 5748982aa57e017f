package system

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/constants"
	cerrors "github.com/julianstephens/cadence/internal/errors"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" name:"db-path" help:"Show database path."`
	DumpHabit    DebugDumpHabitCmd    `cmd:"" help:"Dump a habit and its entries as JSON."`
	DumpMonth    DebugDumpMonthCmd    `cmd:"" help:"Dump the computed month view as JSON."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump settings as JSON."`
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabit(cmd.ID)
	if err != nil {
		if cerrors.IsNotFound(err) {
			return fmt.Errorf("habit not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get habit: %w", err)
	}

	today, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}
	entries, err := ctx.Store.GetHabitEntriesForHabit(habit.ID, habit.CreatedOn, today)
	if err != nil {
		return fmt.Errorf("failed to get entries: %w", err)
	}

	return printJSON(map[string]any{
		"habit":   habit,
		"entries": entries,
	})
}

type DebugDumpMonthCmd struct {
	Date string `arg:"" optional:"" help:"Any day in the month (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpMonthCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	day, err := ctx.ResolveDay(cmd.Date)
	if err != nil {
		return err
	}
	today, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}

	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", day, err)
	}

	view, err := ctx.Tracker.ViewMonth(context.Background(), user.ID, t.Year(), t.Month(), today)
	if err != nil {
		return err
	}
	return printJSON(view)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(settings)
}
