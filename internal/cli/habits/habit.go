package habits

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/cadence/internal/backup"
	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/constants"
	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/models"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit, keeping its past entries."`
	Restore HabitRestoreCmd `cmd:"" help:"Restore a deleted habit."`
	Purge   HabitPurgeCmd   `cmd:"" help:"Permanently remove a habit and its history."`
	Stats   HabitStatsCmd   `cmd:"" help:"Show all-time statistics for a habit."`
}

// findHabit matches ref against habit IDs first, then names (case-insensitive).
func findHabit(ctx *cli.Context, userID, ref string, includeDeleted bool) (models.Habit, error) {
	habits, err := ctx.Tracker.Habits(context.Background(), userID, includeDeleted)
	if err != nil {
		return models.Habit{}, err
	}

	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
	}

	var matches []models.Habit
	for _, h := range habits {
		if strings.EqualFold(h.Name, strings.TrimSpace(ref)) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, cerrors.NotFound("habit", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, cerrors.Invalid("habit", "%d habits are named %q, use the habit ID instead", len(matches), ref)
	}
}

type HabitAddCmd struct {
	Name       string `arg:"" help:"Name of the habit."`
	Recurrence string `help:"Recurrence: daily, weekly (Saturdays) or monthly (second-to-last day)." short:"r" default:"daily" enum:"daily,weekly,monthly"`
	Date       string `help:"Creation date (YYYY-MM-DD or 'today'). Defaults to today." default:"today"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	today, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}

	habit, err := ctx.Tracker.AddHabit(context.Background(), user.ID, c.Name, constants.RecurrenceType(c.Recurrence), today)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added habit %q, %s (ID: %s)\n", habit.Name, cli.FormatRecurrence(habit.Recurrence), habit.ID)
	return nil
}

type HabitListCmd struct {
	Deleted bool `help:"Include deleted habits." short:"d"`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	habits, err := ctx.Tracker.Habits(context.Background(), user.ID, c.Deleted)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found. Add one with 'cadence habit add <name>'.")
		return nil
	}

	for _, h := range habits {
		status := ""
		if h.DeletedAt != nil {
			status = " [deleted " + h.DeletedAt.Local().Format(constants.DateFormat) + "]"
		}
		fmt.Printf("  %-24s %-30s since %s  %s%s\n", h.Name, cli.FormatRecurrence(h.Recurrence), h.CreatedOn, h.ID, status)
	}
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"ID or name of the habit."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	habit, err := findHabit(ctx, user.ID, c.Habit, false)
	if err != nil {
		return err
	}
	today, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup(backup.LabelPreRemove)

	removed, err := ctx.Tracker.RemoveHabit(context.Background(), user.ID, habit.ID, today)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Deleted habit %q (%d upcoming entries removed, history kept)\n", habit.Name, removed)
	fmt.Printf("  Restore it with: cadence habit restore %s\n", habit.ID)
	return nil
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"ID or name of the deleted habit."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	habit, err := findHabit(ctx, user.ID, c.Habit, true)
	if err != nil {
		return err
	}
	today, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}

	habit, err = ctx.Tracker.RestoreHabit(context.Background(), user.ID, habit.ID, today)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Restored habit %q\n", habit.Name)
	return nil
}

type HabitPurgeCmd struct {
	Habit string `arg:"" help:"ID or name of the habit."`
	Yes   bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *HabitPurgeCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	habit, err := findHabit(ctx, user.ID, c.Habit, true)
	if err != nil {
		return err
	}

	if !c.Yes {
		fmt.Printf("⚠️  This permanently removes %q and every entry it has.\n", habit.Name)
		fmt.Print("Continue? [y/N]: ")
		answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		if !cli.Confirm(answer) {
			fmt.Println("Purge cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup(backup.LabelPrePurge)

	if err := ctx.Tracker.PurgeHabit(context.Background(), user.ID, habit.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Purged habit %q\n", habit.Name)
	return nil
}

type HabitStatsCmd struct {
	Habit string `arg:"" help:"ID or name of the habit."`
}

func (c *HabitStatsCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	habit, err := findHabit(ctx, user.ID, c.Habit, true)
	if err != nil {
		return err
	}
	today, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}

	hs, err := ctx.Tracker.HabitStats(context.Background(), user.ID, habit.ID, today)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", hs.Habit.Name, cli.FormatRecurrence(hs.Habit.Recurrence))
	fmt.Printf("  Current streak:  %d\n", hs.Stats.CurrentStreak)
	fmt.Printf("  Longest streak:  %d\n", hs.Stats.LongestStreak)
	fmt.Printf("  Completed:       %d of %d\n", hs.Stats.Completed, hs.Stats.Total)
	fmt.Printf("  Consistency:     %d%% (%s)\n", hs.Stats.Consistency, hs.Stats.Tier)
	return nil
}
