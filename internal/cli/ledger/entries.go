package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/cadence/internal/calendar"
	"github.com/julianstephens/cadence/internal/cli"
	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/utils"
)

// ToggleCmd flips one occurrence, addressed by entry ID or by habit name and date
type ToggleCmd struct {
	Target string `arg:"" help:"Entry ID, or habit name when --date is given."`
	Date   string `help:"Date of the occurrence (YYYY-MM-DD or 'today')." short:"d"`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	entryID := c.Target
	if c.Date != "" {
		date, err := ctx.ResolveDay(c.Date)
		if err != nil {
			return err
		}
		entryID, err = c.findEntry(ctx, user.ID, date)
		if err != nil {
			return err
		}
	}

	completed, err := ctx.Tracker.ToggleOccurrence(context.Background(), user.ID, entryID)
	if err != nil {
		return err
	}
	if completed {
		fmt.Println("✓ Marked done")
	} else {
		fmt.Println("○ Marked not done")
	}
	return nil
}

// findEntry looks the occurrence up in the month view so it is materialized first
func (c *ToggleCmd) findEntry(ctx *cli.Context, userID, date string) (string, error) {
	today, err := ctx.Tracker.Today()
	if err != nil {
		return "", err
	}
	month, err := calendar.MonthOf(date)
	if err != nil {
		return "", err
	}
	view, err := ctx.Tracker.ViewMonth(context.Background(), userID, month.Year, month.Month, today)
	if err != nil {
		return "", err
	}
	d, ok := view.Grid.DayByDate(date)
	if ok {
		for _, o := range d.Occurrences {
			if o.HabitID == c.Target || strings.EqualFold(o.HabitName, c.Target) {
				return o.EntryID, nil
			}
		}
	}
	return "", cerrors.NotFound("occurrence", c.Target+" on "+date)
}

type ReasonCmd struct {
	Text string `arg:"" optional:"" help:"Why the day was missed. Empty clears the note."`
	Date string `help:"Day the note is for (YYYY-MM-DD or 'today')." short:"d" default:"today"`
}

func (c *ReasonCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}

	if err := ctx.Tracker.SetDayReason(context.Background(), user.ID, date, c.Text); err != nil {
		return err
	}
	fmt.Printf("✓ Saved reason for %s\n", date)
	return nil
}

type ReasonsCmd struct {
	Month string `arg:"" optional:"" help:"Month to list (YYYY-MM). Defaults to the current month."`
}

func (c *ReasonsCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	var month calendar.Month
	if c.Month != "" {
		month, err = calendar.ParseMonth(c.Month)
	} else {
		var today string
		today, err = ctx.Tracker.Today()
		if err == nil {
			month, err = calendar.MonthOf(today)
		}
	}
	if err != nil {
		return err
	}

	first, last := utils.MonthBounds(month.Year, month.Month)
	reasons, err := ctx.Tracker.Reasons(context.Background(), user.ID, first, last)
	if err != nil {
		return err
	}
	if len(reasons) == 0 {
		fmt.Printf("No reasons recorded in %s.\n", month.Title())
		return nil
	}
	for _, r := range reasons {
		if r.Text == "" {
			continue
		}
		fmt.Printf("  %s  %s\n", r.Day, r.Text)
	}
	return nil
}

type DoneCmd struct{}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	today, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}

	n, err := ctx.Tracker.MarkAllDone(context.Background(), user.ID, today)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Marked %d occurrence(s) done for %s\n", n, today)
	return nil
}
