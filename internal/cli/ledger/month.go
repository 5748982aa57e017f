package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/cadence/internal/calendar"
	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/tui"
)

type MonthCmd struct {
	Month string `arg:"" optional:"" help:"Month to show (YYYY-MM). Defaults to the current month."`
	Prev  bool   `help:"Show the month before." xor:"nav"`
	Next  bool   `help:"Show the month after." xor:"nav"`
	JSON  bool   `help:"Print the month view as JSON." name:"json"`
}

func (c *MonthCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	today, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}

	month, err := c.resolve(today)
	if err != nil {
		return err
	}

	view, err := ctx.Tracker.ViewMonth(context.Background(), user.ID, month.Year, month.Month, today)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	fmt.Println(tui.RenderMonth(view))
	return nil
}

func (c *MonthCmd) resolve(today string) (calendar.Month, error) {
	var (
		month calendar.Month
		err   error
	)
	if c.Month != "" {
		month, err = calendar.ParseMonth(c.Month)
	} else {
		month, err = calendar.MonthOf(today)
	}
	if err != nil {
		return calendar.Month{}, err
	}

	switch {
	case c.Prev:
		return month.Prev(), nil
	case c.Next:
		return month.Next(), nil
	}
	return month, nil
}
