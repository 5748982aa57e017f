package ledger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/export"
	"github.com/julianstephens/cadence/internal/logger"
)

type ExportCmd struct {
	Format  string `help:"Output format." enum:"csv,json" default:"csv" short:"f"`
	Output  string `help:"Write to this file instead of stdout." short:"o" type:"path"`
	Deleted bool   `help:"Include the history of deleted habits."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	records, err := ctx.Tracker.Export(context.Background(), user.ID, c.Deleted)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, export.Format(c.Format), records); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	logger.Info("Exported ledger", "user", user.Email, "records", len(records), "format", c.Format)

	if c.Output != "" {
		fmt.Printf("✓ Exported %d record(s) to %s\n", len(records), c.Output)
	}
	return nil
}
