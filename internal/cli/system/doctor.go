package system

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/cadence/internal/backup"
	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(*cli.Context) error
	warning bool
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", run: checkSchemaVersion},
	{name: "Settings", run: checkSettings},
	{name: "Row counts", run: checkCounts},
	{name: "Ledger validation", run: checkLedgers},
	{name: "Backups present", run: checkBackupsPresent, warning: true},
	{name: "Clock", run: checkClock},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	reachable := true
	for _, c := range checks {
		if !reachable && c.name != "Clock" {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", indent(err.Error()))
			hasError = true
			if c.name == "Database reachable" {
				reachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func indent(s string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n   ")
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	st, err := ctx.Store.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", st.Current, st.Latest)
	}
	if len(st.Pending) > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'cadence migrate')", st.Current, st.Latest)
	}
	fmt.Printf("   version %d\n", st.Current)
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if err := validation.Timezone(settings.Timezone); err != nil {
		return err
	}
	if settings.TopReasonsLimit < 1 {
		return fmt.Errorf("top reasons limit must be positive, got %d", settings.TopReasonsLimit)
	}
	return nil
}

func checkCounts(ctx *cli.Context) error {
	counts, err := ctx.Store.Counts()
	if err != nil {
		return err
	}
	fmt.Printf("   users %d, habits %d, entries %d, reasons %d\n", counts.Users, counts.Habits, counts.Entries, counts.Reasons)
	return nil
}

func checkLedgers(ctx *cli.Context) error {
	users, err := ctx.Store.GetAllUsers()
	if err != nil {
		return err
	}

	var problems []string
	for _, u := range users {
		result, err := ctx.Tracker.Validate(context.Background(), u.ID)
		if err != nil {
			return fmt.Errorf("failed to validate %s: %w", u.Email, err)
		}
		if result.HasConflicts() {
			problems = append(problems, u.Email+": "+result.FormatReport())
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "\n"))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'cadence backup create'")
	}
	return nil
}

func checkClock(*cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
