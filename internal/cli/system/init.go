package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/cadence/internal/backup"
	"github.com/julianstephens/cadence/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Delete an existing SQLite database before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if !ctx.IsSQLite() {
			return fmt.Errorf("--force is only supported for SQLite storage")
		}
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			ctx.PerformAutomaticBackup(backup.LabelPreReset)
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized cadence storage at: %s\n", ctx.Store.GetConfigPath())
	fmt.Println("Next: cadence user add <email>")
	return nil
}

type MigrateCmd struct {
	Status bool `help:"Only report the schema version and pending migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if c.Status {
		st, err := ctx.Store.MigrationStatus()
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		fmt.Printf("Schema version: %d (latest %d)\n", st.Current, st.Latest)
		for _, m := range st.Pending {
			fmt.Printf("  pending: %03d_%s\n", m.Version, m.Name)
		}
		return nil
	}

	count, err := ctx.Store.Migrate(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
