package backups

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/cadence/internal/backup"
	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/logger"
)

var errNotSQLite = errors.New("backups are only supported for SQLite storage")

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup of the database now."`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore the database from a backup."`
}

type BackupCreateCmd struct {
	Label string `help:"Label appended to the backup file name." default:"manual"`
}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errNotSQLite
	}
	if !backup.ValidLabel(c.Label) {
		return fmt.Errorf("invalid label %q: use lowercase letters and dashes", c.Label)
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backupPath, err := mgr.Create(c.Label)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errNotSQLite
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		label := b.Label
		if label == "" {
			label = "-"
		}
		fmt.Printf("  %s  %-12s %s  (%.1f KB)\n",
			b.Timestamp.Format("2006-01-02 15:04:05"), label, filepath.Base(b.Path), float64(b.Size)/1024.0)
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or file name of the backup to restore."`
	Yes        bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errNotSQLite
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())

	backupPath := c.BackupFile
	if _, err := os.Stat(backupPath); err != nil {
		backupPath = mgr.Resolve(c.BackupFile)
		if _, err := os.Stat(backupPath); err != nil {
			return fmt.Errorf("backup file not found: tried current directory and %s", mgr.Dir())
		}
	}
	if abs, err := filepath.Abs(backupPath); err == nil {
		backupPath = abs
	}

	if !c.Yes {
		fmt.Println("⚠️  WARNING: This will replace your current database with the backup.")
		fmt.Println("⚠️  IMPORTANT: All cadence processes (including the TUI) must be stopped first.")
		fmt.Println("A backup of your current database will be created before restoring.")
		fmt.Printf("\nRestore from: %s\n", backupPath)
		fmt.Print("Continue? [y/N]: ")

		response, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		if !cli.Confirm(response) {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		logger.Warn("Failed to close database connection", "error", err)
	}

	previous, err := mgr.Restore(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println("✓ Database restored successfully!")
	if previous != "" {
		fmt.Printf("  Previous database saved as: %s\n", filepath.Base(previous))
	}
	return nil
}
