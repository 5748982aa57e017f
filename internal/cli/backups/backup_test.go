package backups

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/cadence/internal/backup"
	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/storage/sqlite"
	"github.com/julianstephens/cadence/internal/tracker"
)

func setupTestDB(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &cli.Context{Store: store, Tracker: tracker.New(store, nil)}, dbPath
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, dbPath := setupTestDB(t)

	if err := (&BackupCreateCmd{Label: backup.LabelManual}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("backup list failed: %v", err)
	}

	backups, err := backup.NewManager(dbPath).List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
	if backups[0].Label != backup.LabelManual {
		t.Errorf("label = %q, want %q", backups[0].Label, backup.LabelManual)
	}
}

func TestBackupCreate_InvalidLabel(t *testing.T) {
	ctx, _ := setupTestDB(t)

	if err := (&BackupCreateCmd{Label: "Not OK"}).Run(ctx); err == nil {
		t.Error("expected error for invalid label")
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, dbPath := setupTestDB(t)

	if err := (&BackupCreateCmd{Label: backup.LabelManual}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	backups, err := backup.NewManager(dbPath).List()
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected one backup, got %d (err %v)", len(backups), err)
	}

	// written after the backup, so the restore should drop it
	if err := ctx.Store.AddUser(models.User{ID: "u1", Email: "ada@example.com", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}

	reopened := sqlite.NewStore(dbPath)
	if err := reopened.Load(); err != nil {
		t.Fatalf("failed to reopen restored database: %v", err)
	}
	defer reopened.Close()

	users, err := reopened.GetAllUsers()
	if err != nil {
		t.Fatalf("GetAllUsers failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected restored database without users, got %d", len(users))
	}
}

func TestBackupRestore_MissingFile(t *testing.T) {
	ctx, _ := setupTestDB(t)

	cmd := &BackupRestoreCmd{BackupFile: "cadence-20240101-000000.db", Yes: true}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected error for missing backup file")
	}
}
