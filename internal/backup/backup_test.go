package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/storage/sqlite"
)

// setupTestDB creates an initialized ledger holding a single user
func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cadence.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	if err := store.AddUser(models.User{ID: "u1", Email: "ada@example.com", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return dbPath
}

// fixedClock returns a manager whose clock advances one second per backup
func fixedClock(m *Manager, start time.Time) {
	next := start
	m.now = func() time.Time {
		t := next
		next = next.Add(time.Second)
		return t
	}
}

func countUsers(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	return n
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	fixedClock(mgr, time.Date(2024, 6, 1, 15, 30, 0, 0, time.Local))

	path, err := mgr.Create(LabelPreRemove)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	want := filepath.Join(filepath.Dir(dbPath), constants.BackupDirName, "cadence-20240601-153000-pre-remove.db")
	if path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	if n := countUsers(t, path); n != 1 {
		t.Errorf("backup has %d users, want 1", n)
	}
}

func TestCreate_MissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(LabelManual); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestUniqueFilenames(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	stamp := time.Date(2024, 6, 1, 15, 30, 0, 0, time.Local)
	mgr.now = func() time.Time { return stamp }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		path, err := mgr.Create(LabelManual)
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if b.Label != LabelManual {
			t.Errorf("label = %q, want %q (%s)", b.Label, LabelManual, b.Path)
		}
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.keep = 3
	fixedClock(mgr, time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local))

	var paths []string
	for i := 0; i < 5; i++ {
		p, err := mgr.Create("")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		paths = append(paths, p)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups after rotation, got %d", len(backups))
	}
	if backups[0].Path != paths[4] {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, paths[4])
	}
	for _, old := range paths[:2] {
		if _, err := os.Stat(old); !os.IsNotExist(err) {
			t.Errorf("expected %s to be rotated away", old)
		}
	}
}

func TestList_IgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "cadence-latest.db", "other-20240601-153000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %+v", backups)
	}
}

func TestList_NoDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "cadence.db"))
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected empty list, got %d", len(backups))
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	fixedClock(mgr, time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local))

	backupPath, err := mgr.Create(LabelManual)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := store.AddUser(models.User{ID: "u2", Email: "bob@example.com", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	store.Close()
	if n := countUsers(t, dbPath); n != 2 {
		t.Fatalf("expected 2 users before restore, got %d", n)
	}

	previous, err := mgr.Restore(mgr.Resolve(filepath.Base(backupPath)))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if n := countUsers(t, dbPath); n != 1 {
		t.Errorf("expected 1 user after restore, got %d", n)
	}
	if !strings.Contains(filepath.Base(previous), LabelPreRestore) {
		t.Errorf("pre-restore backup name = %s", previous)
	}
	if n := countUsers(t, previous); n != 2 {
		t.Errorf("pre-restore backup has %d users, want 2", n)
	}
}

func TestRestore_RejectsInvalidFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error for missing backup")
	}

	garbage := filepath.Join(t.TempDir(), "garbage.db")
	if err := os.WriteFile(garbage, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(garbage); err == nil {
		t.Error("expected error for corrupt backup")
	}

	foreign := filepath.Join(t.TempDir(), "foreign.db")
	db, err := sql.Open("sqlite", foreign)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE t (id INTEGER)"); err != nil {
		t.Fatal(err)
	}
	db.Close()
	if _, err := mgr.Restore(foreign); err == nil {
		t.Error("expected error for a database without a cadence schema")
	}

	if n := countUsers(t, dbPath); n != 1 {
		t.Errorf("database changed after rejected restores: %d users", n)
	}
}

func TestResolve(t *testing.T) {
	mgr := NewManager(filepath.Join("/data", "cadence.db"))
	if got := mgr.Resolve("cadence-20240601-153000.db"); got != filepath.Join("/data", "backups", "cadence-20240601-153000.db") {
		t.Errorf("Resolve(name) = %s", got)
	}
	if got := mgr.Resolve("/tmp/x.db"); got != "/tmp/x.db" {
		t.Errorf("Resolve(path) = %s", got)
	}
}

func TestValidLabel(t *testing.T) {
	for label, want := range map[string]bool{
		"manual":       true,
		"pre-remove":   true,
		"x":            true,
		"":             false,
		"Manual":       false,
		"trailing-":    false,
		"with space":   false,
		"pre-remove-2": false,
	} {
		if got := ValidLabel(label); got != want {
			t.Errorf("ValidLabel(%q) = %v, want %v", label, got, want)
		}
	}
}
