package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/cadence/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestMigrations(files map[string]string) fs.FS {
	mfs := fstest.MapFS{}
	for name, content := range files {
		mfs[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return mfs
}

func TestGetCurrentVersionFreshDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, setupTestMigrations(map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	}))

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, setupTestMigrations(map[string]string{
		"003_another.sql": "CREATE TABLE test2 (id INTEGER);",
		"001_init.sql":    "CREATE TABLE test1 (id INTEGER);",
		"002_update.sql":  "ALTER TABLE test1 ADD COLUMN name TEXT;",
		"README.md":       "not a migration",
	}))

	migrations, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}

	want := []struct {
		version int
		name    string
	}{{1, "init"}, {2, "update"}, {3, "another"}}
	for i, w := range want {
		if migrations[i].Version != w.version || migrations[i].Name != w.name {
			t.Errorf("migration %d: got (%d, %q), want (%d, %q)",
				i, migrations[i].Version, migrations[i].Name, w.version, w.name)
		}
	}
}

func TestReadMigrationFilesInvalid(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name:  "missing name part",
			files: map[string]string{"001.sql": "SELECT 1;"},
			want:  "invalid migration filename format",
		},
		{
			name:  "non numeric version",
			files: map[string]string{"abc_init.sql": "SELECT 1;"},
			want:  "invalid version number",
		},
		{
			name:  "zero version",
			files: map[string]string{"000_init.sql": "SELECT 1;"},
			want:  "version must be at least 1",
		},
		{
			name: "duplicate version",
			files: map[string]string{
				"001_init.sql":  "SELECT 1;",
				"01_again.sql": "SELECT 1;",
			},
			want: "duplicate migration version 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), setupTestMigrations(tt.files))
			_, err := runner.ReadMigrationFiles()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestApplyMigrationsFromScratch(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, setupTestMigrations(map[string]string{
		"001_init.sql":  "CREATE TABLE habits (id TEXT PRIMARY KEY, name TEXT);",
		"002_entry.sql": "CREATE TABLE habit_entries (id TEXT PRIMARY KEY, habit_id TEXT, day TEXT);",
	}))

	var logs []string
	count, err := runner.ApplyMigrations(func(msg string) { logs = append(logs, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages to be logged")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	for _, table := range []string{"habits", "habit_entries"} {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n); err != nil || n != 1 {
			t.Errorf("table %s was not created", table)
		}
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	db := setupTestDB(t)
	first := NewRunner(db, setupTestMigrations(map[string]string{
		"001_init.sql": "CREATE TABLE habits (id TEXT PRIMARY KEY);",
	}))
	if _, err := first.ApplyMigrations(nil); err != nil {
		t.Fatalf("initial ApplyMigrations failed: %v", err)
	}

	second := NewRunner(db, setupTestMigrations(map[string]string{
		"001_init.sql":   "CREATE TABLE habits (id TEXT PRIMARY KEY);",
		"002_names.sql":  "ALTER TABLE habits ADD COLUMN name TEXT;",
		"003_extras.sql": "CREATE TABLE extras (id TEXT);",
	}))

	st, err := second.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.Current != 1 || st.Latest != 3 || len(st.Pending) != 2 {
		t.Errorf("Status = %+v, want current 1 latest 3 with 2 pending", st)
	}

	count, err := second.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}

	// a second run is a no-op
	count, err = second.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("repeat ApplyMigrations failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 migrations on repeat, got %d", count)
	}
}

func TestApplyMigrationsRollsBackFailure(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, setupTestMigrations(map[string]string{
		"001_init.sql":   "CREATE TABLE habits (id TEXT PRIMARY KEY);",
		"002_broken.sql": "CREATE TABLE broken (;",
	}))

	count, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied before failure, got %d", count)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version to stay at 1, got %d", version)
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, setupTestMigrations(map[string]string{
		"001_init.sql": "CREATE TABLE habits (id TEXT PRIMARY KEY);",
	}))
	if err := runner.EnsureSchemaVersionTable(); err != nil {
		t.Fatalf("EnsureSchemaVersionTable failed: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (7)"); err != nil {
		t.Fatalf("failed to seed version: %v", err)
	}

	err := runner.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("expected newer schema error, got %v", err)
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("expected ApplyMigrations to refuse a newer database")
	}
}

func TestEmbeddedSQLiteMigrationsApply(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("fs.Sub failed: %v", err)
	}

	db := setupTestDB(t)
	runner := NewRunner(db, sub)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}

	for _, table := range []string{"settings", "users", "habits", "habit_entries", "day_reasons"} {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n); err != nil || n != 1 {
			t.Errorf("embedded schema is missing table %s", table)
		}
	}
}

func TestEmbeddedMigrationsMatchAcrossDialects(t *testing.T) {
	read := func(dir string) []Migration {
		sub, err := fs.Sub(migrations.FS, dir)
		if err != nil {
			t.Fatalf("fs.Sub(%s) failed: %v", dir, err)
		}
		ms, err := NewRunner(nil, sub).ReadMigrationFiles()
		if err != nil {
			t.Fatalf("ReadMigrationFiles(%s) failed: %v", dir, err)
		}
		return ms
	}

	lite, pg := read("sqlite"), read("postgres")
	if len(lite) != len(pg) {
		t.Fatalf("sqlite has %d migrations, postgres has %d", len(lite), len(pg))
	}
	for i := range lite {
		if lite[i].Version != pg[i].Version || lite[i].Name != pg[i].Name {
			t.Errorf("migration %d differs: sqlite %d_%s, postgres %d_%s",
				i, lite[i].Version, lite[i].Name, pg[i].Version, pg[i].Name)
		}
	}
}
