package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/cadence/internal/constants"
	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/storage/sqlite"
	"github.com/julianstephens/cadence/internal/tracker"
)

func setupTestContext(t *testing.T) *Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &Context{Store: store, Tracker: tracker.New(store, nil)}
}

func TestCurrentUser(t *testing.T) {
	ctx := setupTestContext(t)

	if _, err := ctx.CurrentUser(); err == nil {
		t.Error("expected error with no users")
	}

	if err := ctx.Store.AddUser(models.User{ID: "u1", Email: "ada@example.com", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	user, err := ctx.CurrentUser()
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("got user %s, want u1", user.ID)
	}

	if err := ctx.Store.AddUser(models.User{ID: "u2", Email: "bob@example.com", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	if _, err := ctx.CurrentUser(); !cerrors.IsValidation(err) {
		t.Errorf("expected validation error with two users, got %v", err)
	}

	ctx.UserEmail = "BOB@example.com"
	user, err = ctx.CurrentUser()
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.ID != "u2" {
		t.Errorf("got user %s, want u2", user.ID)
	}

	ctx.UserEmail = "carol@example.com"
	if _, err := ctx.CurrentUser(); !cerrors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestResolveDay(t *testing.T) {
	ctx := setupTestContext(t)

	day, err := ctx.ResolveDay("2024-06-01")
	if err != nil || day != "2024-06-01" {
		t.Errorf("ResolveDay = %q, %v", day, err)
	}
	if _, err := ctx.ResolveDay("yesterday"); !cerrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	today, err := ctx.ResolveDay("today")
	if err != nil {
		t.Fatalf("ResolveDay(today) failed: %v", err)
	}
	if _, err := time.Parse(constants.DateFormat, today); err != nil {
		t.Errorf("today %q is not a date", today)
	}
}

func TestFormatRecurrence(t *testing.T) {
	tests := map[constants.RecurrenceType]string{
		constants.RecurrenceDaily:   "daily",
		constants.RecurrenceWeekly:  "weekly (Sat)",
		constants.RecurrenceMonthly: "monthly (second-to-last day)",
		"yearly":                    "unknown",
	}
	for in, want := range tests {
		if got := FormatRecurrence(in); got != want {
			t.Errorf("FormatRecurrence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPerformAutomaticBackup(t *testing.T) {
	ctx := setupTestContext(t)
	ctx.PerformAutomaticBackup("manual")

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(ctx.Store.GetConfigPath()), constants.BackupDirName, "cadence-*-manual.db"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Errorf("expected one backup, got %v", matches)
	}
}
