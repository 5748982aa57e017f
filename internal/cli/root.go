package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/cadence/internal/backup"
	"github.com/julianstephens/cadence/internal/constants"
	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/storage"
	"github.com/julianstephens/cadence/internal/storage/sqlite"
	"github.com/julianstephens/cadence/internal/tracker"
	"github.com/julianstephens/cadence/internal/validation"
)

type Context struct {
	Store     storage.Provider
	Tracker   *tracker.Tracker
	UserEmail string
}

// IsSQLite reports whether the ledger lives in a local SQLite file
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// PerformAutomaticBackup snapshots a SQLite ledger and only logs failures
func (c *Context) PerformAutomaticBackup(label string) {
	if !c.IsSQLite() {
		logger.Debug("Skipping automatic backup for non-SQLite storage")
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(label); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// CurrentUser resolves --user. It may be omitted while only one user exists.
func (c *Context) CurrentUser() (models.User, error) {
	if c.UserEmail != "" {
		email, err := validation.Email(c.UserEmail)
		if err != nil {
			return models.User{}, err
		}
		user, err := c.Store.GetUserByEmail(email)
		if cerrors.IsNotFound(err) {
			return models.User{}, fmt.Errorf("%w (add it with '%s user add %s')", err, constants.AppName, email)
		}
		return user, err
	}

	users, err := c.Store.GetAllUsers()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to list users: %w", err)
	}
	switch len(users) {
	case 0:
		return models.User{}, fmt.Errorf("no users yet, run '%s user add <email>' first", constants.AppName)
	case 1:
		return users[0], nil
	default:
		return models.User{}, cerrors.Invalid("user", "%d users exist, pass --user or set CADENCE_USER", len(users))
	}
}

// ResolveDay turns "" or "today" into today's date in the configured timezone
func (c *Context) ResolveDay(day string) (string, error) {
	day = strings.TrimSpace(strings.ToLower(day))
	if day == "" || day == "today" {
		return c.Tracker.Today()
	}
	if err := validation.Day(day); err != nil {
		return "", err
	}
	return day, nil
}

// FormatRecurrence describes when a recurrence class falls due
func FormatRecurrence(r constants.RecurrenceType) string {
	switch r {
	case constants.RecurrenceDaily:
		return "daily"
	case constants.RecurrenceWeekly:
		return "weekly (" + constants.WeeklyAnchor.String()[:3] + ")"
	case constants.RecurrenceMonthly:
		return "monthly (second-to-last day)"
	default:
		return "unknown"
	}
}

// Confirm reads a y/N answer from the given line
func Confirm(answer string) bool {
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
