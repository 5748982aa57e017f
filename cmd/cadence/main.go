package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/cadence/internal/cache"
	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/cli/backups"
	"github.com/julianstephens/cadence/internal/cli/habits"
	"github.com/julianstephens/cadence/internal/cli/ledger"
	"github.com/julianstephens/cadence/internal/cli/settings"
	"github.com/julianstephens/cadence/internal/cli/system"
	"github.com/julianstephens/cadence/internal/cli/users"
	"github.com/julianstephens/cadence/internal/constants"
	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/keyring"
	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/storage"
	"github.com/julianstephens/cadence/internal/storage/postgres"
	"github.com/julianstephens/cadence/internal/storage/sqlite"
	"github.com/julianstephens/cadence/internal/tracker"
)

var CLI struct {
	Version   kong.VersionFlag
	Config    string `help:"SQLite file path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring, the environment or .pgpass." type:"string" default:"${default_config}" env:"CADENCE_CONFIG"`
	UserEmail string `name:"user" help:"Email of the user to act as. Optional while only one user exists." env:"CADENCE_USER"`
	Redis     string `help:"Redis URL for the month view cache. Falls back to the keyring cache secret." env:"CADENCE_REDIS_URL"`
	Verbose   bool   `name:"debug" help:"Log debug output to stderr."`

	Init     system.InitCmd       `cmd:"" help:"Initialize cadence storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive calendar." default:"1"`
	User     users.UserCmd        `cmd:"" help:"Manage users."`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits."`
	Month    ledger.MonthCmd      `cmd:"" help:"Show the month calendar with stats."`
	Toggle   ledger.ToggleCmd     `cmd:"" help:"Toggle a habit occurrence."`
	Done     ledger.DoneCmd       `cmd:"" help:"Mark every occurrence due today as done."`
	Reason   ledger.ReasonCmd     `cmd:"" help:"Record why a day went the way it did."`
	Reasons  ledger.ReasonsCmd    `cmd:"" help:"List the reasons recorded in a month."`
	Export   ledger.ExportCmd     `cmd:"" help:"Export the habit ledger as CSV or JSON."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage secrets stored in the OS keyring."`
	Debug    system.DebugCmd      `cmd:"" help:"Debug commands for troubleshooting."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with monthly calendars, streaks and day reasons"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	// a keyring connection string is always PostgreSQL, so the log
	// directory can be settled before it is read
	if err := logger.Init(logger.Config{
		Debug:     CLI.Verbose,
		ConfigDir: configDir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	configPath := resolveConfig(CLI.Config)

	store, err := openStore(configPath)
	if err != nil {
		cerrors.Fatal(err)
	}
	defer store.Close()

	c := openCache()
	defer c.Close()

	appCtx := &cli.Context{
		Store:     store,
		Tracker:   tracker.New(store, c),
		UserEmail: CLI.UserEmail,
	}

	// init creates the database, keyring never touches it, doctor reports load failures itself
	command := ctx.Command()
	if !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "keyring") && !strings.HasPrefix(command, "doctor") {
		if err := store.Load(); err != nil {
			cerrors.Fatal(err)
		}
	}

	cerrors.Fatal(ctx.Run(appCtx))
}

// resolveConfig prefers an explicit --config, then a connection string
// kept in the keyring, then the default SQLite path.
func resolveConfig(config string) string {
	if config == constants.DefaultConfigPath {
		if connStr, err := keyring.Get(keyring.SecretDatabase); err == nil {
			logger.Debug("Using database connection string from OS keyring")
			return connStr
		} else if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("OS keyring unavailable", "error", err)
		}
	}
	return config
}

func isPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") ||
		strings.HasPrefix(config, "postgresql://") ||
		strings.Contains(config, "host=")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// configDir is where logs go: next to the SQLite file, or the default
// config directory when the ledger lives in PostgreSQL.
func configDir(config string) string {
	if isPostgres(config) {
		return filepath.Dir(expandHome(constants.DefaultConfigPath))
	}
	return filepath.Dir(expandHome(config))
}

func openStore(config string) (storage.Provider, error) {
	if !isPostgres(config) {
		return sqlite.NewStore(expandHome(config)), nil
	}

	if _, err := postgres.ValidateConnString(config); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) && CLI.Config == constants.DefaultConfigPath {
			// came from the keyring, which is allowed to hold a password
			return postgres.New(config), nil
		}
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("%w\n       Use '%s keyring set <conn-string>', PGPASSWORD or .pgpass instead", err, constants.AppName)
		}
		return nil, err
	}
	return postgres.New(config), nil
}

// openCache connects to Redis when a URL is configured. Any failure
// degrades to an uncached tracker.
func openCache() cache.Cache {
	url := CLI.Redis
	if url == "" {
		if v, err := keyring.Get(keyring.SecretCache); err == nil {
			url = v
		}
	}
	if url == "" {
		return cache.Noop{}
	}

	r, err := cache.NewRedis(url)
	if err != nil {
		logger.Warn("Ignoring cache configuration", "error", err)
		return cache.Noop{}
	}
	if err := r.Ping(context.Background()); err != nil {
		logger.Warn("Redis unreachable, continuing without cache", "error", err)
		_ = r.Close()
		return cache.Noop{}
	}
	return r
}
