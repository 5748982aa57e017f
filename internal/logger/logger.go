package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/cadence/internal/constants"
)

// Logger is the process-wide logger. It stays nil until Init runs, and
// every helper below tolerates that.
var Logger *log.Logger

// discard backs scoped loggers handed out before Init
var discard = log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
}

// LogFile is the rotating log file inside dir
func LogFile(dir string) string {
	return filepath.Join(dir, "logs", constants.AppName+".log")
}

// Init points the global logger at <ConfigDir>/logs/cadence.log. Normal
// runs only record warnings; debug runs record everything and mirror it
// to stderr with caller locations.
func Init(cfg Config) error {
	path := LogFile(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	opts := log.Options{
		ReportTimestamp: true,
		Level:           log.WarnLevel,
		Prefix:          constants.AppName,
	}
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, out)
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}

	Logger = log.NewWithOptions(out, opts)
	return nil
}

// With returns a child logger carrying keyvals on every line, e.g. the
// user a tracker call acts for.
func With(keyvals ...interface{}) *log.Logger {
	if Logger == nil {
		return discard
	}
	return Logger.With(keyvals...)
}

// ForUser scopes log lines to one user
func ForUser(userID string) *log.Logger {
	return With("user", userID)
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs and exits with status 1, with or without a logger
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
