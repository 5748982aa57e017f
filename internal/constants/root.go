package constants

import "time"

// RecurrenceType is the recurrence class of a habit
type RecurrenceType string

const (
	AppName            = "cadence"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/cadence/cadence.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MinDay and MaxDay bound "all time" range queries on YYYY-MM-DD columns
	MinDay = "0001-01-01"
	MaxDay = "9999-12-31"

	// Recurrence classes
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"

	// WeeklyAnchor is the weekday on which every weekly habit falls due
	WeeklyAnchor = time.Saturday

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "cadence-"
	BackupFileSuffix = ".db"

	// Cache constants
	CacheKeyPrefix  = "cadence:month:"
	DefaultCacheTTL = time.Hour

	// HistoryLoadConcurrency bounds parallel per-habit ledger reads
	HistoryLoadConcurrency = 4
)

// RecurrenceTypes lists every supported recurrence class in display order
var RecurrenceTypes = []RecurrenceType{RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly}
