package backup

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/logger"
)

const timestampLayout = "20060102-150405"

// Labels recorded in backup file names
const (
	LabelManual     = "manual"
	LabelPreRemove  = "pre-remove"
	LabelPrePurge   = "pre-purge"
	LabelPreRestore = "pre-restore"
	LabelPreReset   = "pre-reset"
)

// cadence-20240601-153000[-label][-N].db
var backupNamePattern = regexp.MustCompile(`^` + regexp.QuoteMeta(constants.BackupFilePrefix) +
	`(\d{8}-\d{6})(?:-([a-z][a-z-]*?))?(?:-(\d+))?` + regexp.QuoteMeta(constants.BackupFileSuffix) + `$`)

var labelPattern = regexp.MustCompile(`^[a-z][a-z-]*[a-z]$|^[a-z]$`)

// ValidLabel reports whether label can be embedded in a backup file name
// and read back by List.
func ValidLabel(label string) bool {
	return labelPattern.MatchString(label)
}

// Info describes one backup file
type Info struct {
	Path      string
	Label     string
	Timestamp time.Time
	Size      int64
}

// Manager snapshots and restores a SQLite ledger file. Backups live in a
// directory next to the database.
type Manager struct {
	dbPath    string
	backupDir string
	keep      int
	now       func() time.Time
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
}

// Dir returns the backup directory path
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create snapshots the database and prunes the oldest backups beyond the
// retention limit.
func (m *Manager) Create(label string) (string, error) {
	path, err := m.create(label)
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) create(label string) (string, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath(label)
	if err != nil {
		return "", err
	}
	if err := m.snapshot(path); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	logger.Info("Created backup", "path", path, "label", label)
	return path, nil
}

func (m *Manager) nextPath(label string) (string, error) {
	base := constants.BackupFilePrefix + m.now().Format(timestampLayout)
	if label != "" {
		base += "-" + label
	}

	path := filepath.Join(m.backupDir, base+constants.BackupFileSuffix)
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if n > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s-%d%s", base, n, constants.BackupFileSuffix))
	}
}

// snapshot writes a consistent copy with VACUUM INTO, falling back to a
// plain file copy when the statement is unavailable.
func (m *Manager) snapshot(dest string) error {
	src, err := sql.Open("sqlite", "file:"+m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	if err := verify(src); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// List returns the backups newest first
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := backupNamePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		ts, err := time.ParseInLocation(timestampLayout, match[1], time.Local)
		if err != nil {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Label:     match[2],
			Timestamp: ts,
			Size:      fi.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].Path > backups[j].Path
	})
	return backups, nil
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Removed old backup", "path", backups[i].Path)
	}
	return nil
}

// Resolve accepts a backup path or a bare file name inside the backup directory
func (m *Manager) Resolve(name string) string {
	if strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	return filepath.Join(m.backupDir, name)
}

// Restore replaces the database with a backup. The current database is
// snapshotted first and that snapshot is returned. The caller must close
// any open store on the database beforehand.
func (m *Manager) Restore(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := verifyFile(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if _, err := os.Stat(m.dbPath); err == nil {
		// not rotated, so the restore can never prune the file it reads from
		p, err := m.create(LabelPreRestore)
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		previous = p
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return previous, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return previous, fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("Restored database", "from", backupPath)
	return previous, nil
}

// verifyFile checks that path is a SQLite database carrying a cadence schema
func verifyFile(path string) error {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return verify(db)
}

func verify(db *sql.DB) error {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'").Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("not a %s database: schema_version table missing", constants.AppName)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
