package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/cadence/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Secret names an entry cadence keeps in the OS keyring.
type Secret string

const (
	// SecretDatabase is the PostgreSQL connection string.
	SecretDatabase Secret = "database"
	// SecretCache is the Redis URL used for the month summary cache.
	SecretCache Secret = "cache"
)

func (s Secret) account() string {
	if s == SecretDatabase {
		// keeps entries written by earlier versions readable
		return constants.DefaultKeyringUser
	}
	return constants.DefaultKeyringUser + "-" + string(s)
}

// Get retrieves a secret from the OS keyring.
// Returns ErrNotFound if nothing is stored under that name.
func Get(s Secret) (string, error) {
	val, err := keyring.Get(constants.AppName, s.account())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return val, nil
}

// Set stores a secret in the OS keyring.
func Set(s Secret, value string) error {
	if value == "" {
		return fmt.Errorf("%s secret cannot be empty", s)
	}
	if err := keyring.Set(constants.AppName, s.account(), value); err != nil {
		return fmt.Errorf("failed to store %s secret in keyring: %w", s, err)
	}
	return nil
}

// Delete removes a secret from the OS keyring.
func Delete(s Secret) error {
	if err := keyring.Delete(constants.AppName, s.account()); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s secret from keyring: %w", s, err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string from the OS keyring.
func GetConnectionString() (string, error) {
	return Get(SecretDatabase)
}

// SetConnectionString stores the database connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	return Set(SecretDatabase, connStr)
}

// DeleteConnectionString removes the database connection string from the OS keyring.
func DeleteConnectionString() error {
	return Delete(SecretDatabase)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
