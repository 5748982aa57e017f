package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/keyring"
	"github.com/julianstephens/cadence/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show a stored secret with its password masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
}

func parseSecret(name string) (keyring.Secret, error) {
	switch keyring.Secret(name) {
	case keyring.SecretDatabase, keyring.SecretCache:
		return keyring.Secret(name), nil
	}
	return "", fmt.Errorf("unknown secret %q (expected %q or %q)", name, keyring.SecretDatabase, keyring.SecretCache)
}

// KeyringSetCmd stores a PostgreSQL connection string or Redis URL
type KeyringSetCmd struct {
	Value  string `arg:"" help:"PostgreSQL connection string, or Redis URL with --secret=cache."`
	Secret string `help:"Which secret to store." default:"database" enum:"database,cache"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	secret, err := parseSecret(cmd.Secret)
	if err != nil {
		return err
	}

	switch secret {
	case keyring.SecretDatabase:
		if !strings.HasPrefix(cmd.Value, "postgres://") &&
			!strings.HasPrefix(cmd.Value, "postgresql://") &&
			!strings.Contains(cmd.Value, "host=") {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		if _, err := postgres.ValidateConnString(cmd.Value); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			// the keyring is encrypted, so a password is acceptable here
			fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
			fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
		}
	case keyring.SecretCache:
		if !strings.HasPrefix(cmd.Value, "redis://") && !strings.HasPrefix(cmd.Value, "rediss://") {
			return errors.New("cache URL must start with redis:// or rediss://")
		}
	}

	if err := keyring.Set(secret, cmd.Value); err != nil {
		return fmt.Errorf("failed to store %s secret in keyring: %w", secret, err)
	}
	fmt.Printf("✓ %s secret stored in OS keyring\n", secret)
	return nil
}

type KeyringGetCmd struct {
	Secret string `help:"Which secret to show." default:"database" enum:"database,cache"`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	secret, err := parseSecret(cmd.Secret)
	if err != nil {
		return err
	}
	val, err := keyring.Get(secret)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s secret found in keyring, use 'cadence keyring set' to store one", secret)
		}
		return fmt.Errorf("failed to read keyring: %w", err)
	}
	fmt.Println(maskPassword(val))
	return nil
}

type KeyringDeleteCmd struct {
	Secret string `help:"Which secret to delete." default:"database" enum:"database,cache"`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	secret, err := parseSecret(cmd.Secret)
	if err != nil {
		return err
	}
	if err := keyring.Delete(secret); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s secret found in keyring", secret)
		}
		return fmt.Errorf("failed to delete %s secret: %w", secret, err)
	}
	fmt.Printf("✓ %s secret deleted from OS keyring\n", secret)
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Println("✓ OS keyring is available")

	for _, secret := range []keyring.Secret{keyring.SecretDatabase, keyring.SecretCache} {
		if _, err := keyring.Get(secret); err == nil {
			fmt.Printf("✓ %s secret is stored\n", secret)
		} else if errors.Is(err, keyring.ErrNotFound) {
			fmt.Printf("ℹ No %s secret stored\n", secret)
		}
	}
	return nil
}

// maskPassword hides the password of a URL or DSN connection string
func maskPassword(connStr string) string {
	if idx := strings.Index(connStr, "://"); idx != -1 {
		rest := connStr[idx+3:]
		if at := strings.LastIndex(rest, "@"); at != -1 {
			userInfo := rest[:at]
			if colon := strings.Index(userInfo, ":"); colon != -1 {
				return connStr[:idx+3] + userInfo[:colon] + ":****" + rest[at:]
			}
		}
		return connStr
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}
	return connStr
}
