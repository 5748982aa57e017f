package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/cadence/internal/logger"
)

var (
	// ErrValidation marks input rejected before any storage or materialization work
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a referenced user, habit, entry or reason does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by a store when an insert collides with an existing unique key
	ErrConflict = errors.New("conflict")
)

// ValidationError describes a single rejected input field
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a ValidationError for the given field
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// NotFound wraps ErrNotFound with the kind and id of the missing record
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// IsNotFound reports whether err is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is or wraps ErrValidation
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
