package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "validation error",
			err:      Invalid("name", "must not be empty"),
			expected: "Error: invalid name: must not be empty",
		},
		{
			name:     "not found error",
			err:      NotFound("habit", "h-1"),
			expected: "Error: habit h-1: not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	result := Formatf("failed to load %s", "database")
	if result != "Error: failed to load database" {
		t.Errorf("Formatf() = %q", result)
	}
}

func TestValidationErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("adding habit: %w", Invalid("recurrence", "unknown class %q", "yearly"))

	if !IsValidation(err) {
		t.Fatal("expected wrapped validation error to match ErrValidation")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatal("expected errors.As to find *ValidationError")
	}
	if verr.Field != "recurrence" {
		t.Errorf("Field = %q, want %q", verr.Field, "recurrence")
	}
	if IsNotFound(err) {
		t.Error("validation error should not match ErrNotFound")
	}
}

func TestNotFoundWraps(t *testing.T) {
	err := fmt.Errorf("toggle: %w", NotFound("habit entry", "e-9"))
	if !IsNotFound(err) {
		t.Error("expected wrapped not found error to match ErrNotFound")
	}
	if errors.Is(err, ErrConflict) {
		t.Error("not found error should not match ErrConflict")
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

// TestFatal_NilError tests that Fatal does nothing when passed a nil error
func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal_NilError$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
