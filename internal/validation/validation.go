package validation

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/julianstephens/cadence/internal/constants"
	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/utils"
)

const (
	MaxHabitNameLen = 100
	MaxReasonLen    = 500
)

// HabitName trims and checks a habit name
func HabitName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", cerrors.Invalid("name", "habit name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxHabitNameLen {
		return "", cerrors.Invalid("name", "habit name is longer than %d characters", MaxHabitNameLen)
	}
	return name, nil
}

// Recurrence checks a recurrence class
func Recurrence(r constants.RecurrenceType) error {
	if !utils.IsValidRecurrence(r) {
		return cerrors.Invalid("recurrence", "unknown recurrence class %q (expected daily, weekly or monthly)", r)
	}
	return nil
}

// Day checks a YYYY-MM-DD date
func Day(day string) error {
	if !utils.ValidateDay(day) {
		return cerrors.Invalid("date", "%q is not a valid YYYY-MM-DD date", day)
	}
	return nil
}

// Email normalizes and checks an email address
func Email(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" {
		return "", cerrors.Invalid("email", "%q is not a bare email address", email)
	}
	return strings.ToLower(addr.Address), nil
}

// ReasonText trims a day reason; an empty result is allowed and clears the note
func ReasonText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > MaxReasonLen {
		return "", cerrors.Invalid("reason", "reason is longer than %d characters", MaxReasonLen)
	}
	return text, nil
}

// Timezone checks an IANA zone name or "Local"
func Timezone(tz string) error {
	if !utils.ValidateTimezone(tz) {
		return cerrors.Invalid("timezone", "unknown timezone %q", tz)
	}
	return nil
}

// ConflictType represents the type of ledger problem
type ConflictType string

const (
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictDuplicateEntry     ConflictType = "duplicate_entry"
	ConflictOffSchedule        ConflictType = "off_schedule_entry"
	ConflictBeforeCreation     ConflictType = "entry_before_creation"
	ConflictOrphanEntry        ConflictType = "orphan_entry"
	ConflictInvalidDate        ConflictType = "invalid_date"
)

// Conflict represents a detected problem in a user's ledger
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string
	HabitIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks stored ledgers against the recurrence rules
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateLedger reports entries that the materializer would never have
// written, plus duplicate live habit names.
func (v *Validator) ValidateLedger(habits []models.Habit, entries []models.HabitEntry) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[string]models.Habit, len(habits))
	names := make(map[string][]string)
	for _, h := range habits {
		byID[h.ID] = h
		if h.DeletedAt == nil {
			key := strings.ToLower(h.Name)
			names[key] = append(names[key], h.ID)
		}
	}

	dupNames := make([]string, 0)
	for name, ids := range names {
		if len(ids) > 1 {
			dupNames = append(dupNames, name)
		}
	}
	sort.Strings(dupNames)
	for _, name := range dupNames {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateHabitName,
			Description: fmt.Sprintf("Duplicate habit name: %q (IDs: %v)", name, names[name]),
			HabitIDs:    names[name],
		})
	}

	seen := make(map[string]bool)
	for _, e := range entries {
		h, ok := byID[e.HabitID]
		if !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanEntry,
				Description: fmt.Sprintf("Entry %s on %s belongs to unknown habit %s", e.ID, e.Day, e.HabitID),
				Date:        e.Day,
				HabitIDs:    []string{e.HabitID},
			})
			continue
		}

		key := e.HabitID + "|" + e.Day
		if seen[key] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateEntry,
				Description: fmt.Sprintf("Habit %q has more than one entry on %s", h.Name, e.Day),
				Date:        e.Day,
				HabitIDs:    []string{h.ID},
			})
		}
		seen[key] = true

		d, err := utils.ParseDay(e.Day)
		if err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Entry %s of habit %q has invalid date %q", e.ID, h.Name, e.Day),
				HabitIDs:    []string{h.ID},
			})
			continue
		}
		if h.CreatedOn != "" && e.Day < h.CreatedOn {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictBeforeCreation,
				Description: fmt.Sprintf("Habit %q has an entry on %s, before it was created on %s", h.Name, e.Day, h.CreatedOn),
				Date:        e.Day,
				HabitIDs:    []string{h.ID},
			})
			continue
		}
		if !utils.IsOccurrence(h, d) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOffSchedule,
				Description: fmt.Sprintf("Habit %q (%s) is not due on %s but has an entry", h.Name, h.Recurrence, e.Day),
				Date:        e.Day,
				HabitIDs:    []string{h.ID},
			})
		}
	}

	return result
}
