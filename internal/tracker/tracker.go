package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/cadence/internal/cache"
	"github.com/julianstephens/cadence/internal/calendar"
	"github.com/julianstephens/cadence/internal/constants"
	cerrors "github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/export"
	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/materializer"
	"github.com/julianstephens/cadence/internal/models"
	"github.com/julianstephens/cadence/internal/stats"
	"github.com/julianstephens/cadence/internal/storage"
	"github.com/julianstephens/cadence/internal/utils"
	"github.com/julianstephens/cadence/internal/validation"
)

// HabitStats pairs a habit with its statistics block
type HabitStats struct {
	Habit models.Habit       `json:"habit"`
	Stats stats.HabitSummary `json:"stats"`
}

// MonthView is everything a renderer needs to draw one month for one user
type MonthView struct {
	Grid            calendar.Grid       `json:"grid"`
	Habits          []HabitStats        `json:"habits"`
	Consistency     int                 `json:"consistency"`
	PrevConsistency int                 `json:"prev_consistency"`
	Tier            stats.Tier          `json:"tier"`
	TopReasons      []stats.ReasonCount `json:"top_reasons"`
}

// Tracker runs the per-operation flows over a storage provider.
// Every call names its user explicitly.
type Tracker struct {
	store    storage.Provider
	mat      *materializer.Materializer
	cache    cache.Cache
	cacheTTL time.Duration
	now      func() time.Time
	newID    func() string
}

// New builds a tracker. A nil cache disables caching.
func New(store storage.Provider, c cache.Cache) *Tracker {
	if c == nil {
		c = cache.Noop{}
	}
	return &Tracker{
		store:    store,
		mat:      materializer.New(store),
		cache:    c,
		cacheTTL: constants.DefaultCacheTTL,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Store exposes the underlying provider for commands that manage it directly
func (t *Tracker) Store() storage.Provider {
	return t.store
}

// Today resolves the current day in the configured timezone
func (t *Tracker) Today() (string, error) {
	settings, err := t.store.GetSettings()
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return "", err
	}
	return t.now().In(loc).Format(constants.DateFormat), nil
}

func (t *Tracker) invalidate(ctx context.Context, userID string) {
	t.cache.InvalidatePrefix(ctx, cache.UserPrefix(userID))
}

func (t *Tracker) requireUser(userID string) error {
	if _, err := t.store.GetUser(userID); err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	return nil
}

// ownedHabit loads a habit and hides it from anyone but its owner
func (t *Tracker) ownedHabit(userID, habitID string) (models.Habit, error) {
	habit, err := t.store.GetHabit(habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if habit.UserID != userID {
		return models.Habit{}, cerrors.NotFound("habit", habitID)
	}
	return habit, nil
}

// requireFreeName rejects a name already used by another live habit of the
// user. Names address habits in exports and CLI lookups.
func (t *Tracker) requireFreeName(userID, name, exceptID string) error {
	habits, err := t.store.GetHabitsForUser(userID, false)
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	for _, h := range habits {
		if h.ID != exceptID && strings.EqualFold(h.Name, name) {
			return cerrors.Invalid("name", "a habit named %q already exists", h.Name)
		}
	}
	return nil
}

func endOfMonth(day string) (string, error) {
	m, err := calendar.MonthOf(day)
	if err != nil {
		return "", err
	}
	_, last := utils.MonthBounds(m.Year, m.Month)
	return last, nil
}

// upTo keeps entries dated on or before day
func upTo(entries []models.HabitEntry, day string) []models.HabitEntry {
	out := make([]models.HabitEntry, 0, len(entries))
	for _, e := range entries {
		if e.Day <= day {
			out = append(out, e)
		}
	}
	return out
}

// ViewMonth materializes the user's habits over the month and assembles
// the grid with per-habit and user-level statistics. Consistency only
// counts days up to today; later entries are still pending.
func (t *Tracker) ViewMonth(ctx context.Context, userID string, year int, month time.Month, today string) (MonthView, error) {
	if err := validation.Day(today); err != nil {
		return MonthView{}, err
	}
	if err := t.requireUser(userID); err != nil {
		return MonthView{}, err
	}

	m := calendar.NewMonth(year, month)
	key := cache.MonthKey(userID, m.String(), today)

	var view MonthView
	if t.cache.GetJSON(ctx, key, &view) {
		logger.ForUser(userID).Debug("Month view served from cache", "key", key)
		return view, nil
	}

	first, last := utils.MonthBounds(m.Year, m.Month)
	created, err := t.mat.EnsureForUser(userID, first, last, today)
	if err != nil {
		return MonthView{}, fmt.Errorf("failed to materialize %s: %w", m, err)
	}
	if created > 0 {
		logger.ForUser(userID).Debug("Materialized occurrences", "month", m.String(), "created", created)
	}

	habits, err := t.store.GetHabitsForUser(userID, false)
	if err != nil {
		return MonthView{}, fmt.Errorf("failed to load habits: %w", err)
	}
	entries, err := t.store.GetHabitEntriesForUser(userID, first, last)
	if err != nil {
		return MonthView{}, fmt.Errorf("failed to load entries: %w", err)
	}
	reasons, err := t.store.GetDayReasons(userID, first, last)
	if err != nil {
		return MonthView{}, fmt.Errorf("failed to load reasons: %w", err)
	}

	prev := m.Prev()
	prevFirst, prevLast := utils.MonthBounds(prev.Year, prev.Month)
	prevEntries, err := t.store.GetHabitEntriesForUser(userID, prevFirst, prevLast)
	if err != nil {
		return MonthView{}, fmt.Errorf("failed to load entries for %s: %w", prev, err)
	}

	settings, err := t.store.GetSettings()
	if err != nil {
		return MonthView{}, fmt.Errorf("failed to load settings: %w", err)
	}

	elapsed := upTo(entries, today)
	byHabit := make(map[string][]models.HabitEntry, len(habits))
	for _, e := range elapsed {
		byHabit[e.HabitID] = append(byHabit[e.HabitID], e)
	}

	histories, err := t.loadHistories(ctx, habits, today)
	if err != nil {
		return MonthView{}, err
	}

	perHabit := make([]HabitStats, 0, len(habits))
	for i, h := range habits {
		perHabit = append(perHabit, HabitStats{
			Habit: h,
			Stats: stats.Summarize(histories[i], byHabit[h.ID], today),
		})
	}

	pct := stats.Consistency(elapsed)
	view = MonthView{
		Grid:            calendar.BuildMonth(m, habits, entries, reasons, today),
		Habits:          perHabit,
		Consistency:     pct,
		PrevConsistency: stats.Consistency(upTo(prevEntries, today)),
		Tier:            stats.TierFor(pct),
		TopReasons:      stats.TopReasons(elapsed, reasons, settings.TopReasonsLimit),
	}

	t.cache.SetJSON(ctx, key, view, t.cacheTTL)
	return view, nil
}

// loadHistories reads every habit's ledger up to today. The result is
// indexed like habits.
func (t *Tracker) loadHistories(ctx context.Context, habits []models.Habit, today string) ([][]models.HabitEntry, error) {
	histories := make([][]models.HabitEntry, len(habits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.HistoryLoadConcurrency)
	for i, h := range habits {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			history, err := t.store.GetHabitEntriesForHabit(h.ID, constants.MinDay, today)
			if err != nil {
				return fmt.Errorf("failed to load history for habit %s: %w", h.ID, err)
			}
			histories[i] = history
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return histories, nil
}

// ToggleOccurrence flips one entry of the user's and returns the new state.
// It writes the flag only; no materialization happens here.
func (t *Tracker) ToggleOccurrence(ctx context.Context, userID, entryID string) (bool, error) {
	entry, err := t.store.GetHabitEntry(entryID)
	if err != nil {
		return false, err
	}
	habit, err := t.ownedHabit(userID, entry.HabitID)
	if err != nil {
		if cerrors.IsNotFound(err) {
			return false, cerrors.NotFound("entry", entryID)
		}
		return false, err
	}
	if habit.DeletedAt != nil {
		return false, cerrors.Invalid("entry", "habit %q has been deleted", habit.Name)
	}

	completed, err := t.store.ToggleHabitEntry(entryID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle entry: %w", err)
	}
	t.invalidate(ctx, userID)
	logger.ForUser(userID).Debug("Toggled entry", "entry", entryID, "completed", completed)
	return completed, nil
}

// SetDayReason records why a day was missed, replacing any earlier note
func (t *Tracker) SetDayReason(ctx context.Context, userID, day, text string) error {
	if err := validation.Day(day); err != nil {
		return err
	}
	text, err := validation.ReasonText(text)
	if err != nil {
		return err
	}
	if err := t.requireUser(userID); err != nil {
		return err
	}

	now := t.now()
	reason := models.DayReason{
		ID:        t.newID(),
		UserID:    userID,
		Day:       day,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.store.SetDayReason(reason); err != nil {
		return fmt.Errorf("failed to save reason: %w", err)
	}
	t.invalidate(ctx, userID)
	return nil
}

// AddHabit creates a habit starting today and materializes the rest of
// the current month for it.
func (t *Tracker) AddHabit(ctx context.Context, userID, name string, recurrence constants.RecurrenceType, today string) (models.Habit, error) {
	name, err := validation.HabitName(name)
	if err != nil {
		return models.Habit{}, err
	}
	if err := validation.Recurrence(recurrence); err != nil {
		return models.Habit{}, err
	}
	if err := validation.Day(today); err != nil {
		return models.Habit{}, err
	}
	if err := t.requireUser(userID); err != nil {
		return models.Habit{}, err
	}
	if err := t.requireFreeName(userID, name, ""); err != nil {
		return models.Habit{}, err
	}

	habit := models.Habit{
		ID:         t.newID(),
		UserID:     userID,
		Name:       name,
		Recurrence: recurrence,
		CreatedOn:  today,
		CreatedAt:  t.now(),
	}
	if err := t.store.AddHabit(habit); err != nil {
		return models.Habit{}, fmt.Errorf("failed to add habit: %w", err)
	}

	last, err := endOfMonth(today)
	if err != nil {
		return habit, err
	}
	if _, err := t.mat.EnsureOccurrences(habit, today, last, today); err != nil {
		return habit, fmt.Errorf("failed to materialize habit: %w", err)
	}
	t.invalidate(ctx, userID)
	logger.ForUser(userID).Info("Added habit", "id", habit.ID, "name", habit.Name, "recurrence", habit.Recurrence)
	return habit, nil
}

// RemoveHabit drops the habit's entries from today on and soft-deletes it.
// Earlier entries stay so past months keep their history.
func (t *Tracker) RemoveHabit(ctx context.Context, userID, habitID, today string) (int, error) {
	if err := validation.Day(today); err != nil {
		return 0, err
	}
	habit, err := t.ownedHabit(userID, habitID)
	if err != nil {
		return 0, err
	}
	if habit.DeletedAt != nil {
		return 0, cerrors.Invalid("habit", "habit %q is already deleted", habit.Name)
	}

	removed, err := t.store.DeleteHabitEntriesFrom(habitID, today)
	if err != nil {
		return 0, fmt.Errorf("failed to remove upcoming entries: %w", err)
	}
	if err := t.store.DeleteHabit(habitID); err != nil {
		return removed, fmt.Errorf("failed to delete habit: %w", err)
	}
	t.invalidate(ctx, userID)
	logger.ForUser(userID).Info("Removed habit", "id", habitID, "entries_removed", removed)
	return removed, nil
}

// RestoreHabit brings back a soft-deleted habit and materializes the rest
// of the current month. Days missed while it was deleted stay empty.
func (t *Tracker) RestoreHabit(ctx context.Context, userID, habitID, today string) (models.Habit, error) {
	if err := validation.Day(today); err != nil {
		return models.Habit{}, err
	}
	habit, err := t.ownedHabit(userID, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if habit.DeletedAt == nil {
		return models.Habit{}, cerrors.Invalid("habit", "habit %q is not deleted", habit.Name)
	}
	if err := t.requireFreeName(userID, habit.Name, habit.ID); err != nil {
		return models.Habit{}, err
	}

	if err := t.store.RestoreHabit(habitID); err != nil {
		return models.Habit{}, fmt.Errorf("failed to restore habit: %w", err)
	}
	habit.DeletedAt = nil

	last, err := endOfMonth(today)
	if err != nil {
		return habit, err
	}
	if _, err := t.mat.EnsureOccurrences(habit, today, last, today); err != nil {
		return habit, fmt.Errorf("failed to materialize habit: %w", err)
	}
	t.invalidate(ctx, userID)
	return habit, nil
}

// PurgeHabit removes a habit and its whole ledger permanently
func (t *Tracker) PurgeHabit(ctx context.Context, userID, habitID string) error {
	if _, err := t.ownedHabit(userID, habitID); err != nil {
		return err
	}
	if err := t.store.PurgeHabit(habitID); err != nil {
		return fmt.Errorf("failed to purge habit: %w", err)
	}
	t.invalidate(ctx, userID)
	logger.ForUser(userID).Warn("Purged habit", "id", habitID)
	return nil
}

// MarkAllDone completes every occurrence the user has on today.
// Today is materialized first so habits added since the last view count.
func (t *Tracker) MarkAllDone(ctx context.Context, userID, today string) (int, error) {
	if err := validation.Day(today); err != nil {
		return 0, err
	}
	if err := t.requireUser(userID); err != nil {
		return 0, err
	}
	if _, err := t.mat.EnsureForUser(userID, today, today, today); err != nil {
		return 0, fmt.Errorf("failed to materialize today: %w", err)
	}

	n, err := t.store.CompleteHabitEntriesForDay(userID, today)
	if err != nil {
		return 0, fmt.Errorf("failed to complete entries: %w", err)
	}
	t.invalidate(ctx, userID)
	return n, nil
}

// HabitStats summarizes a habit over its whole ledger up to today
func (t *Tracker) HabitStats(ctx context.Context, userID, habitID, today string) (HabitStats, error) {
	if err := validation.Day(today); err != nil {
		return HabitStats{}, err
	}
	habit, err := t.ownedHabit(userID, habitID)
	if err != nil {
		return HabitStats{}, err
	}
	history, err := t.store.GetHabitEntriesForHabit(habitID, constants.MinDay, today)
	if err != nil {
		return HabitStats{}, fmt.Errorf("failed to load history: %w", err)
	}
	return HabitStats{Habit: habit, Stats: stats.Summarize(history, history, today)}, nil
}

// UpdateSettings validates and stores settings. Timezone and ranking
// changes alter every cached month view, so the whole cache is dropped.
func (t *Tracker) UpdateSettings(ctx context.Context, settings models.Settings) error {
	if err := validation.Timezone(settings.Timezone); err != nil {
		return err
	}
	if settings.TopReasonsLimit < 1 {
		return cerrors.Invalid("top_reasons_limit", "must be at least 1, got %d", settings.TopReasonsLimit)
	}
	if err := t.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	t.cache.InvalidatePrefix(ctx, constants.CacheKeyPrefix)
	return nil
}

// Habits lists the user's habits
func (t *Tracker) Habits(ctx context.Context, userID string, includeDeleted bool) ([]models.Habit, error) {
	if err := t.requireUser(userID); err != nil {
		return nil, err
	}
	return t.store.GetHabitsForUser(userID, includeDeleted)
}

// Reasons lists the user's day reasons in [start, end]
func (t *Tracker) Reasons(ctx context.Context, userID, start, end string) ([]models.DayReason, error) {
	for _, day := range []string{start, end} {
		if err := validation.Day(day); err != nil {
			return nil, err
		}
	}
	if err := t.requireUser(userID); err != nil {
		return nil, err
	}
	return t.store.GetDayReasons(userID, start, end)
}

// Export flattens the user's whole ledger. Deleted habits are included
// only when asked for.
func (t *Tracker) Export(ctx context.Context, userID string, includeDeleted bool) ([]export.Record, error) {
	if err := t.requireUser(userID); err != nil {
		return nil, err
	}
	habits, err := t.store.GetHabitsForUser(userID, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	// one slot per habit keeps the record order independent of scheduling
	ledgers := make([][]models.HabitEntry, len(habits))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(constants.HistoryLoadConcurrency)
	for i, h := range habits {
		g.Go(func() error {
			ledger, err := t.store.GetHabitEntriesForHabit(h.ID, constants.MinDay, constants.MaxDay)
			if err != nil {
				return fmt.Errorf("failed to load entries for habit %s: %w", h.ID, err)
			}
			ledgers[i] = ledger
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var entries []models.HabitEntry
	for _, ledger := range ledgers {
		entries = append(entries, ledger...)
	}

	reasons, err := t.store.GetDayReasons(userID, constants.MinDay, constants.MaxDay)
	if err != nil {
		return nil, fmt.Errorf("failed to load reasons: %w", err)
	}
	return export.Build(habits, entries, reasons), nil
}

// Validate checks the user's stored ledger against the recurrence rules
func (t *Tracker) Validate(ctx context.Context, userID string) (validation.ValidationResult, error) {
	if err := t.requireUser(userID); err != nil {
		return validation.ValidationResult{}, err
	}
	habits, err := t.store.GetHabitsForUser(userID, true)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to load habits: %w", err)
	}
	var entries []models.HabitEntry
	for _, h := range habits {
		ledger, err := t.store.GetHabitEntriesForHabit(h.ID, constants.MinDay, constants.MaxDay)
		if err != nil {
			return validation.ValidationResult{}, fmt.Errorf("failed to load entries for habit %s: %w", h.ID, err)
		}
		entries = append(entries, ledger...)
	}
	return validation.New().ValidateLedger(habits, entries), nil
}
