package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/models"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Record is one row of the completion ledger
type Record struct {
	HabitName  string                   `json:"habit"`
	Recurrence constants.RecurrenceType `json:"recurrence"`
	Date       string                   `json:"date"`
	Completed  bool                     `json:"completed"`
	DayReason  string                   `json:"day_reason,omitempty"`
}

// Key addresses a single ledger cell
type Key struct {
	HabitName string
	Date      string
}

var csvHeader = []string{"habit", "recurrence", "date", "completed", "day_reason"}

// Build flattens habits, their entries and the user's day reasons into
// records ordered by date and then habit name. Entries of habits missing
// from habits are dropped.
func Build(habits []models.Habit, entries []models.HabitEntry, reasons []models.DayReason) []Record {
	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}
	reasonByDay := make(map[string]string, len(reasons))
	for _, r := range reasons {
		reasonByDay[r.Day] = r.Text
	}

	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		h, ok := byID[e.HabitID]
		if !ok {
			continue
		}
		records = append(records, Record{
			HabitName:  h.Name,
			Recurrence: h.Recurrence,
			Date:       e.Day,
			Completed:  e.Completed,
			DayReason:  reasonByDay[e.Day],
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].HabitName < records[j].HabitName
	})
	return records
}

// Regroup rebuilds the completion ledger keyed by habit name and date
func Regroup(records []Record) map[Key]bool {
	ledger := make(map[Key]bool, len(records))
	for _, r := range records {
		ledger[Key{HabitName: r.HabitName, Date: r.Date}] = r.Completed
	}
	return ledger
}

// Write serializes records in the requested format
func Write(w io.Writer, format Format, records []Record) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatJSON:
		return WriteJSON(w, records)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.HabitName, string(r.Recurrence), r.Date, strconv.FormatBool(r.Completed), r.DayReason}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses output of WriteCSV back into records
func ReadCSV(r io.Reader) ([]Record, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(csvHeader), len(row))
		}
		done, err := strconv.ParseBool(row[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid completed value %q", i+2, row[3])
		}
		records = append(records, Record{
			HabitName:  row[0],
			Recurrence: constants.RecurrenceType(row[1]),
			Date:       row[2],
			Completed:  done,
			DayReason:  row[4],
		})
	}
	return records, nil
}

func WriteJSON(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}
