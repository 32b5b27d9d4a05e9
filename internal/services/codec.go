package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
)

// Timestamp layouts accepted when reading persisted data, most specific first
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	domain.DateLayout,
}

// legacyStatusLabels maps status labels written by older versions of the
// tool to canonical statuses
var legacyStatusLabels = map[string]domain.Status{
	"未开始": domain.StatusNotStarted,
	"进行中": domain.StatusInProgress,
	"已完成": domain.StatusCompleted,
}

// flagRecord is the permissive on-disk shape of a flag. Every field is
// optional so that records from any schema version decode cleanly.
type flagRecord struct {
	Category          string          `json:"category"`
	CheckHistory      []checkRecord   `json:"check_history"`
	CreatedDate       string          `json:"created_date"`
	Description       string          `json:"description"`
	FeasibilityReason string          `json:"feasibility_reason"`
	FeasibilityScore  *float64        `json:"feasibility_score"`
	Frequency         string          `json:"frequency"`
	Goal              string          `json:"goal"`
	ID                json.RawMessage `json:"id"`
	Logs              []logRecord     `json:"logs"`
	Name              string          `json:"name"`
	Progress          float64         `json:"progress"`
	SchemaVersion     int             `json:"schema_version"`
	Status            string          `json:"status"`
	StatusOverride    bool            `json:"status_override"`
	TargetDate        string          `json:"target_date"`
	Task              string          `json:"task"`
	Title             string          `json:"title"`
}

type checkRecord struct {
	Date     string  `json:"date"`
	Notes    string  `json:"notes"`
	Progress float64 `json:"progress"`
}

type logRecord struct {
	Content   string          `json:"content"`
	ID        json.RawMessage `json:"id"`
	Timestamp string          `json:"timestamp"`
}

// encodeSnapshot serializes the collection as a JSON array of canonical records
func encodeSnapshot(flags []domain.Flag) ([]byte, error) {
	out := make([]domain.Flag, len(flags))
	for i, f := range flags {
		out[i] = f.Clone()
		out[i].SchemaVersion = domain.CurrentSchemaVersion
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// decodeSnapshot parses a snapshot and migrates every record to the current
// schema. now supplies defaults for records missing a creation date.
// A blank blob is an empty collection.
func decodeSnapshot(data []byte, now time.Time) ([]domain.Flag, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Flag{}, nil
	}

	var records []flagRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	flags := make([]domain.Flag, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		f := migrateRecord(rec, now)
		if seen[f.ID] {
			newID := uuid.NewString()
			logging.Logger.Warn("Duplicate flag id in snapshot, assigning a new one",
				"id", f.ID, "newID", newID)
			f.ID = newID
		}
		seen[f.ID] = true
		flags = append(flags, f)
	}
	return flags, nil
}

// migrateRecord converts a stored record of any schema version into the
// canonical Flag
func migrateRecord(rec flagRecord, now time.Time) domain.Flag {
	f := domain.Flag{
		Category:          rec.Category,
		CheckHistory:      make([]domain.CheckRecord, 0, len(rec.CheckHistory)),
		Description:       rec.Description,
		FeasibilityReason: rec.FeasibilityReason,
		Frequency:         rec.Frequency,
		Goal:              rec.Goal,
		ID:                rawID(rec.ID),
		Logs:              make([]domain.Log, 0, len(rec.Logs)),
		Progress:          domain.ProgressFromFloat(rec.Progress),
		SchemaVersion:     domain.CurrentSchemaVersion,
		StatusOverride:    rec.StatusOverride,
		Task:              rec.Task,
		Title:             rec.Title,
	}

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Title == "" {
		f.Title = rec.Name
	}
	if f.Category == "" {
		f.Category = domain.DefaultCategory
	}

	f.CreatedDate = parseRecordDate(rec.CreatedDate)
	if f.CreatedDate.IsZero() {
		f.CreatedDate = domain.DateOf(now)
	}
	// An unparsable target date is treated as absent
	f.TargetDate = parseRecordDate(rec.TargetDate)

	if rec.FeasibilityScore != nil {
		score := domain.ProgressFromFloat(*rec.FeasibilityScore)
		f.FeasibilityScore = &score
	}

	f.Status = migrateStatus(rec.Status, f.Progress)

	for _, c := range rec.CheckHistory {
		// Records with an unreadable date are kept with a zero time
		at, ok := parseTimestamp(c.Date)
		if !ok {
			logging.Logger.Warn("Check record has an unreadable date",
				"flag", f.ID, "date", c.Date)
		}
		f.CheckHistory = append(f.CheckHistory, domain.CheckRecord{
			Date:     at,
			Notes:    c.Notes,
			Progress: domain.ProgressFromFloat(c.Progress),
		})
	}

	for _, l := range rec.Logs {
		at, _ := parseTimestamp(l.Timestamp)
		id := rawID(l.ID)
		if id == "" {
			id = uuid.NewString()
		}
		f.Logs = append(f.Logs, domain.Log{
			Content:   l.Content,
			ID:        id,
			Timestamp: at,
		})
	}

	return f
}

func migrateStatus(label string, progress int) domain.Status {
	if status := domain.Status(label); status.Valid() {
		return status
	}
	if status, ok := legacyStatusLabels[label]; ok {
		return status
	}
	return domain.StatusFromProgress(progress)
}

// rawID accepts ids stored either as JSON strings or as bare numbers
func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

// parseTimestamp parses the timestamp formats written by any version of the
// tool. Zone-less timestamps are taken in local time.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseRecordDate(s string) domain.Date {
	t, ok := parseTimestamp(s)
	if !ok {
		return domain.Date{}
	}
	return domain.DateOf(t)
}
