package domain

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// CurrentSchemaVersion is the version written for every persisted flag.
// Version 0 denotes records written before versioning existed.
const CurrentSchemaVersion = 2

// DefaultCategory is used when a flag is added without a category
const DefaultCategory = "Other"

// Status represents the lifecycle status of a flag
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Status symbols (Unicode)
const (
	SymbolCompleted  = "●" // Green - goal reached
	SymbolInProgress = "◐" // Yellow - underway
	SymbolNotStarted = "○" // Gray - nothing recorded yet
)

// AllStatuses lists statuses in display order
var AllStatuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted}

// ParseStatus converts a string into a Status, rejecting unknown values
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	return slices.Contains(AllStatuses, s)
}

// Active reports whether a flag with this status still needs work
func (s Status) Active() bool {
	return s == StatusNotStarted || s == StatusInProgress
}

// Symbol returns the display symbol for the status
func (s Status) Symbol() string {
	switch s {
	case StatusCompleted:
		return SymbolCompleted
	case StatusInProgress:
		return SymbolInProgress
	default:
		return SymbolNotStarted
	}
}

// StatusFromProgress derives a status from a (clamped) progress value
func StatusFromProgress(progress int) Status {
	switch {
	case progress >= 100:
		return StatusCompleted
	case progress > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// ClampProgress bounds progress to [0, 100]
func ClampProgress(progress int) int {
	return max(0, min(100, progress))
}

// ProgressFromFloat rounds a decoded JSON number to a bounded progress.
// Bounds are applied before the int conversion so huge values do not wrap.
func ProgressFromFloat(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(max(0, min(100, v))))
}

// CheckRecord is one progress update in a flag's history
type CheckRecord struct {
	Date     time.Time `json:"date" yaml:"date"`
	Notes    string    `json:"notes" yaml:"notes"`
	Progress int       `json:"progress" yaml:"progress"`
}

// Log is a free-text journal entry attached to a flag
type Log struct {
	Content   string    `json:"content" yaml:"content"`
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Flag represents a tracked goal (domain entity)
type Flag struct {
	Category          string        `json:"category" yaml:"category"`
	CheckHistory      []CheckRecord `json:"check_history" yaml:"check_history"`
	CreatedDate       Date          `json:"created_date" yaml:"created_date"`
	Description       string        `json:"description" yaml:"description"`
	FeasibilityReason string        `json:"feasibility_reason" yaml:"feasibility_reason"`
	FeasibilityScore  *int          `json:"feasibility_score" yaml:"feasibility_score"`
	Frequency         string        `json:"frequency" yaml:"frequency"`
	Goal              string        `json:"goal" yaml:"goal"`
	ID                string        `json:"id" yaml:"id"`
	Logs              []Log         `json:"logs" yaml:"logs"`
	Progress          int           `json:"progress" yaml:"progress"`
	SchemaVersion     int           `json:"schema_version" yaml:"schema_version"`
	Status            Status        `json:"status" yaml:"status"`
	StatusOverride    bool          `json:"status_override" yaml:"status_override"`
	TargetDate        Date          `json:"target_date" yaml:"target_date"`
	Task              string        `json:"task" yaml:"task"`
	Title             string        `json:"title" yaml:"title"`
}

// Clone returns a deep copy so callers cannot mutate stored state
func (f Flag) Clone() Flag {
	c := f
	c.CheckHistory = slices.Clone(f.CheckHistory)
	if c.CheckHistory == nil {
		c.CheckHistory = []CheckRecord{}
	}
	c.Logs = slices.Clone(f.Logs)
	if c.Logs == nil {
		c.Logs = []Log{}
	}
	if f.FeasibilityScore != nil {
		score := *f.FeasibilityScore
		c.FeasibilityScore = &score
	}
	return c
}

// LastCheck returns the most recent check record, if any
func (f Flag) LastCheck() (CheckRecord, bool) {
	if len(f.CheckHistory) == 0 {
		return CheckRecord{}, false
	}
	return f.CheckHistory[len(f.CheckHistory)-1], true
}

// LastActivity returns when the flag was last checked, falling back to
// midnight of its creation date in now's location
func (f Flag) LastActivity(loc *time.Location) time.Time {
	if last, ok := f.LastCheck(); ok && !last.Date.IsZero() {
		return last.Date
	}
	return f.CreatedDate.In(loc)
}

// StatusPolicy decides how an explicit status override interacts with
// later progress updates
type StatusPolicy string

const (
	// PolicyProgress re-derives status from progress on every update, so an
	// override only lasts until the next progress update
	PolicyProgress StatusPolicy = "progress"
	// PolicyStickyCompleted keeps an explicit "completed" override across
	// progress updates
	PolicyStickyCompleted StatusPolicy = "sticky_completed"
)

// ParseStatusPolicy converts a configuration string to a StatusPolicy.
// Empty selects PolicyProgress.
func ParseStatusPolicy(s string) (StatusPolicy, error) {
	switch StatusPolicy(s) {
	case "", PolicyProgress:
		return PolicyProgress, nil
	case PolicyStickyCompleted:
		return PolicyStickyCompleted, nil
	}
	return "", fmt.Errorf("unknown status policy %q (expected %q or %q)", s, PolicyProgress, PolicyStickyCompleted)
}

// ApplyProgress records a progress update on f following policy.
// The caller supplies the check timestamp.
func (f *Flag) ApplyProgress(progress int, notes string, at time.Time, policy StatusPolicy) {
	f.Progress = ClampProgress(progress)
	f.CheckHistory = append(f.CheckHistory, CheckRecord{
		Date:     at,
		Notes:    notes,
		Progress: f.Progress,
	})

	if policy == PolicyStickyCompleted && f.StatusOverride && f.Status == StatusCompleted {
		return
	}
	f.Status = StatusFromProgress(f.Progress)
	f.StatusOverride = false
}

// ApplyStatus sets status explicitly. Completing a flag forces progress to 100.
func (f *Flag) ApplyStatus(status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	f.Status = status
	f.StatusOverride = true
	if status == StatusCompleted {
		f.Progress = 100
	}
	return nil
}
