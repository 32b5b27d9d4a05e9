package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
	"flagkeeper/internal/ports"
)

// Default option values
const (
	DefaultDeadlineWindowDays = 30
	DefaultRecentWindowDays   = 7
	DefaultReminderDays       = 30
)

// Options tune FlagStore behavior. Zero fields fall back to defaults, except
// FeasibilityEnabled which is only on when set (see DefaultOptions).
type Options struct {
	Clock              ports.Clock
	DeadlineWindowDays int
	DefaultCategory    string
	FeasibilityEnabled bool
	Policy             domain.StatusPolicy
	RecentWindowDays   int
	ReminderDays       int
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Clock:              ports.SystemClock{},
		DeadlineWindowDays: DefaultDeadlineWindowDays,
		DefaultCategory:    domain.DefaultCategory,
		FeasibilityEnabled: true,
		Policy:             domain.PolicyProgress,
		RecentWindowDays:   DefaultRecentWindowDays,
		ReminderDays:       DefaultReminderDays,
	}
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = ports.SystemClock{}
	}
	if o.DeadlineWindowDays <= 0 {
		o.DeadlineWindowDays = DefaultDeadlineWindowDays
	}
	if o.DefaultCategory == "" {
		o.DefaultCategory = domain.DefaultCategory
	}
	if o.Policy == "" {
		o.Policy = domain.PolicyProgress
	}
	if o.RecentWindowDays <= 0 {
		o.RecentWindowDays = DefaultRecentWindowDays
	}
	if o.ReminderDays <= 0 {
		o.ReminderDays = DefaultReminderDays
	}
	return o
}

// AddFlagParams contains the caller-supplied fields of a new flag
type AddFlagParams struct {
	Category    string
	Description string
	Frequency   string
	Goal        string
	// Name is used as the title when Title is empty
	Name       string
	TargetDate domain.Date
	Task       string
	Title      string
}

// ListFilter restricts List results. Empty fields do not filter.
type ListFilter struct {
	Category string
	Status   domain.Status
}

// FlagStore owns the in-memory flag collection and mirrors it to one
// snapshot slot after every mutation. It is not safe for concurrent
// mutation; read-only queries may run concurrently with each other.
type FlagStore struct {
	flags      []domain.Flag
	key        string
	opts       Options
	persistErr error
	slot       ports.SnapshotStore
}

// NewFlagStore loads the collection stored under key. A missing or
// unreadable snapshot yields an empty collection; the failure is logged.
func NewFlagStore(ctx context.Context, slot ports.SnapshotStore, key string, opts Options) *FlagStore {
	s := &FlagStore{
		flags: []domain.Flag{},
		key:   key,
		opts:  opts.withDefaults(),
		slot:  slot,
	}
	s.load(ctx)
	return s
}

func (s *FlagStore) load(ctx context.Context) {
	data, err := s.slot.Load(ctx, s.key)
	if err != nil {
		if errors.Is(err, ports.ErrSlotNotFound) {
			logging.Logger.Debug("No snapshot stored yet", "key", s.key)
			return
		}
		logging.Logger.Error("Failed to load snapshot, starting empty", "key", s.key, "error", err)
		return
	}

	flags, err := decodeSnapshot(data, s.opts.Clock.Now())
	if err != nil {
		logging.Logger.Error("Failed to parse snapshot, starting empty", "key", s.key, "error", err)
		return
	}

	s.flags = flags
	logging.Logger.Info("Snapshot loaded", "key", s.key, "flags", len(flags))
}

// persist writes the whole collection to the slot. Failures are logged and
// remembered; the in-memory state stays authoritative.
func (s *FlagStore) persist(ctx context.Context) {
	data, err := encodeSnapshot(s.flags)
	if err == nil {
		err = s.slot.Save(ctx, s.key, data)
	}
	if err != nil {
		logging.Logger.Error("Failed to persist snapshot", "key", s.key, "error", err)
		s.persistErr = fmt.Errorf("failed to persist snapshot: %w", err)
		return
	}
	s.persistErr = nil
	logging.Logger.Debug("Snapshot persisted", "key", s.key, "flags", len(s.flags))
}

// PersistErr returns the error of the most recent save, or nil when it succeeded
func (s *FlagStore) PersistErr() error {
	return s.persistErr
}

// Key returns the storage key of the slot backing the store
func (s *FlagStore) Key() string {
	return s.key
}

func (s *FlagStore) indexOf(id string) int {
	return slices.IndexFunc(s.flags, func(f domain.Flag) bool { return f.ID == id })
}

func (s *FlagStore) newFlag(params AddFlagParams) domain.Flag {
	now := s.opts.Clock.Now()

	title := params.Title
	if title == "" {
		title = params.Name
	}
	category := params.Category
	if category == "" {
		category = s.opts.DefaultCategory
	}

	f := domain.Flag{
		Category:      category,
		CheckHistory:  []domain.CheckRecord{},
		CreatedDate:   domain.DateOf(now),
		Description:   params.Description,
		Frequency:     params.Frequency,
		Goal:          params.Goal,
		ID:            uuid.NewString(),
		Logs:          []domain.Log{},
		Progress:      0,
		SchemaVersion: domain.CurrentSchemaVersion,
		Status:        domain.StatusInProgress,
		TargetDate:    params.TargetDate,
		Task:          params.Task,
		Title:         title,
	}

	if s.opts.FeasibilityEnabled {
		assessment := domain.Assess(f.Title, f.Description, f.TargetDate, now)
		f.FeasibilityScore = &assessment.Score
		f.FeasibilityReason = assessment.Reason
	}
	return f
}

// Add creates a flag from params, appends it and persists.
// Field validation is the caller's job; missing fields get defaults.
func (s *FlagStore) Add(ctx context.Context, params AddFlagParams) domain.Flag {
	f := s.newFlag(params)
	s.flags = append(s.flags, f)
	logging.Logger.Info("Flag added", "id", f.ID, "title", f.Title, "category", f.Category)
	s.persist(ctx)
	return f.Clone()
}

// UpdateProgress clamps progress, records a check and re-derives status
// following the configured status policy
func (s *FlagStore) UpdateProgress(ctx context.Context, id string, progress int, notes string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrFlagNotFound, id)
	}

	f := &s.flags[i]
	f.ApplyProgress(progress, notes, s.opts.Clock.Now(), s.opts.Policy)
	logging.Logger.Info("Flag progress updated",
		"id", id, "progress", f.Progress, "status", f.Status)
	s.persist(ctx)
	return nil
}

// UpdateStatus overrides the status. Completing a flag forces progress to 100.
func (s *FlagStore) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrFlagNotFound, id)
	}

	if err := s.flags[i].ApplyStatus(status); err != nil {
		return err
	}
	logging.Logger.Info("Flag status overridden", "id", id, "status", status)
	s.persist(ctx)
	return nil
}

// Delete removes a flag together with its history and logs
func (s *FlagStore) Delete(ctx context.Context, id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrFlagNotFound, id)
	}

	s.flags = slices.Delete(s.flags, i, i+1)
	logging.Logger.Info("Flag deleted", "id", id)
	s.persist(ctx)
	return nil
}

// Get returns a copy of the flag with the given id
func (s *FlagStore) Get(id string) (domain.Flag, error) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Flag{}, fmt.Errorf("%w: %s", domain.ErrFlagNotFound, id)
	}
	return s.flags[i].Clone(), nil
}

// Resolve maps a full id or a unique id prefix to the full id
func (s *FlagStore) Resolve(idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty id", domain.ErrFlagNotFound)
	}
	if s.indexOf(idOrPrefix) >= 0 {
		return idOrPrefix, nil
	}

	var matches []string
	for _, f := range s.flags {
		if strings.HasPrefix(f.ID, idOrPrefix) {
			matches = append(matches, f.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", domain.ErrFlagNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d flags", domain.ErrAmbiguousID, idOrPrefix, len(matches))
	}
}

// List returns copies of the flags matching filter, newest created first.
// Flags created on the same date keep insertion order.
func (s *FlagStore) List(filter ListFilter) []domain.Flag {
	out := make([]domain.Flag, 0, len(s.flags))
	for _, f := range s.flags {
		if filter.Category != "" && f.Category != filter.Category {
			continue
		}
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		out = append(out, f.Clone())
	}

	slices.SortStableFunc(out, func(a, b domain.Flag) int {
		return b.CreatedDate.Compare(a.CreatedDate)
	})
	return out
}

// Search returns copies of the flags whose title, description or category
// contains query, ignoring case, in insertion order. An empty query matches
// every flag.
func (s *FlagStore) Search(query string) []domain.Flag {
	q := strings.ToLower(query)
	out := []domain.Flag{}
	for _, f := range s.flags {
		if strings.Contains(strings.ToLower(f.Title), q) ||
			strings.Contains(strings.ToLower(f.Description), q) ||
			strings.Contains(strings.ToLower(f.Category), q) {
			out = append(out, f.Clone())
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order
func (s *FlagStore) Categories() []string {
	out := []string{}
	for _, f := range s.flags {
		if !slices.Contains(out, f.Category) {
			out = append(out, f.Category)
		}
	}
	return out
}

// Len returns the number of flags in the collection
func (s *FlagStore) Len() int {
	return len(s.flags)
}

// Now returns the current time according to the store's clock
func (s *FlagStore) Now() time.Time {
	return s.opts.Clock.Now()
}
