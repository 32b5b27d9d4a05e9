package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flagkeeper/internal/adapters/storage"
	"flagkeeper/internal/domain"
	"flagkeeper/internal/ports"
	portsmocks "flagkeeper/internal/ports/mocks"
)

const testKey = "newyear_flags"

var baseTime = time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(days int) { c.now = c.now.AddDate(0, 0, days) }

func newTestStore(t *testing.T, configure ...func(*Options)) (*FlagStore, *storage.MemoryStore, *fixedClock) {
	t.Helper()

	clock := &fixedClock{now: baseTime}
	opts := DefaultOptions()
	opts.Clock = clock
	for _, fn := range configure {
		fn(&opts)
	}

	slot := storage.NewMemoryStore()
	return NewFlagStore(context.Background(), slot, testKey, opts), slot, clock
}

func TestAdd_AppliesDefaults(t *testing.T) {
	store, _, _ := newTestStore(t)

	f := store.Add(context.Background(), AddFlagParams{Title: "Run a marathon"})

	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "Run a marathon", f.Title)
	assert.Equal(t, domain.DefaultCategory, f.Category)
	assert.Equal(t, "2026-01-10", f.CreatedDate.String())
	assert.Equal(t, 0, f.Progress)
	assert.Equal(t, domain.StatusInProgress, f.Status)
	assert.Empty(t, f.CheckHistory)
	assert.NotNil(t, f.CheckHistory)
	assert.Empty(t, f.Logs)
	assert.Equal(t, "", f.Goal)
	assert.Equal(t, "", f.Task)
	require.NotNil(t, f.FeasibilityScore)
	assert.NotEmpty(t, f.FeasibilityReason)
}

func TestAdd_TitleFallsBackToName(t *testing.T) {
	store, _, _ := newTestStore(t)

	f := store.Add(context.Background(), AddFlagParams{Name: "Learn to swim"})

	assert.Equal(t, "Learn to swim", f.Title)
}

func TestAdd_ConfiguredDefaultCategory(t *testing.T) {
	store, _, _ := newTestStore(t, func(o *Options) { o.DefaultCategory = "Misc" })

	f := store.Add(context.Background(), AddFlagParams{Title: "Anything"})

	assert.Equal(t, "Misc", f.Category)
}

func TestAdd_UniqueIDs(t *testing.T) {
	store, _, _ := newTestStore(t)
	seen := make(map[string]bool)

	for range 50 {
		f := store.Add(context.Background(), AddFlagParams{Title: "Same title"})
		assert.False(t, seen[f.ID], "duplicate id %s", f.ID)
		seen[f.ID] = true
	}
	assert.Equal(t, 50, store.Len())
}

func TestAdd_FeasibilityScenario(t *testing.T) {
	store, _, _ := newTestStore(t)

	f := store.Add(context.Background(), AddFlagParams{
		Description: "Read one book per month this year",
		TargetDate:  domain.DateOf(baseTime).AddDays(200),
		Title:       "Read 12 books",
	})

	require.NotNil(t, f.FeasibilityScore)
	assert.Equal(t, 100, *f.FeasibilityScore)
}

func TestAdd_FeasibilityDisabled(t *testing.T) {
	store, _, _ := newTestStore(t, func(o *Options) { o.FeasibilityEnabled = false })

	f := store.Add(context.Background(), AddFlagParams{Title: "Read 12 books"})

	assert.Nil(t, f.FeasibilityScore)
	assert.Empty(t, f.FeasibilityReason)
}

func TestAdd_Persists(t *testing.T) {
	store, slot, _ := newTestStore(t)

	f := store.Add(context.Background(), AddFlagParams{Title: "Persist me"})

	data, err := slot.Load(context.Background(), testKey)
	require.NoError(t, err)
	assert.Contains(t, string(data), f.ID)
	assert.NoError(t, store.PersistErr())
}

func TestUpdateProgress_ClampsAndDerivesStatus(t *testing.T) {
	tests := []struct {
		name             string
		progress         int
		expectedProgress int
		expectedStatus   domain.Status
	}{
		{"below zero", -10, 0, domain.StatusNotStarted},
		{"zero", 0, 0, domain.StatusNotStarted},
		{"partial", 50, 50, domain.StatusInProgress},
		{"complete", 100, 100, domain.StatusCompleted},
		{"above hundred", 150, 100, domain.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _, _ := newTestStore(t)
			ctx := context.Background()
			f := store.Add(ctx, AddFlagParams{Title: "Progress test"})

			require.NoError(t, store.UpdateProgress(ctx, f.ID, tt.progress, "note"))

			got, err := store.Get(f.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedProgress, got.Progress)
			assert.Equal(t, tt.expectedStatus, got.Status)
			require.Len(t, got.CheckHistory, 1)
			assert.Equal(t, tt.expectedProgress, got.CheckHistory[0].Progress)
			assert.Equal(t, "note", got.CheckHistory[0].Notes)
			assert.Equal(t, baseTime, got.CheckHistory[0].Date)
		})
	}
}

func TestUpdateProgress_HistoryAppends(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()
	f := store.Add(ctx, AddFlagParams{Title: "History"})

	require.NoError(t, store.UpdateProgress(ctx, f.ID, 10, "first"))
	clock.Advance(1)
	require.NoError(t, store.UpdateProgress(ctx, f.ID, 30, "second"))

	got, err := store.Get(f.ID)
	require.NoError(t, err)
	require.Len(t, got.CheckHistory, 2)
	assert.Equal(t, "first", got.CheckHistory[0].Notes)
	assert.Equal(t, "second", got.CheckHistory[1].Notes)
	assert.True(t, got.CheckHistory[1].Date.After(got.CheckHistory[0].Date))
}

func TestUpdateProgress_NotFound(t *testing.T) {
	store, _, _ := newTestStore(t)

	err := store.UpdateProgress(context.Background(), "missing", 10, "")

	assert.ErrorIs(t, err, domain.ErrFlagNotFound)
}

func TestUpdateStatus(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	f := store.Add(ctx, AddFlagParams{Title: "Quick complete"})

	require.NoError(t, store.UpdateStatus(ctx, f.ID, domain.StatusCompleted))

	got, err := store.Get(f.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.True(t, got.StatusOverride)

	assert.ErrorIs(t, store.UpdateStatus(ctx, f.ID, domain.Status("paused")), domain.ErrInvalidStatus)
	assert.ErrorIs(t, store.UpdateStatus(ctx, "missing", domain.StatusCompleted), domain.ErrFlagNotFound)
}

func TestStatusPolicy(t *testing.T) {
	tests := []struct {
		policy         domain.StatusPolicy
		expectedStatus domain.Status
	}{
		{domain.PolicyProgress, domain.StatusInProgress},
		{domain.PolicyStickyCompleted, domain.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			store, _, _ := newTestStore(t, func(o *Options) { o.Policy = tt.policy })
			ctx := context.Background()
			f := store.Add(ctx, AddFlagParams{Title: "Override then progress"})

			require.NoError(t, store.UpdateStatus(ctx, f.ID, domain.StatusCompleted))
			require.NoError(t, store.UpdateProgress(ctx, f.ID, 40, "slipped back"))

			got, err := store.Get(f.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, got.Status)
			assert.Equal(t, 40, got.Progress)
			assert.Len(t, got.CheckHistory, 1)
		})
	}
}

func TestDelete(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	keep := store.Add(ctx, AddFlagParams{Title: "Keep me"})
	drop := store.Add(ctx, AddFlagParams{Title: "Drop me"})
	_, err := store.AddLog(ctx, drop.ID, "a log")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, drop.ID))

	_, err = store.Get(drop.ID)
	assert.ErrorIs(t, err, domain.ErrFlagNotFound)
	assert.ErrorIs(t, store.Delete(ctx, drop.ID), domain.ErrFlagNotFound)
	assert.Empty(t, store.Logs(drop.ID))

	_, err = store.Get(keep.ID)
	assert.NoError(t, err)
}

func TestGet_ReturnsCopy(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	f := store.Add(ctx, AddFlagParams{Title: "Immutable"})
	require.NoError(t, store.UpdateProgress(ctx, f.ID, 20, "check"))

	got, err := store.Get(f.ID)
	require.NoError(t, err)
	got.Title = "changed"
	got.CheckHistory[0].Notes = "changed"

	again, err := store.Get(f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Immutable", again.Title)
	assert.Equal(t, "check", again.CheckHistory[0].Notes)
}

func TestResolve(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	a := store.Add(ctx, AddFlagParams{Title: "First"})
	b := store.Add(ctx, AddFlagParams{Title: "Second"})

	id, err := store.Resolve(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	id, err = store.Resolve(b.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, b.ID, id)

	_, err = store.Resolve("zzz")
	assert.ErrorIs(t, err, domain.ErrFlagNotFound)

	_, err = store.Resolve("")
	assert.ErrorIs(t, err, domain.ErrFlagNotFound)
}

func TestResolve_Ambiguous(t *testing.T) {
	slot := storage.NewMemoryStore()
	require.NoError(t, slot.Save(context.Background(), testKey,
		[]byte(`[{"id":"abc-1","title":"One"},{"id":"abc-2","title":"Two"}]`)))
	store := NewFlagStore(context.Background(), slot, testKey, DefaultOptions())

	_, err := store.Resolve("abc")

	assert.ErrorIs(t, err, domain.ErrAmbiguousID)
}

func TestList_FiltersAndOrdering(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()

	oldest := store.Add(ctx, AddFlagParams{Title: "Oldest", Category: "Health"})
	clock.Advance(1)
	tieFirst := store.Add(ctx, AddFlagParams{Title: "Tie first", Category: "Learning"})
	tieSecond := store.Add(ctx, AddFlagParams{Title: "Tie second", Category: "Health"})
	clock.Advance(1)
	newest := store.Add(ctx, AddFlagParams{Title: "Newest", Category: "Health"})
	require.NoError(t, store.UpdateStatus(ctx, newest.ID, domain.StatusCompleted))

	all := store.List(ListFilter{})
	require.Len(t, all, 4)
	assert.Equal(t, []string{newest.ID, tieFirst.ID, tieSecond.ID, oldest.ID}, ids(all))

	health := store.List(ListFilter{Category: "Health"})
	assert.Equal(t, []string{newest.ID, tieSecond.ID, oldest.ID}, ids(health))

	healthActive := store.List(ListFilter{Category: "Health", Status: domain.StatusInProgress})
	assert.Equal(t, []string{tieSecond.ID, oldest.ID}, ids(healthActive))

	assert.Empty(t, store.List(ListFilter{Category: "Nope"}))
}

func TestSearch(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	a := store.Add(ctx, AddFlagParams{Title: "Learn Go", Category: "Learning"})
	b := store.Add(ctx, AddFlagParams{Title: "Run", Description: "Jog every MORNING", Category: "Health"})
	c := store.Add(ctx, AddFlagParams{Title: "Save money", Category: "Finance"})

	assert.Equal(t, []string{a.ID}, ids(store.Search("learn go")))
	assert.Equal(t, []string{b.ID}, ids(store.Search("morning")))
	assert.Equal(t, []string{c.ID}, ids(store.Search("FINANCE")))
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, ids(store.Search("")))
	assert.Empty(t, store.Search("nothing matches"))
}

func TestCategories(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	assert.Empty(t, store.Categories())

	store.Add(ctx, AddFlagParams{Title: "a", Category: "Health"})
	store.Add(ctx, AddFlagParams{Title: "b", Category: "Learning"})
	store.Add(ctx, AddFlagParams{Title: "c", Category: "Health"})
	store.Add(ctx, AddFlagParams{Title: "d"})

	assert.Equal(t, []string{"Health", "Learning", domain.DefaultCategory}, store.Categories())
}

func TestStatistics_Empty(t *testing.T) {
	store, _, _ := newTestStore(t)

	assert.Equal(t, domain.Statistics{}, store.Statistics())
}

func TestStatistics(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	done := store.Add(ctx, AddFlagParams{Title: "Done"})
	idle := store.Add(ctx, AddFlagParams{Title: "Idle"})
	store.Add(ctx, AddFlagParams{Title: "Busy"})
	require.NoError(t, store.UpdateStatus(ctx, done.ID, domain.StatusCompleted))
	require.NoError(t, store.UpdateProgress(ctx, idle.ID, 0, ""))

	stats := store.Statistics()

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.NotStarted)
	assert.Equal(t, 33, stats.CompletionRate)
}

func TestStatistics_AverageFeasibility(t *testing.T) {
	slot := storage.NewMemoryStore()
	require.NoError(t, slot.Save(context.Background(), testKey, []byte(`[
		{"id":"a","title":"A","feasibility_score":85},
		{"id":"b","title":"B","feasibility_score":78},
		{"id":"c","title":"C","feasibility_score":82},
		{"id":"d","title":"D","feasibility_score":null}
	]`)))
	store := NewFlagStore(context.Background(), slot, testKey, DefaultOptions())

	// (85 + 78 + 82) / 3 = 81.666...
	assert.Equal(t, 81.7, store.Statistics().AvgFeasibility)
}

func TestNewFlagStore_RoundTrip(t *testing.T) {
	store, slot, clock := newTestStore(t)
	ctx := context.Background()

	a := store.Add(ctx, AddFlagParams{
		Category:    "Learning",
		Description: "Practice every day for an hour",
		Frequency:   "daily",
		Goal:        "Fluency",
		TargetDate:  domain.DateOf(baseTime).AddDays(120),
		Task:        "Flashcards",
		Title:       "Learn Spanish",
	})
	clock.Advance(2)
	require.NoError(t, store.UpdateProgress(ctx, a.ID, 35, "good week"))
	_, err := store.AddLog(ctx, a.ID, "Bought a grammar book")
	require.NoError(t, err)
	b := store.Add(ctx, AddFlagParams{Title: "No target"})
	require.NoError(t, store.UpdateStatus(ctx, b.ID, domain.StatusCompleted))

	reloaded := NewFlagStore(ctx, slot, testKey, Options{Clock: clock})

	assert.Equal(t, store.List(ListFilter{}), reloaded.List(ListFilter{}))
}

func TestNewFlagStore_CorruptSnapshotStartsEmpty(t *testing.T) {
	slot := storage.NewMemoryStore()
	require.NoError(t, slot.Save(context.Background(), testKey, []byte(`{not json`)))

	store := NewFlagStore(context.Background(), slot, testKey, DefaultOptions())

	assert.Equal(t, 0, store.Len())
}

func TestNewFlagStore_SeparateKeys(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemoryStore()

	work := NewFlagStore(ctx, slot, "work", DefaultOptions())
	work.Add(ctx, AddFlagParams{Title: "Ship the release"})

	personal := NewFlagStore(ctx, slot, "personal", DefaultOptions())
	assert.Equal(t, 0, personal.Len())

	work = NewFlagStore(ctx, slot, "work", DefaultOptions())
	assert.Equal(t, 1, work.Len())
}

func TestPersistenceFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	slot := portsmocks.NewMockSnapshotStore(t)

	slot.EXPECT().Load(mock.Anything, testKey).Return(nil, errors.New("quota exceeded"))
	slot.EXPECT().Save(mock.Anything, testKey, mock.Anything).Return(errors.New("quota exceeded")).Once()

	store := NewFlagStore(ctx, slot, testKey, DefaultOptions())
	f := store.Add(ctx, AddFlagParams{Title: "Still in memory"})

	got, err := store.Get(f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Still in memory", got.Title)
	assert.Error(t, store.PersistErr())

	slot.EXPECT().Save(mock.Anything, testKey, mock.Anything).Return(nil).Once()
	require.NoError(t, store.UpdateProgress(ctx, f.ID, 10, ""))
	assert.NoError(t, store.PersistErr())
}

func TestMissingSlotStartsEmpty(t *testing.T) {
	slot := portsmocks.NewMockSnapshotStore(t)
	slot.EXPECT().Load(mock.Anything, testKey).Return(nil, ports.ErrSlotNotFound)

	store := NewFlagStore(context.Background(), slot, testKey, DefaultOptions())

	assert.Equal(t, 0, store.Len())
}

func ids(flags []domain.Flag) []string {
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = f.ID
	}
	return out
}
