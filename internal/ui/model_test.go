package ui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flagkeeper/internal/adapters/storage"
	"flagkeeper/internal/domain"
	"flagkeeper/internal/services"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newTestBoard(t *testing.T, titles ...string) (*Model, *services.FlagStore) {
	t.Helper()

	opts := services.DefaultOptions()
	opts.Clock = fixedClock{now: time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)}
	store := services.NewFlagStore(context.Background(), storage.NewMemoryStore(), "board", opts)
	for _, title := range titles {
		store.Add(context.Background(), services.AddFlagParams{Title: title})
	}

	m := NewModel(context.Background(), store)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, store
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func onlyFlag(t *testing.T, store *services.FlagStore) domain.Flag {
	t.Helper()
	flags := store.List(services.ListFilter{})
	require.Len(t, flags, 1)
	return flags[0]
}

func TestBoard_AdjustsProgress(t *testing.T) {
	m, store := newTestBoard(t, "Learn Go")

	press(m, "+", "+", "+")
	f := onlyFlag(t, store)
	assert.Equal(t, 30, f.Progress)
	assert.Equal(t, domain.StatusInProgress, f.Status)
	assert.Len(t, f.CheckHistory, 3)
	assert.Contains(t, m.Message(), "at 30%")

	press(m, "-")
	assert.Equal(t, 20, onlyFlag(t, store).Progress)
}

func TestBoard_ProgressClampsAtZero(t *testing.T) {
	m, store := newTestBoard(t, "Learn Go")

	press(m, "-")

	f := onlyFlag(t, store)
	assert.Equal(t, 0, f.Progress)
	assert.Equal(t, domain.StatusNotStarted, f.Status)
}

func TestBoard_Complete(t *testing.T) {
	m, store := newTestBoard(t, "Read 20 books")

	press(m, "c")

	f := onlyFlag(t, store)
	assert.Equal(t, domain.StatusCompleted, f.Status)
	assert.Equal(t, 100, f.Progress)
}

func TestBoard_AddLog(t *testing.T) {
	m, store := newTestBoard(t, "Learn Go")

	press(m, "l", "r", "e", "a", "d", "enter")

	f := onlyFlag(t, store)
	logs := store.Logs(f.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, "read", logs[0].Content)
	assert.Equal(t, stateList, m.state)
}

func TestBoard_AddLogCancelled(t *testing.T) {
	m, store := newTestBoard(t, "Learn Go")

	press(m, "l", "x", "esc")

	assert.Empty(t, store.Logs(onlyFlag(t, store).ID))
	assert.Equal(t, stateList, m.state)
}

func TestBoard_DeleteNeedsConfirmation(t *testing.T) {
	m, store := newTestBoard(t, "Learn Go")

	press(m, "x", "n")
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "Cancelled", m.Message())

	press(m, "x", "y")
	assert.Equal(t, 0, store.Len())
	assert.Contains(t, m.Message(), "Deleted 'Learn Go'")
}

func TestBoard_EmptyCollection(t *testing.T) {
	m, store := newTestBoard(t)

	press(m, "+", "c", "x", "y")

	assert.Equal(t, 0, store.Len())
	assert.Contains(t, m.View(), "Flags")
}

func TestBoard_Quit(t *testing.T) {
	m, _ := newTestBoard(t, "Learn Go")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
