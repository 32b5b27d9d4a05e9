package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flagkeeper/internal/domain"
)

func TestLogs_AddListDelete(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()
	f := store.Add(ctx, AddFlagParams{Title: "Journal"})

	first, err := store.AddLog(ctx, f.ID, "first entry")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, baseTime, first.Timestamp)

	clock.Advance(1)
	second, err := store.AddLog(ctx, f.ID, "second entry")
	require.NoError(t, err)

	logs := store.Logs(f.ID)
	require.Len(t, logs, 2)
	assert.Equal(t, second.ID, logs[0].ID)
	assert.Equal(t, first.ID, logs[1].ID)

	// Stored order is untouched by the sorted read
	stored, err := store.Get(f.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.Logs[0].ID)

	require.NoError(t, store.DeleteLog(ctx, f.ID, first.ID))
	logs = store.Logs(f.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, "second entry", logs[0].Content)

	assert.ErrorIs(t, store.DeleteLog(ctx, f.ID, first.ID), domain.ErrLogNotFound)
}

func TestLogs_MissingFlag(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddLog(ctx, "missing", "content")
	assert.ErrorIs(t, err, domain.ErrFlagNotFound)

	assert.ErrorIs(t, store.DeleteLog(ctx, "missing", "log"), domain.ErrFlagNotFound)

	logs := store.Logs("missing")
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestLogs_ReturnsCopy(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	f := store.Add(ctx, AddFlagParams{Title: "Journal"})
	_, err := store.AddLog(ctx, f.ID, "original")
	require.NoError(t, err)

	logs := store.Logs(f.ID)
	logs[0].Content = "changed"

	assert.Equal(t, "original", store.Logs(f.ID)[0].Content)
}
