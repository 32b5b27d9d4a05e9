package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flagkeeper/internal/adapters/storage"
	"flagkeeper/internal/domain"
	"flagkeeper/internal/services"
)

func newTestHandlers(t *testing.T) (*Handlers, *services.FlagStore) {
	t.Helper()
	store := services.NewFlagStore(context.Background(), storage.NewMemoryStore(), "test", services.DefaultOptions())
	return NewHandlers(store), store
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text, res.IsError
}

func TestAddFlagAndGet(t *testing.T) {
	h, store := newTestHandlers(t)

	text, isErr := call(t, h.AddFlag, map[string]any{
		"title":       "Read 12 books",
		"description": "Read one book per month this year",
		"category":    "Learning",
		"target_date": "2026-12-31",
	})
	require.False(t, isErr, text)

	var created domain.Flag
	require.NoError(t, json.Unmarshal([]byte(text), &created))
	assert.Equal(t, "Learning", created.Category)
	assert.Equal(t, "2026-12-31", created.TargetDate.String())
	assert.Equal(t, 1, store.Len())

	text, isErr = call(t, h.GetFlag, map[string]any{"id": created.ID[:8]})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Read 12 books")
}

func TestAddFlag_Validation(t *testing.T) {
	h, store := newTestHandlers(t)

	_, isErr := call(t, h.AddFlag, map[string]any{"title": "  "})
	assert.True(t, isErr)

	_, isErr = call(t, h.AddFlag, map[string]any{"title": "Valid", "target_date": "next year"})
	assert.True(t, isErr)

	_, isErr = call(t, h.AddFlag, nil)
	assert.True(t, isErr)

	assert.Equal(t, 0, store.Len())
}

func TestUpdateProgressAndStatus(t *testing.T) {
	h, store := newTestHandlers(t)
	f := store.Add(context.Background(), services.AddFlagParams{Title: "Run 5k"})

	text, isErr := call(t, h.UpdateProgress, map[string]any{"id": f.ID, "progress": float64(150), "notes": "race day"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "100%")

	text, isErr = call(t, h.UpdateProgress, map[string]any{"id": f.ID, "progress": 1e19})
	require.False(t, isErr, text)
	assert.Contains(t, text, "100%")
	got, err := store.Get(f.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)

	text, isErr = call(t, h.UpdateProgress, map[string]any{"id": f.ID, "progress": -1e19})
	require.False(t, isErr, text)
	assert.Contains(t, text, " 0%")

	_, isErr = call(t, h.UpdateProgress, map[string]any{"id": f.ID, "progress": "lots"})
	assert.True(t, isErr)

	_, isErr = call(t, h.UpdateStatus, map[string]any{"id": f.ID, "status": "paused"})
	assert.True(t, isErr)

	_, isErr = call(t, h.UpdateStatus, map[string]any{"id": f.ID, "status": "not_started"})
	require.False(t, isErr)

	got, err = store.Get(f.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNotStarted, got.Status)
}

func TestUnknownFlag(t *testing.T) {
	h, _ := newTestHandlers(t)

	text, isErr := call(t, h.DeleteFlag, map[string]any{"id": "nope"})
	assert.True(t, isErr)
	assert.Contains(t, text, "flag not found")

	_, isErr = call(t, h.GetFlag, map[string]any{})
	assert.True(t, isErr)
}

func TestLogTools(t *testing.T) {
	h, store := newTestHandlers(t)
	f := store.Add(context.Background(), services.AddFlagParams{Title: "Journal"})

	text, isErr := call(t, h.AddLog, map[string]any{"id": f.ID, "content": "Day one"})
	require.False(t, isErr, text)

	var entry domain.Log
	require.NoError(t, json.Unmarshal([]byte(text), &entry))

	text, isErr = call(t, h.ListLogs, map[string]any{"id": f.ID})
	require.False(t, isErr)
	assert.Contains(t, text, "Day one")

	_, isErr = call(t, h.DeleteLog, map[string]any{"id": f.ID, "log_id": entry.ID})
	require.False(t, isErr)
	assert.Empty(t, store.Logs(f.ID))

	_, isErr = call(t, h.DeleteLog, map[string]any{"id": f.ID, "log_id": entry.ID})
	assert.True(t, isErr)
}

func TestQueryTools(t *testing.T) {
	h, store := newTestHandlers(t)
	ctx := context.Background()
	store.Add(ctx, services.AddFlagParams{Title: "Swim", Category: "Health"})
	store.Add(ctx, services.AddFlagParams{Title: "Study", Category: "Learning"})

	text, isErr := call(t, h.ListFlags, map[string]any{"category": "Health"})
	require.False(t, isErr)
	var flags []domain.Flag
	require.NoError(t, json.Unmarshal([]byte(text), &flags))
	assert.Len(t, flags, 1)

	_, isErr = call(t, h.ListFlags, map[string]any{"status": "archived"})
	assert.True(t, isErr)

	text, _ = call(t, h.SearchFlags, map[string]any{"query": "STUDY"})
	require.NoError(t, json.Unmarshal([]byte(text), &flags))
	assert.Len(t, flags, 1)

	text, _ = call(t, h.ListCategories, nil)
	assert.JSONEq(t, `["Health","Learning"]`, text)

	text, _ = call(t, h.GetStatistics, nil)
	var stats domain.Statistics
	require.NoError(t, json.Unmarshal([]byte(text), &stats))
	assert.Equal(t, 2, stats.Total)

	text, _ = call(t, h.MonthlyReminders, nil)
	assert.JSONEq(t, `[]`, text)

	text, _ = call(t, h.UpcomingDeadlines, map[string]any{"window_days": float64(10)})
	assert.JSONEq(t, `[]`, text)
}

func TestNewServer(t *testing.T) {
	_, store := newTestHandlers(t)

	assert.NotNil(t, NewServer(store, "test"))
}
