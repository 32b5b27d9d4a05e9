package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
	"flagkeeper/internal/services"
)

// Handlers exposes FlagStore operations as MCP tools.
// Tool calls are serialized because the store is single-owner.
type Handlers struct {
	mu    sync.Mutex
	store *services.FlagStore
}

// NewHandlers creates Handlers backed by store
func NewHandlers(store *services.FlagStore) *Handlers {
	return &Handlers{store: store}
}

// NewServer builds an MCP server with every flag tool registered
func NewServer(store *services.FlagStore, version string) *server.MCPServer {
	h := NewHandlers(store)
	s := server.NewMCPServer("flagkeeper", version)

	s.AddTool(mcp.NewTool("add_flag",
		mcp.WithDescription("Creates a new goal (flag). Feasibility is scored once at creation."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Short label for the goal")),
		mcp.WithString("description", mcp.Description("What the goal involves, ideally with a measurable cadence")),
		mcp.WithString("category", mcp.Description("Free-text category")),
		mcp.WithString("target_date", mcp.Description("Target date as YYYY-MM-DD")),
		mcp.WithString("goal", mcp.Description("Optional goal statement")),
		mcp.WithString("task", mcp.Description("Optional concrete task")),
		mcp.WithString("frequency", mcp.Description("Optional cadence label such as daily or weekly")),
	), h.AddFlag)

	s.AddTool(mcp.NewTool("list_flags",
		mcp.WithDescription("Lists flags, newest first, optionally filtered by category and status."),
		mcp.WithString("category", mcp.Description("Exact category to filter on")),
		mcp.WithString("status", mcp.Description("Status to filter on"),
			mcp.Enum(string(domain.StatusNotStarted), string(domain.StatusInProgress), string(domain.StatusCompleted))),
	), h.ListFlags)

	s.AddTool(mcp.NewTool("get_flag",
		mcp.WithDescription("Returns one flag with its check history and logs."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Flag id or unique id prefix")),
	), h.GetFlag)

	s.AddTool(mcp.NewTool("search_flags",
		mcp.WithDescription("Case-insensitive search over title, description and category."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for")),
	), h.SearchFlags)

	s.AddTool(mcp.NewTool("update_progress",
		mcp.WithDescription("Records a progress check (0-100) and re-derives the status."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Flag id or unique id prefix")),
		mcp.WithNumber("progress", mcp.Required(), mcp.Description("Progress percentage, clamped to 0-100")),
		mcp.WithString("notes", mcp.Description("Optional notes for the check")),
	), h.UpdateProgress)

	s.AddTool(mcp.NewTool("update_status",
		mcp.WithDescription("Overrides the status. Completing a flag sets progress to 100."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Flag id or unique id prefix")),
		mcp.WithString("status", mcp.Required(), mcp.Description("New status"),
			mcp.Enum(string(domain.StatusNotStarted), string(domain.StatusInProgress), string(domain.StatusCompleted))),
	), h.UpdateStatus)

	s.AddTool(mcp.NewTool("delete_flag",
		mcp.WithDescription("Deletes a flag together with its history and logs."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Flag id or unique id prefix")),
	), h.DeleteFlag)

	s.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("Lists the distinct categories in use."),
	), h.ListCategories)

	s.AddTool(mcp.NewTool("get_statistics",
		mcp.WithDescription("Returns counts by status, completion rate and average feasibility."),
	), h.GetStatistics)

	s.AddTool(mcp.NewTool("monthly_reminders",
		mcp.WithDescription("Lists active flags that have gone too long without a progress update."),
	), h.MonthlyReminders)

	s.AddTool(mcp.NewTool("upcoming_deadlines",
		mcp.WithDescription("Lists active flags whose target date is near, soonest first."),
		mcp.WithNumber("window_days", mcp.Description("How many days ahead to look (default from settings)")),
	), h.UpcomingDeadlines)

	s.AddTool(mcp.NewTool("add_log",
		mcp.WithDescription("Appends a free-text journal entry to a flag."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Flag id or unique id prefix")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Log text")),
	), h.AddLog)

	s.AddTool(mcp.NewTool("list_logs",
		mcp.WithDescription("Lists a flag's journal entries, newest first."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Flag id or unique id prefix")),
	), h.ListLogs)

	s.AddTool(mcp.NewTool("delete_log",
		mcp.WithDescription("Removes one journal entry from a flag."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Flag id or unique id prefix")),
		mcp.WithString("log_id", mcp.Required(), mcp.Description("Log entry id")),
	), h.DeleteLog)

	return s
}

// Serve runs the MCP server over stdin/stdout until the client disconnects
func Serve(store *services.FlagStore, version string) error {
	logging.Logger.Info("Starting MCP stdio server")
	return server.ServeStdio(NewServer(store, version))
}

func arguments(request mcp.CallToolRequest) map[string]any {
	args, _ := request.Params.Arguments.(map[string]any)
	if args == nil {
		return map[string]any{}
	}
	return args
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return strings.TrimSpace(s)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// resolve maps the id argument to a full flag id
func (h *Handlers) resolve(args map[string]any) (string, *mcp.CallToolResult) {
	id := stringArg(args, "id")
	if id == "" {
		return "", mcp.NewToolResultError("Flag id cannot be empty")
	}
	fullID, err := h.store.Resolve(id)
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	return fullID, nil
}

// AddFlag handles the add_flag tool
func (h *Handlers) AddFlag(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	title := stringArg(args, "title")
	if title == "" {
		return mcp.NewToolResultError("Title cannot be empty"), nil
	}
	target, err := domain.ParseDate(stringArg(args, "target_date"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	f := h.store.Add(ctx, services.AddFlagParams{
		Category:    stringArg(args, "category"),
		Description: stringArg(args, "description"),
		Frequency:   stringArg(args, "frequency"),
		Goal:        stringArg(args, "goal"),
		TargetDate:  target,
		Task:        stringArg(args, "task"),
		Title:       title,
	})
	return jsonResult(f)
}

// ListFlags handles the list_flags tool
func (h *Handlers) ListFlags(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	filter := services.ListFilter{Category: stringArg(args, "category")}
	if s := stringArg(args, "status"); s != "" {
		status, err := domain.ParseStatus(s)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filter.Status = status
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return jsonResult(h.store.List(filter))
}

// GetFlag handles the get_flag tool
func (h *Handlers) GetFlag(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, errResult := h.resolve(arguments(request))
	if errResult != nil {
		return errResult, nil
	}
	f, err := h.store.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(f)
}

// SearchFlags handles the search_flags tool
func (h *Handlers) SearchFlags(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := stringArg(arguments(request), "query")

	h.mu.Lock()
	defer h.mu.Unlock()

	if query == "" {
		return jsonResult(h.store.List(services.ListFilter{}))
	}
	return jsonResult(h.store.Search(query))
}

// UpdateProgress handles the update_progress tool
func (h *Handlers) UpdateProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	progress, ok := args["progress"].(float64)
	if !ok {
		return mcp.NewToolResultError("Progress must be a number"), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id, errResult := h.resolve(args)
	if errResult != nil {
		return errResult, nil
	}
	if err := h.store.UpdateProgress(ctx, id, domain.ProgressFromFloat(progress), stringArg(args, "notes")); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	f, _ := h.store.Get(id)
	return mcp.NewToolResultText(fmt.Sprintf("Flag '%s' is now %d%% (%s).", f.Title, f.Progress, f.Status)), nil
}

// UpdateStatus handles the update_status tool
func (h *Handlers) UpdateStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	status, err := domain.ParseStatus(stringArg(args, "status"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id, errResult := h.resolve(args)
	if errResult != nil {
		return errResult, nil
	}
	if err := h.store.UpdateStatus(ctx, id, status); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Flag '%s' marked %s.", id, status)), nil
}

// DeleteFlag handles the delete_flag tool
func (h *Handlers) DeleteFlag(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, errResult := h.resolve(arguments(request))
	if errResult != nil {
		return errResult, nil
	}
	if err := h.store.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Flag '%s' deleted.", id)), nil
}

// ListCategories handles the list_categories tool
func (h *Handlers) ListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return jsonResult(h.store.Categories())
}

// GetStatistics handles the get_statistics tool
func (h *Handlers) GetStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return jsonResult(h.store.Statistics())
}

// MonthlyReminders handles the monthly_reminders tool
func (h *Handlers) MonthlyReminders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return jsonResult(h.store.MonthlyReminders())
}

// UpcomingDeadlines handles the upcoming_deadlines tool
func (h *Handlers) UpcomingDeadlines(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	window, _ := arguments(request)["window_days"].(float64)

	h.mu.Lock()
	defer h.mu.Unlock()
	return jsonResult(h.store.UpcomingDeadlines(int(window)))
}

// AddLog handles the add_log tool
func (h *Handlers) AddLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	content := stringArg(args, "content")
	if content == "" {
		return mcp.NewToolResultError("Log content cannot be empty"), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id, errResult := h.resolve(args)
	if errResult != nil {
		return errResult, nil
	}
	entry, err := h.store.AddLog(ctx, id, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(entry)
}

// ListLogs handles the list_logs tool
func (h *Handlers) ListLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, errResult := h.resolve(arguments(request))
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(h.store.Logs(id))
}

// DeleteLog handles the delete_log tool
func (h *Handlers) DeleteLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	logID := stringArg(args, "log_id")

	h.mu.Lock()
	defer h.mu.Unlock()

	id, errResult := h.resolve(args)
	if errResult != nil {
		return errResult, nil
	}
	if err := h.store.DeleteLog(ctx, id, logID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Log '%s' deleted.", logID)), nil
}
