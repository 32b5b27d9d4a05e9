package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
)

// LogsCmd manages flag journal entries
type LogsCmd struct {
	Add  LogsAddCmd  `cmd:"add" help:"Add a journal entry to a flag"`
	Del  LogsDelCmd  `cmd:"del" aliases:"rm" help:"Delete a journal entry"`
	List LogsListCmd `cmd:"list" help:"List journal entries of a flag" default:"withargs"`
}

// LogsAddCmd adds a journal entry
type LogsAddCmd struct {
	ID      string   `arg:"" help:"Flag id or unique id prefix"`
	Content []string `arg:"" help:"Entry text"`
}

// Run executes the logs add command
func (l *LogsAddCmd) Run(cli *CLI) error {
	id, err := cli.resolveID(l.ID)
	if err != nil {
		return err
	}

	content := strings.TrimSpace(strings.Join(l.Content, " "))
	if content == "" {
		return fmt.Errorf("log content cannot be empty")
	}

	entry, err := cli.Container.Flags.AddLog(context.Background(), id, content)
	if err != nil {
		return fmt.Errorf("failed to add log: %w", err)
	}
	cli.warnIfNotPersisted()

	fmt.Fprintf(cli.Out(), "Log %s added\n", shortID(entry.ID))
	return nil
}

// LogsListCmd lists journal entries
type LogsListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	ID     string `arg:"" help:"Flag id or unique id prefix"`
}

// Run executes the logs list command
func (l *LogsListCmd) Run(cli *CLI) error {
	id, err := cli.resolveID(l.ID)
	if err != nil {
		return err
	}

	logs := cli.Container.Flags.Logs(id)

	if l.Format == "json" {
		return printJSON(cli.Out(), logs)
	}

	if len(logs) == 0 {
		fmt.Fprintln(cli.Out(), "No log entries")
		return nil
	}

	w := tabwriter.NewWriter(cli.Out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tCONTENT")
	for _, entry := range logs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", shortID(entry.ID), entry.Timestamp.Format(dateTimeLayout), entry.Content)
	}
	return w.Flush()
}

// LogsDelCmd deletes a journal entry
type LogsDelCmd struct {
	ID    string `arg:"" help:"Flag id or unique id prefix"`
	LogID string `arg:"" help:"Log id or unique id prefix"`
}

// Run executes the logs del command
func (l *LogsDelCmd) Run(cli *CLI) error {
	id, err := cli.resolveID(l.ID)
	if err != nil {
		return err
	}

	logID, err := resolveLogID(cli.Container.Flags.Logs(id), l.LogID)
	if err != nil {
		return err
	}

	logging.Logger.Info("Executing logs del command", "id", id, "log", logID)
	if err := cli.Container.Flags.DeleteLog(context.Background(), id, logID); err != nil {
		return fmt.Errorf("failed to delete log: %w", err)
	}
	cli.warnIfNotPersisted()

	fmt.Fprintf(cli.Out(), "Log %s deleted\n", shortID(logID))
	return nil
}

// resolveLogID maps a full log id or unique prefix to the full id
func resolveLogID(logs []domain.Log, idOrPrefix string) (string, error) {
	var matches []string
	for _, entry := range logs {
		if entry.ID == idOrPrefix {
			return entry.ID, nil
		}
		if idOrPrefix != "" && strings.HasPrefix(entry.ID, idOrPrefix) {
			matches = append(matches, entry.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", domain.ErrLogNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d log entries", domain.ErrAmbiguousID, idOrPrefix, len(matches))
	}
}
