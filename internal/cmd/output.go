package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"flagkeeper/internal/domain"
)

// shortIDLength is how many id characters tables show
const shortIDLength = 8

// dateTimeLayout formats check and log timestamps
const dateTimeLayout = "2006-01-02 15:04:05"

// SetOutput redirects command output, mainly for tests
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// Out returns the writer commands print to
func (c *CLI) Out() io.Writer {
	if c.out == nil {
		return os.Stdout
	}
	return c.out
}

// resolveID maps a full id or unique prefix to a flag id
func (c *CLI) resolveID(idOrPrefix string) (string, error) {
	return c.Container.Flags.Resolve(idOrPrefix)
}

// warnIfNotPersisted tells the user when the last save failed
func (c *CLI) warnIfNotPersisted() {
	if err := c.Container.Flags.PersistErr(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: change kept in memory only: %v\n", err)
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

func formatFeasibility(f domain.Flag) string {
	if f.FeasibilityScore == nil {
		return "-"
	}
	return fmt.Sprintf("%d/100", *f.FeasibilityScore)
}

func formatDate(d domain.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

// formatCheckTime renders a check timestamp. Legacy records may carry no date.
func formatCheckTime(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Format(dateTimeLayout)
}
