package cmd

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"flagkeeper/internal/config"
)

// SettingsCmd manages settings
type SettingsCmd struct {
	Meta SettingsMetaCmd `cmd:"meta" help:"Show settings file location and available options" default:"1"`
	Show SettingsShowCmd `cmd:"show" help:"Show the effective settings"`
}

// SettingsMetaCmd displays settings metadata
type SettingsMetaCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the meta command
func (s *SettingsMetaCmd) Run(cli *CLI) error {
	settingsFile := config.GetSettingsPath()
	example := config.GetSettingsExample()

	if s.Format == "json" {
		return printJSON(cli.Out(), map[string]any{
			"settings_file": settingsFile,
			"format":        example,
		})
	}

	out := cli.Out()
	fmt.Fprintf(out, "Settings file: %s\n\n", settingsFile)
	fmt.Fprintln(out, "Example settings.json:")
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, key := range slices.Sorted(maps.Keys(example)) {
		fmt.Fprintf(w, "%s\t%v\n", key, example[key])
	}
	w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Create or edit this file to configure flagkeeper.")
	fmt.Fprintln(out, "All settings are optional and have sensible defaults.")
	return nil
}

// SettingsShowCmd displays the settings in effect for this run
type SettingsShowCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// effectiveSettings is what the current invocation resolved to
type effectiveSettings struct {
	Backend            string `json:"backend"`
	DeadlineWindowDays int    `json:"deadline_window_days"`
	DefaultCategory    string `json:"default_category"`
	FeasibilityEnabled bool   `json:"feasibility_enabled"`
	MaxLogFiles        int    `json:"max_log_files"`
	ReminderDays       int    `json:"reminder_days"`
	StatusPolicy       string `json:"status_policy"`
	StorageKey         string `json:"storage_key"`
}

// Run executes the show command
func (s *SettingsShowCmd) Run(cli *CLI) error {
	settings := cli.LoadedSettings()
	policy := settings.StatusPolicy
	if policy == "" {
		policy = "progress"
	}

	effective := effectiveSettings{
		Backend:            cli.Container.Backend,
		DeadlineWindowDays: settings.GetDeadlineWindowDays(),
		DefaultCategory:    settings.GetDefaultCategory(),
		FeasibilityEnabled: settings.GetFeasibilityEnabled(),
		MaxLogFiles:        cli.MaxLogFiles,
		ReminderDays:       settings.GetReminderDays(),
		StatusPolicy:       policy,
		StorageKey:         cli.Container.Flags.Key(),
	}

	if s.Format == "json" {
		return printJSON(cli.Out(), effective)
	}

	data, err := json.Marshal(effective)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}

	w := tabwriter.NewWriter(cli.Out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SETTING\tVALUE")
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(w, "%s\t%v\n", key, fields[key])
	}
	return w.Flush()
}
