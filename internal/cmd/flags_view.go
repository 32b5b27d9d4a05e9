package cmd

import (
	"fmt"
	"io"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/theme"
)

// progressBarWidth is the width of the bar drawn by view
const progressBarWidth = 30

// ViewCmd shows one flag in detail
type ViewCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	ID     string `arg:"" help:"Flag id or unique id prefix"`
}

// Run executes the view command
func (v *ViewCmd) Run(cli *CLI) error {
	id, err := cli.resolveID(v.ID)
	if err != nil {
		return err
	}

	flag, err := cli.Container.Flags.Get(id)
	if err != nil {
		return err
	}
	// Logs newest first, as the store returns them
	flag.Logs = cli.Container.Flags.Logs(id)

	if v.Format == "json" {
		return printJSON(cli.Out(), flag)
	}

	renderFlag(cli.Out(), flag)
	return nil
}

func renderFlag(out io.Writer, f domain.Flag) {
	fmt.Fprintln(out, theme.TitleStyle.Render(f.Title))
	fmt.Fprintln(out)

	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(out, "%s %s\n", theme.LabelStyle.Render(fmt.Sprintf("%-13s", label+":")), theme.ValueStyle.Render(value))
	}

	field("ID", f.ID)
	field("Status", theme.RenderStatus(f.Status))
	fmt.Fprintf(out, "%s %s %d%%\n",
		theme.LabelStyle.Render(fmt.Sprintf("%-13s", "Progress:")),
		theme.RenderProgressBar(f.Progress, progressBarWidth),
		f.Progress)
	field("Category", f.Category)
	field("Description", f.Description)
	field("Goal", f.Goal)
	field("Task", f.Task)
	field("Frequency", f.Frequency)
	field("Created", formatDate(f.CreatedDate))
	field("Target", formatDate(f.TargetDate))
	if f.FeasibilityScore != nil {
		field("Feasibility", fmt.Sprintf("%s (%s)", formatFeasibility(f), f.FeasibilityReason))
	}

	if len(f.CheckHistory) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.HeaderStyle.Render("History"))
		for _, rec := range f.CheckHistory {
			line := fmt.Sprintf("  %s  %3d%%", formatCheckTime(rec.Date), rec.Progress)
			if rec.Notes != "" {
				line += "  " + rec.Notes
			}
			fmt.Fprintln(out, line)
		}
	}

	if len(f.Logs) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.HeaderStyle.Render("Logs"))
		for _, l := range f.Logs {
			fmt.Fprintf(out, "  %s  %s  %s\n",
				theme.MutedStyle.Render(shortID(l.ID)),
				l.Timestamp.Format(dateTimeLayout),
				l.Content)
		}
	}
}
