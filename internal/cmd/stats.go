package cmd

import (
	"fmt"
	"io"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/theme"
)

// StatsCmd shows completion statistics
type StatsCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the stats command
func (s *StatsCmd) Run(cli *CLI) error {
	stats := cli.Container.Flags.Statistics()

	if s.Format == "json" {
		return printJSON(cli.Out(), stats)
	}

	renderStatistics(cli.Out(), stats)
	return nil
}

func renderStatistics(out io.Writer, stats domain.Statistics) {
	fmt.Fprintln(out, theme.HeaderStyle.Render("Statistics"))

	row := func(label, value string) {
		fmt.Fprintf(out, "  %s %s\n", theme.LabelStyle.Render(fmt.Sprintf("%-16s", label+":")), theme.ValueStyle.Render(value))
	}
	row("Total", fmt.Sprintf("%d", stats.Total))
	row("Completed", fmt.Sprintf("%d", stats.Completed))
	row("In progress", fmt.Sprintf("%d", stats.InProgress))
	row("Not started", fmt.Sprintf("%d", stats.NotStarted))
	row("Completion rate", fmt.Sprintf("%d%%", stats.CompletionRate))
	row("Avg feasibility", fmt.Sprintf("%.1f/100", stats.AvgFeasibility))

	if advice := statisticsAdvice(stats); advice != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.MutedStyle.Render(advice))
	}
}

// statisticsAdvice returns a short nudge based on the completion rate
func statisticsAdvice(stats domain.Statistics) string {
	switch {
	case stats.Total == 0:
		return ""
	case stats.CompletionRate < 30:
		return "Completion is low. Review your flags and break big ones into smaller steps."
	case stats.CompletionRate > 80:
		return "Excellent follow-through. Keep it up!"
	default:
		return ""
	}
}
