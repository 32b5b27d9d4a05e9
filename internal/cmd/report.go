package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
	"flagkeeper/internal/services"
)

// reportRule separates report sections
var reportRule = strings.Repeat("=", 50)

// ReportCmd writes a detailed progress report
type ReportCmd struct {
	OutputDir string `help:"Directory the report file is written to" default:"." type:"path"`
	Stdout    bool   `help:"Print the report instead of writing a file"`
}

// Run executes the report command
func (r *ReportCmd) Run(cli *CLI) error {
	store := cli.Container.Flags
	report := store.BuildReport(store.Now())

	if r.Stdout {
		renderReport(cli.Out(), report)
		return nil
	}

	var buf bytes.Buffer
	renderReport(&buf, report)

	if err := os.MkdirAll(r.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(r.OutputDir, services.ReportFileName(report.GeneratedAt))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logging.Logger.Info("Report written", "path", path)
	fmt.Fprintf(cli.Out(), "Report saved to %s\n", path)
	if report.UrgentDeadlines() {
		fmt.Fprintln(cli.Out(), "Some deadlines are less than a week away.")
	}
	return nil
}

// renderReport writes the plain-text report. It carries no color codes so
// the file stays readable anywhere.
func renderReport(out io.Writer, report services.Report) {
	fmt.Fprintln(out, "Flag Progress Report")
	fmt.Fprintf(out, "Generated: %s\n", report.GeneratedAt.Format(dateTimeLayout))
	fmt.Fprintln(out, reportRule)
	fmt.Fprintln(out)

	stats := report.Statistics
	fmt.Fprintln(out, "Overview")
	fmt.Fprintf(out, "  Total flags:      %d\n", stats.Total)
	fmt.Fprintf(out, "  Completed:        %d\n", stats.Completed)
	fmt.Fprintf(out, "  In progress:      %d\n", stats.InProgress)
	fmt.Fprintf(out, "  Not started:      %d\n", stats.NotStarted)
	fmt.Fprintf(out, "  Completion rate:  %d%%\n", stats.CompletionRate)
	fmt.Fprintf(out, "  Avg feasibility:  %.1f/100\n", stats.AvgFeasibility)

	for _, group := range report.Groups {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%s %s (%d)\n", group.Status.Symbol(), statusHeading(group.Status), len(group.Flags))
		fmt.Fprintln(out, reportRule)
		for _, f := range group.Flags {
			writeReportFlag(out, f)
		}
	}

	if len(report.Deadlines) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Upcoming deadlines")
		fmt.Fprintln(out, reportRule)
		for _, d := range report.Deadlines {
			fmt.Fprintf(out, "  [%s] %s - %s (%d days left)\n", d.Urgency, d.Flag.TargetDate, d.Flag.Title, d.DaysLeft)
		}
	}

	if len(report.Reminders) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Needs a progress update")
		fmt.Fprintln(out, reportRule)
		for _, f := range report.Reminders {
			fmt.Fprintf(out, "  %s (%d%%)\n", f.Title, f.Progress)
		}
	}

	if len(report.RecentlyCompleted) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Recently completed")
		fmt.Fprintln(out, reportRule)
		for _, f := range report.RecentlyCompleted {
			fmt.Fprintf(out, "  %s\n", f.Title)
		}
	}
}

func writeReportFlag(out io.Writer, f domain.Flag) {
	fmt.Fprintf(out, "\n%s\n", f.Title)
	fmt.Fprintf(out, "  Category:    %s\n", f.Category)
	fmt.Fprintf(out, "  Progress:    %d%%\n", f.Progress)
	fmt.Fprintf(out, "  Target date: %s\n", formatDate(f.TargetDate))
	if f.Description != "" {
		fmt.Fprintf(out, "  Description: %s\n", f.Description)
	}
	if f.FeasibilityScore != nil {
		fmt.Fprintf(out, "  Feasibility: %d/100 (%s)\n", *f.FeasibilityScore, f.FeasibilityReason)
	}

	if len(f.CheckHistory) > 0 {
		fmt.Fprintln(out, "  History:")
		for _, rec := range f.CheckHistory {
			line := fmt.Sprintf("    %s  %d%%", formatCheckTime(rec.Date), rec.Progress)
			if rec.Notes != "" {
				line += "  " + rec.Notes
			}
			fmt.Fprintln(out, line)
		}
	}
}

func statusHeading(status domain.Status) string {
	switch status {
	case domain.StatusCompleted:
		return "Completed"
	case domain.StatusInProgress:
		return "In progress"
	default:
		return "Not started"
	}
}
