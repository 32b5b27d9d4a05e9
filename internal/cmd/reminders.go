package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/theme"
)

// RemindersCmd lists flags without a recent progress update
type RemindersCmd struct {
	Deadlines bool   `help:"Also list upcoming deadlines"`
	Format    string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Window    int    `help:"Deadline window in days (0 uses the configured window)" default:"0"`
}

// Run executes the reminders command
func (r *RemindersCmd) Run(cli *CLI) error {
	store := cli.Container.Flags
	reminders := store.MonthlyReminders()

	var deadlines []domain.Deadline
	if r.Deadlines {
		deadlines = store.UpcomingDeadlines(r.Window)
	}

	if r.Format == "json" {
		output := map[string]any{"reminders": reminders}
		if r.Deadlines {
			output["deadlines"] = deadlines
		}
		return printJSON(cli.Out(), output)
	}

	out := cli.Out()
	printReminders(out, reminders, store.Now())
	if r.Deadlines {
		fmt.Fprintln(out)
		printDeadlines(out, deadlines)
	}
	return nil
}

func printReminders(out io.Writer, reminders []domain.Flag, now time.Time) {
	if len(reminders) == 0 {
		fmt.Fprintln(out, "No reminders. Every active flag was updated recently.")
		return
	}

	fmt.Fprintln(out, theme.HeaderStyle.Render(fmt.Sprintf("%d flags need a progress update", len(reminders))))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPROGRESS\tLAST UPDATE")
	for _, f := range reminders {
		last := "never"
		if rec, ok := f.LastCheck(); ok && !rec.Date.IsZero() {
			days := int(now.Sub(rec.Date).Hours() / 24)
			last = fmt.Sprintf("%s (%d days ago)", rec.Date.Format(domain.DateLayout), days)
		}
		fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\n", shortID(f.ID), f.Title, f.Progress, last)
	}
	w.Flush()
}

func printDeadlines(out io.Writer, deadlines []domain.Deadline) {
	if len(deadlines) == 0 {
		fmt.Fprintln(out, "No upcoming deadlines.")
		return
	}

	fmt.Fprintln(out, theme.HeaderStyle.Render("Upcoming deadlines"))
	for _, d := range deadlines {
		urgency := theme.UrgencyStyle(d.Urgency).Render(fmt.Sprintf("%3d days", d.DaysLeft))
		fmt.Fprintf(out, "  %s  %s  %s (%d%%)\n", urgency, d.Flag.TargetDate, d.Flag.Title, d.Flag.Progress)
	}
}
