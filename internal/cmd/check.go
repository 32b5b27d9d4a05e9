package cmd

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
	"flagkeeper/internal/theme"
)

// CheckCmd runs the periodic check: reminders, deadlines and recent completions
type CheckCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Recent int    `help:"Recently completed window in days (0 uses the default)" default:"0"`
	Window int    `help:"Deadline window in days (0 uses the configured window)" default:"0"`
}

// checkResult collects the independent queries of a check
type checkResult struct {
	Deadlines         []domain.Deadline `json:"deadlines"`
	RecentlyCompleted []domain.Flag     `json:"recently_completed"`
	Reminders         []domain.Flag     `json:"reminders"`
	Statistics        domain.Statistics `json:"statistics"`
}

// Run executes the check command
func (c *CheckCmd) Run(cli *CLI) error {
	store := cli.Container.Flags
	logging.Logger.Info("Executing check command", "window", c.Window, "recent", c.Recent)

	// The queries only read the collection and cannot fail, so Wait is
	// used as a join and its error is always nil
	var result checkResult
	var g errgroup.Group
	g.Go(func() error {
		result.Reminders = store.MonthlyReminders()
		return nil
	})
	g.Go(func() error {
		result.Deadlines = store.UpcomingDeadlines(c.Window)
		return nil
	})
	g.Go(func() error {
		result.RecentlyCompleted = store.RecentlyCompleted(c.Recent)
		return nil
	})
	g.Go(func() error {
		result.Statistics = store.Statistics()
		return nil
	})
	_ = g.Wait()

	if c.Format == "json" {
		return printJSON(cli.Out(), result)
	}

	out := cli.Out()
	fmt.Fprintln(out, theme.TitleStyle.Render("Flag check"))
	fmt.Fprintln(out)
	printReminders(out, result.Reminders, store.Now())
	fmt.Fprintln(out)
	printDeadlines(out, result.Deadlines)

	if len(result.RecentlyCompleted) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.HeaderStyle.Render("Recently completed"))
		for _, f := range result.RecentlyCompleted {
			fmt.Fprintf(out, "  %s %s\n", theme.RenderStatus(f.Status), f.Title)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%d flags, %d%% completed\n", result.Statistics.Total, result.Statistics.CompletionRate)
	return nil
}
