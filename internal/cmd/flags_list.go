package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
	"flagkeeper/internal/services"
	"flagkeeper/internal/theme"
)

// ListCmd lists flags
type ListCmd struct {
	Category string `help:"Only show flags in this category" short:"c"`
	Format   string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Status   string `help:"Only show flags with this status" enum:",not_started,in_progress,completed" default:""`
}

// Run executes the list command
func (l *ListCmd) Run(cli *CLI) error {
	logging.Logger.Info("Executing list command", "category", l.Category, "status", l.Status)

	flags := cli.Container.Flags.List(services.ListFilter{
		Category: l.Category,
		Status:   domain.Status(l.Status),
	})

	if l.Format == "json" {
		return printJSON(cli.Out(), flags)
	}

	if len(flags) == 0 {
		fmt.Fprintln(cli.Out(), "No flags yet. Plant one with 'flagkeeper add'.")
		return nil
	}
	return printFlagTable(cli.Out(), flags)
}

// printFlagTable writes one row per flag
func printFlagTable(out io.Writer, flags []domain.Flag) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPROGRESS\tTITLE\tCATEGORY\tTARGET\tFEASIBILITY")
	for _, f := range flags {
		fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\t%s\t%s\t%s\n",
			shortID(f.ID),
			theme.RenderStatus(f.Status),
			f.Progress,
			f.Title,
			f.Category,
			formatDate(f.TargetDate),
			formatFeasibility(f),
		)
	}
	return w.Flush()
}
