package cmd

import (
	"fmt"
	"strings"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
	"flagkeeper/internal/services"
)

// SearchCmd searches flags
type SearchCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Query  string `arg:"" optional:"" help:"Text to look for (empty lists every flag)"`
}

// Run executes the search command
func (s *SearchCmd) Run(cli *CLI) error {
	query := strings.TrimSpace(s.Query)
	logging.Logger.Info("Executing search command", "query", query)

	var flags []domain.Flag
	if query == "" {
		flags = cli.Container.Flags.List(services.ListFilter{})
	} else {
		flags = cli.Container.Flags.Search(query)
	}

	if s.Format == "json" {
		return printJSON(cli.Out(), flags)
	}

	if len(flags) == 0 {
		fmt.Fprintf(cli.Out(), "No flags match '%s'\n", query)
		return nil
	}
	return printFlagTable(cli.Out(), flags)
}
