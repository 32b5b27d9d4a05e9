package cmd

import (
	"fmt"
	"text/tabwriter"

	"flagkeeper/internal/services"
)

// CategoriesCmd lists the categories in use
type CategoriesCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the categories command
func (c *CategoriesCmd) Run(cli *CLI) error {
	categories := cli.Container.Flags.Categories()

	if c.Format == "json" {
		return printJSON(cli.Out(), categories)
	}

	if len(categories) == 0 {
		fmt.Fprintln(cli.Out(), "No categories yet")
		return nil
	}

	w := tabwriter.NewWriter(cli.Out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tFLAGS")
	for _, category := range categories {
		flags := cli.Container.Flags.List(services.ListFilter{Category: category})
		fmt.Fprintf(w, "%s\t%d\n", category, len(flags))
	}
	return w.Flush()
}
