package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
	"flagkeeper/internal/services"
)

// AddCmd adds a new flag
type AddCmd struct {
	Category    string `help:"Category (defaults to the configured category)" short:"c"`
	Description string `help:"Description, ideally with a measurable cadence" short:"D"`
	Format      string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Frequency   string `help:"How often you plan to work on it (e.g. daily, weekly)"`
	Goal        string `help:"Concrete goal statement"`
	Target      string `help:"Target date (YYYY-MM-DD)" short:"t"`
	Task        string `help:"Next concrete task"`
	Title       string `arg:"" optional:"" help:"Title of the flag (prompts when omitted)"`
}

// addFormValues holds the raw values edited in the interactive form
type addFormValues struct {
	Category    string
	Description string
	Frequency   string
	Goal        string
	Target      string
	Task        string
	Title       string
}

// Run executes the add command
func (a *AddCmd) Run(cli *CLI) error {
	values := addFormValues{
		Category:    a.Category,
		Description: a.Description,
		Frequency:   a.Frequency,
		Goal:        a.Goal,
		Target:      a.Target,
		Task:        a.Task,
		Title:       a.Title,
	}

	if strings.TrimSpace(values.Title) == "" {
		if !isInteractive() {
			return fmt.Errorf("a title is required when not running in a terminal")
		}
		if err := runAddForm(&values, cli.Container.Flags.Categories()); err != nil {
			return fmt.Errorf("add form cancelled: %w", err)
		}
	}

	params, err := values.params()
	if err != nil {
		return err
	}

	logging.Logger.Info("Executing add command", "title", params.Title, "category", params.Category)
	flag := cli.Container.Flags.Add(context.Background(), params)
	cli.warnIfNotPersisted()

	if a.Format == "json" {
		return printJSON(cli.Out(), flag)
	}

	out := cli.Out()
	fmt.Fprintf(out, "Flag '%s' added (id: %s)\n", flag.Title, shortID(flag.ID))
	if flag.FeasibilityScore != nil {
		fmt.Fprintf(out, "Feasibility: %d/100 - %s\n", *flag.FeasibilityScore, flag.FeasibilityReason)
	}
	return nil
}

// params validates the raw values and converts them to AddFlagParams
func (v addFormValues) params() (services.AddFlagParams, error) {
	title := strings.TrimSpace(v.Title)
	if title == "" {
		return services.AddFlagParams{}, fmt.Errorf("title cannot be empty")
	}

	target, err := domain.ParseDate(strings.TrimSpace(v.Target))
	if err != nil {
		return services.AddFlagParams{}, fmt.Errorf("invalid target date: %w", err)
	}

	return services.AddFlagParams{
		Category:    strings.TrimSpace(v.Category),
		Description: strings.TrimSpace(v.Description),
		Frequency:   strings.TrimSpace(v.Frequency),
		Goal:        strings.TrimSpace(v.Goal),
		TargetDate:  target,
		Task:        strings.TrimSpace(v.Task),
		Title:       title,
	}, nil
}

func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runAddForm(values *addFormValues, categories []string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Learn the guitar").
				Value(&values.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Description("A measurable cadence like 'practice 3 times per week' scores higher").
				Value(&values.Description),
			huh.NewInput().
				Title("Category").
				Placeholder("leave empty for the default category").
				Suggestions(categories).
				Value(&values.Category),
			huh.NewInput().
				Title("Target date").
				Placeholder("YYYY-MM-DD").
				Value(&values.Target).
				Validate(func(s string) error {
					_, err := domain.ParseDate(strings.TrimSpace(s))
					return err
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Frequency").
				Options(
					huh.NewOption("Not set", ""),
					huh.NewOption("Daily", "daily"),
					huh.NewOption("Weekly", "weekly"),
					huh.NewOption("Monthly", "monthly"),
				).
				Value(&values.Frequency),
			huh.NewInput().
				Title("Goal").
				Value(&values.Goal),
			huh.NewInput().
				Title("Next task").
				Value(&values.Task),
		),
	)
	return form.Run()
}
