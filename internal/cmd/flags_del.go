package cmd

import (
	"context"
	"fmt"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
)

// DelCmd deletes a flag
type DelCmd struct {
	Force bool   `help:"Delete without confirmation" short:"f"`
	ID    string `arg:"" help:"Flag id or unique id prefix"`
}

// Run executes the del command
func (d *DelCmd) Run(cli *CLI) error {
	id, err := cli.resolveID(d.ID)
	if err != nil {
		return err
	}

	flag, err := cli.Container.Flags.Get(id)
	if err != nil {
		return err
	}

	if !d.Force && !d.confirmDeletion(cli, flag) {
		return nil
	}

	logging.Logger.Info("Executing del command", "id", id)
	if err := cli.Container.Flags.Delete(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete flag: %w", err)
	}
	cli.warnIfNotPersisted()

	fmt.Fprintf(cli.Out(), "Flag '%s' deleted\n", flag.Title)
	return nil
}

func (d *DelCmd) confirmDeletion(cli *CLI, flag domain.Flag) bool {
	out := cli.Out()
	fmt.Fprintf(out, "WARNING: This will delete flag '%s'\n", flag.Title)
	if n := len(flag.CheckHistory); n > 0 {
		fmt.Fprintf(out, "  - %d progress checks\n", n)
	}
	if n := len(flag.Logs); n > 0 {
		fmt.Fprintf(out, "  - %d log entries\n", n)
	}
	fmt.Fprint(out, "\nContinue? (y/N): ")
	var response string
	fmt.Scanln(&response)
	if response != "y" && response != "Y" {
		logging.Logger.Info("User cancelled flag deletion", "id", flag.ID)
		fmt.Fprintln(out, "Cancelled")
		return false
	}
	return true
}
