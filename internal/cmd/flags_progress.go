package cmd

import (
	"context"
	"fmt"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
)

// ProgressCmd records progress on a flag
type ProgressCmd struct {
	ID       string `arg:"" help:"Flag id or unique id prefix"`
	Notes    string `help:"Notes stored with this check" short:"n"`
	Progress int    `arg:"" help:"Progress percentage (clamped to 0-100)"`
}

// Run executes the progress command
func (p *ProgressCmd) Run(cli *CLI) error {
	id, err := cli.resolveID(p.ID)
	if err != nil {
		return err
	}

	logging.Logger.Info("Executing progress command", "id", id, "progress", p.Progress)
	if err := cli.Container.Flags.UpdateProgress(context.Background(), id, p.Progress, p.Notes); err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	cli.warnIfNotPersisted()

	return printProgressResult(cli, id)
}

// CompleteCmd marks a flag as completed
type CompleteCmd struct {
	ID string `arg:"" help:"Flag id or unique id prefix"`
}

// Run executes the complete command
func (c *CompleteCmd) Run(cli *CLI) error {
	id, err := cli.resolveID(c.ID)
	if err != nil {
		return err
	}

	logging.Logger.Info("Executing complete command", "id", id)
	if err := cli.Container.Flags.UpdateStatus(context.Background(), id, domain.StatusCompleted); err != nil {
		return fmt.Errorf("failed to complete flag: %w", err)
	}
	cli.warnIfNotPersisted()

	return printProgressResult(cli, id)
}

// StatusCmd overrides the status of a flag
type StatusCmd struct {
	ID     string `arg:"" help:"Flag id or unique id prefix"`
	Status string `arg:"" help:"New status" enum:"not_started,in_progress,completed"`
}

// Run executes the status command
func (s *StatusCmd) Run(cli *CLI) error {
	id, err := cli.resolveID(s.ID)
	if err != nil {
		return err
	}

	status, err := domain.ParseStatus(s.Status)
	if err != nil {
		return err
	}

	logging.Logger.Info("Executing status command", "id", id, "status", status)
	if err := cli.Container.Flags.UpdateStatus(context.Background(), id, status); err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	cli.warnIfNotPersisted()

	return printProgressResult(cli, id)
}

func printProgressResult(cli *CLI, id string) error {
	flag, err := cli.Container.Flags.Get(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.Out(), "Flag '%s' is %s at %d%%\n", flag.Title, flag.Status, flag.Progress)
	return nil
}
