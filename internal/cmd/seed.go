package cmd

import (
	"context"
	"fmt"

	"flagkeeper/internal/logging"
)

// SeedCmd adds demo flags
type SeedCmd struct {
	Force bool `help:"Seed even when the collection already has flags" short:"f"`
}

// Run executes the seed command
func (s *SeedCmd) Run(cli *CLI) error {
	store := cli.Container.Flags
	if store.Len() > 0 && !s.Force {
		return fmt.Errorf("collection '%s' already has %d flags (use --force to add samples anyway)", store.Key(), store.Len())
	}

	added := store.SeedSamples(context.Background())
	cli.warnIfNotPersisted()

	logging.Logger.Info("Sample flags seeded", "added", added)
	fmt.Fprintf(cli.Out(), "Added %d sample flags\n", added)
	return nil
}
