package cmd

import (
	"context"
	"fmt"

	"flagkeeper/internal/logging"
	"flagkeeper/internal/ui"
)

// BoardCmd opens the interactive flag board
type BoardCmd struct{}

// Run executes the board command
func (b *BoardCmd) Run(cli *CLI) error {
	if !isInteractive() {
		return fmt.Errorf("the board needs an interactive terminal")
	}

	logging.Logger.Info("Starting board", "flags", cli.Container.Flags.Len())
	return ui.Run(context.Background(), cli.Container.Flags)
}
