package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
)

// ImportCmd merges flags from a snapshot file
type ImportCmd struct {
	File string `arg:"" help:"Snapshot file to import ('-' reads stdin)"`
}

// Run executes the import command
func (i *ImportCmd) Run(cli *CLI) error {
	var (
		data []byte
		err  error
	)
	if i.File == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(i.File)
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	added, err := cli.Container.Flags.Import(context.Background(), data)
	if err != nil {
		return fmt.Errorf("failed to import snapshot: %w", err)
	}
	cli.warnIfNotPersisted()

	logging.Logger.Info("Import finished", "file", i.File, "added", added)
	fmt.Fprintf(cli.Out(), "Imported %d flags\n", added)
	return nil
}

// ExportCmd writes the collection as JSON or YAML
type ExportCmd struct {
	Format string `help:"Output format: json or yaml" enum:"json,yaml" default:"json"`
	Output string `help:"File to write (stdout when empty)" short:"o"`
}

// Run executes the export command
func (e *ExportCmd) Run(cli *CLI) error {
	data, err := cli.Container.Flags.Export()
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if e.Format == "yaml" {
		data, err = snapshotToYAML(data)
		if err != nil {
			return err
		}
	}

	if e.Output == "" {
		_, err := cli.Out().Write(append(data, '\n'))
		return err
	}

	if err := os.WriteFile(e.Output, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(cli.Out(), "Exported %d flags to %s\n", cli.Container.Flags.Len(), e.Output)
	return nil
}

// snapshotToYAML re-encodes a canonical JSON snapshot as YAML
func snapshotToYAML(data []byte) ([]byte, error) {
	var flags []domain.Flag
	if err := json.Unmarshal(data, &flags); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	out, err := yaml.Marshal(flags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return out, nil
}
