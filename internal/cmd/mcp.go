package cmd

import (
	"flagkeeper/internal/logging"
	"flagkeeper/internal/mcpserver"
	"flagkeeper/internal/version"
)

// MCPCmd serves the flag tools over the Model Context Protocol on stdio
type MCPCmd struct{}

// Run executes the mcp command
func (m *MCPCmd) Run(cli *CLI) error {
	logging.Logger.Info("Starting MCP server", "key", cli.Container.Flags.Key(), "backend", cli.Container.Backend)
	return mcpserver.Serve(cli.Container.Flags, version.Version)
}
