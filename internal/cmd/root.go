package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"flagkeeper/internal/config"
	"flagkeeper/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Backend     string           `help:"Storage backend (sqlite, file, badger, redis, postgres, memory)" env:"FLAGKEEPER_BACKEND"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	Key         string           `help:"Storage key of the flag collection" env:"FLAGKEEPER_STORAGE_KEY"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"200"`
	PostgresDSN string           `help:"Postgres connection string for the postgres backend" env:"FLAGKEEPER_POSTGRES_DSN" name:"postgres-dsn"`
	RedisAddr   string           `help:"Redis address for the redis backend" env:"FLAGKEEPER_REDIS_ADDR"`

	Add        AddCmd        `cmd:"add" help:"Add a new flag (interactive when no title is given)"`
	Board      BoardCmd      `cmd:"board" help:"Browse and update flags in an interactive board"`
	Categories CategoriesCmd `cmd:"categories" help:"List categories in use"`
	Check      CheckCmd      `cmd:"check" help:"Check reminders, deadlines and recent completions"`
	Complete   CompleteCmd   `cmd:"complete" help:"Mark a flag as completed"`
	Del        DelCmd        `cmd:"del" aliases:"delete,rm" help:"Delete a flag"`
	Export     ExportCmd     `cmd:"export" help:"Export the collection as JSON or YAML"`
	Import     ImportCmd     `cmd:"import" help:"Import flags from a JSON snapshot"`
	List       ListCmd       `cmd:"list" aliases:"ls" help:"List flags" default:"1"`
	Logs       LogsCmd       `cmd:"logs" help:"Manage flag journal entries (add, list, del)"`
	MCP        MCPCmd        `cmd:"mcp" help:"Serve flag tools over MCP on stdin/stdout"`
	Progress   ProgressCmd   `cmd:"progress" aliases:"update" help:"Record progress on a flag"`
	Reminders  RemindersCmd  `cmd:"reminders" help:"Show flags that need a progress update"`
	Report     ReportCmd     `cmd:"report" help:"Write a detailed progress report"`
	Search     SearchCmd     `cmd:"search" help:"Search flags by title, description or category"`
	Seed       SeedCmd       `cmd:"seed" help:"Add sample flags for a demo"`
	Settings   SettingsCmd   `cmd:"settings" help:"Manage settings (meta, show)"`
	Stats      StatsCmd      `cmd:"stats" help:"Show completion statistics"`
	Status     StatusCmd     `cmd:"status" help:"Override the status of a flag"`
	View       ViewCmd       `cmd:"view" help:"View a flag with its history and logs"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	out       io.Writer        `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// LoadedSettings returns the settings read from settings.json, never nil
func (c *CLI) LoadedSettings() *config.Settings {
	if c.settings == nil {
		return &config.Settings{}
	}
	return c.settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Precedence: CLI flags > env vars > settings.json > defaults.
	// Kong already resolved flags and env vars, so settings only fill gaps.
	settings := c.LoadedSettings()

	if c.MaxLogFiles == logging.DefaultMaxLogFiles {
		if _, hasEnv := os.LookupEnv("FLAGKEEPER_MAX_LOG_FILES"); !hasEnv {
			if settings.MaxLogFiles != nil {
				c.MaxLogFiles = *settings.MaxLogFiles
			}
		}
	}

	if !c.Debug {
		if _, hasEnv := os.LookupEnv("FLAGKEEPER_DEBUG"); !hasEnv {
			if settings.Debug != nil && *settings.Debug {
				c.Debug = true
			}
		}
	}

	if c.Backend == "" {
		c.Backend = settings.Backend
	}
	if c.Key == "" {
		c.Key = settings.GetStorageKey()
	}
	if c.PostgresDSN == "" {
		c.PostgresDSN = settings.PostgresDSN
	}
	if c.RedisAddr == "" {
		c.RedisAddr = settings.RedisAddr
	}

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Exported so the storage adapters' GORM logger sees the debug level
	if c.Debug || c.DebugFile != "" {
		os.Setenv("FLAGKEEPER_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("FLAGKEEPER_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != logging.DefaultMaxLogFiles {
		os.Setenv("FLAGKEEPER_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	// The container is created after logging so adapters log from the start
	container, err := NewContainer(context.Background(), ContainerOptions{
		Backend:     c.Backend,
		Key:         c.Key,
		PostgresDSN: c.PostgresDSN,
		RedisAddr:   c.RedisAddr,
		Settings:    settings,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
