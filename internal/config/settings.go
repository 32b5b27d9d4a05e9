package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"flagkeeper/internal/domain"
)

// Storage backends
const (
	BackendBadger   = "badger"
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
)

// Backends lists every supported backend name
var Backends = []string{BackendSQLite, BackendFile, BackendBadger, BackendRedis, BackendPostgres, BackendMemory}

// Defaults
const (
	DefaultBackend            = BackendSQLite
	DefaultDeadlineWindowDays = 30
	DefaultRecentWindowDays   = 7
	DefaultReminderDays       = 30
	DefaultStorageKey         = "newyear_flags"
)

// Settings represents the structure of $FLAGKEEPER_HOME/settings.json
type Settings struct {
	Backend            string `json:"backend,omitempty"`
	DeadlineWindowDays *int   `json:"deadline_window_days,omitempty"`
	Debug              *bool  `json:"debug,omitempty"`
	DefaultCategory    string `json:"default_category,omitempty"`
	FeasibilityEnabled *bool  `json:"feasibility_enabled,omitempty"`
	MaxLogFiles        *int   `json:"max_log_files,omitempty"`
	PostgresDSN        string `json:"postgres_dsn,omitempty"`
	RedisAddr          string `json:"redis_addr,omitempty"`
	ReminderDays       *int   `json:"reminder_days,omitempty"`
	StatusPolicy       string `json:"status_policy,omitempty"`
	StorageKey         string `json:"storage_key,omitempty"`
}

// Validate checks for configuration errors
func (s *Settings) Validate() error {
	if s.Backend != "" && !slices.Contains(Backends, s.Backend) {
		return fmt.Errorf("unknown backend '%s' (expected one of %v)", s.Backend, Backends)
	}
	if _, err := domain.ParseStatusPolicy(s.StatusPolicy); err != nil {
		return err
	}
	if s.ReminderDays != nil && *s.ReminderDays <= 0 {
		return fmt.Errorf("reminder_days must be positive, got %d", *s.ReminderDays)
	}
	if s.DeadlineWindowDays != nil && *s.DeadlineWindowDays <= 0 {
		return fmt.Errorf("deadline_window_days must be positive, got %d", *s.DeadlineWindowDays)
	}
	return nil
}

// GetStorageKey returns the configured storage key with default applied
func (s *Settings) GetStorageKey() string {
	if s.StorageKey == "" {
		return DefaultStorageKey
	}
	return s.StorageKey
}

// GetDefaultCategory returns the fallback category with default applied
func (s *Settings) GetDefaultCategory() string {
	if s.DefaultCategory == "" {
		return domain.DefaultCategory
	}
	return s.DefaultCategory
}

// GetFeasibilityEnabled reports whether new flags are scored (default true)
func (s *Settings) GetFeasibilityEnabled() bool {
	return s.FeasibilityEnabled == nil || *s.FeasibilityEnabled
}

// GetReminderDays returns the reminder threshold with default applied
func (s *Settings) GetReminderDays() int {
	if s.ReminderDays == nil {
		return DefaultReminderDays
	}
	return *s.ReminderDays
}

// GetDeadlineWindowDays returns the upcoming-deadline window with default applied
func (s *Settings) GetDeadlineWindowDays() int {
	if s.DeadlineWindowDays == nil {
		return DefaultDeadlineWindowDays
	}
	return *s.DeadlineWindowDays
}

// LoadSettings loads settings from $FLAGKEEPER_HOME/settings.json.
// Returns empty Settings if file doesn't exist (not an error).
func LoadSettings() (*Settings, error) {
	path := GetSettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	return &settings, nil
}

// SaveSettings saves settings to $FLAGKEEPER_HOME/settings.json
func SaveSettings(settings *Settings) error {
	path := GetSettingsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
