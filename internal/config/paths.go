package config

import (
	"os"
	"path/filepath"
)

// GetHome returns $FLAGKEEPER_HOME, or ~/.flagkeeper when unset
func GetHome() string {
	home := os.Getenv("FLAGKEEPER_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".flagkeeper"
		}
		return filepath.Join(homeDir, ".flagkeeper")
	}
	return ExpandPath(home)
}

// GetDBPath returns $FLAGKEEPER_HOME/flags.db
func GetDBPath() string {
	return filepath.Join(GetHome(), "flags.db")
}

// GetBadgerDir returns $FLAGKEEPER_HOME/badger
func GetBadgerDir() string {
	return filepath.Join(GetHome(), "badger")
}

// GetSlotsDir returns $FLAGKEEPER_HOME/slots, used by the file backend
func GetSlotsDir() string {
	return filepath.Join(GetHome(), "slots")
}

// GetSettingsPath returns $FLAGKEEPER_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetHome(), "settings.json")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
