package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnvironment provides an isolated test environment with its own FLAGKEEPER_HOME.
type TestEnvironment struct {
	Home     string
	extraEnv map[string]string
}

// NewTestEnvironment creates an isolated environment with a temp FLAGKEEPER_HOME
// using the given storage backend ("" keeps the default).
func NewTestEnvironment(tb testing.TB, backend string) *TestEnvironment {
	tb.Helper()

	env := &TestEnvironment{
		Home:     tb.TempDir(),
		extraEnv: make(map[string]string),
	}
	if backend != "" {
		env.SetEnv("FLAGKEEPER_BACKEND", backend)
	}
	return env
}

// Environ returns environment variables configured for test isolation.
// It drops inherited FLAGKEEPER_* variables, points FLAGKEEPER_HOME at the
// temp directory and disables debug logging.
func (e *TestEnvironment) Environ() []string {
	env := make([]string, 0, len(os.Environ())+2+len(e.extraEnv))

	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "FLAGKEEPER_") {
			continue
		}
		if _, overridden := e.extraEnv[key]; overridden {
			continue
		}
		env = append(env, kv)
	}

	env = append(env,
		"FLAGKEEPER_HOME="+e.Home,
		"FLAGKEEPER_DEBUG=",
	)
	for k, v := range e.extraEnv {
		env = append(env, k+"="+v)
	}
	return env
}

// SettingsPath returns the settings.json of this environment.
func (e *TestEnvironment) SettingsPath() string {
	return filepath.Join(e.Home, "settings.json")
}

// WriteSettings writes raw settings.json content.
func (e *TestEnvironment) WriteSettings(tb testing.TB, content string) {
	tb.Helper()
	if err := os.WriteFile(e.SettingsPath(), []byte(content), 0644); err != nil {
		tb.Fatalf("Failed to write settings: %v", err)
	}
}

// SetEnv sets an additional environment variable for this test environment.
func (e *TestEnvironment) SetEnv(key, value string) {
	e.extraEnv[key] = value
}
