package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_DisabledByDefault(t *testing.T) {
	t.Setenv("FLAGKEEPER_DEBUG", "")
	t.Setenv("FLAGKEEPER_DEBUG_FILE", "")

	path, err := Initialize(false, "", DefaultMaxLogFiles)

	require.NoError(t, err)
	assert.Empty(t, path)
	assert.NotNil(t, Logger)
}

func TestInitialize_CustomDebugFile(t *testing.T) {
	t.Setenv("FLAGKEEPER_DEBUG", "")
	t.Setenv("FLAGKEEPER_DEBUG_FILE", "")
	logPath := filepath.Join(t.TempDir(), "nested", "debug.log")

	path, err := Initialize(false, logPath, DefaultMaxLogFiles)
	require.NoError(t, err)
	assert.Equal(t, logPath, path)

	Logger.Info("hello from test")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestRotateLogs_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		p := filepath.Join(dir, fmt.Sprintf("%d.log", i))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
		modTime := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(p, modTime, modTime))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0644))

	require.NoError(t, rotateLogs(dir, 3))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"3.log", "4.log", "notes.txt"}, names)
}
