package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"flagkeeper/internal/ports"
)

// FileStore implements ports.SnapshotStore with one JSON file per slot.
// Reads take a shared lock and writes an exclusive lock, so several
// processes can share a directory safely.
type FileStore struct {
	dir string
}

// Verify interface compliance at compile time
var _ ports.SnapshotStore = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at dir, creating it if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create slots directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Close implements SnapshotStore.Close
func (s *FileStore) Close() error {
	return nil
}

// Path returns the file backing key
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

// Load implements SnapshotReader.Load
func (s *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	file, err := os.Open(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to open slot %s: %w", key, err)
	}
	defer file.Close()

	if err := lockFile(file, false); err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer unlockFile(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil, ports.ErrSlotNotFound
	}
	return data, nil
}

// Save implements SnapshotWriter.Save
func (s *FileStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := os.OpenFile(s.Path(key), os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open slot %s: %w", key, err)
	}
	defer file.Close()

	if err := lockFile(file, true); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer unlockFile(file)

	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate slot %s: %w", key, err)
	}
	if _, err := file.WriteAt(data, 0); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return file.Sync()
}

// sanitizeKey turns a slot key into a safe file name.
// - Letters, digits, hyphens, underscores and periods are kept
// - Spaces and path separators become underscores (consecutive ones collapsed)
// - Anything else is removed
func sanitizeKey(key string) string {
	var result strings.Builder
	lastWasUnderscore := false

	for _, r := range key {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '.':
			result.WriteRune(r)
			lastWasUnderscore = false
		case r == '_':
			result.WriteRune('_')
			lastWasUnderscore = true
		case unicode.IsSpace(r) || r == '/' || r == '\\':
			if !lastWasUnderscore && result.Len() > 0 {
				result.WriteRune('_')
				lastWasUnderscore = true
			}
		}
	}

	name := strings.Trim(strings.TrimRight(result.String(), "_"), ".")
	if name == "" {
		return "default"
	}
	return name
}
