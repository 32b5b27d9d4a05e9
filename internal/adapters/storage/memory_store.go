package storage

import (
	"context"
	"slices"
	"sync"

	"flagkeeper/internal/ports"
)

// MemoryStore implements ports.SnapshotStore in process memory.
// Nothing survives Close.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string][]byte
}

// Verify interface compliance at compile time
var _ ports.SnapshotStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

// Close implements SnapshotStore.Close
func (s *MemoryStore) Close() error {
	return nil
}

// Load implements SnapshotReader.Load
func (s *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.slots[key]
	if !ok {
		return nil, ports.ErrSlotNotFound
	}
	return slices.Clone(data), nil
}

// Save implements SnapshotWriter.Save
func (s *MemoryStore) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = slices.Clone(data)
	return nil
}
