package ports

import (
	"context"
	"errors"
)

// ErrSlotNotFound is returned by SnapshotReader.Load when nothing has been
// saved under the key yet
var ErrSlotNotFound = errors.New("snapshot slot not found")

// SnapshotReader reads a serialized snapshot from a named slot
type SnapshotReader interface {
	Load(ctx context.Context, key string) ([]byte, error)
}

// SnapshotWriter replaces the snapshot held in a named slot
type SnapshotWriter interface {
	Save(ctx context.Context, key string, data []byte) error
}

// SnapshotStore is the composite interface implemented by storage backends
type SnapshotStore interface {
	SnapshotReader
	SnapshotWriter
	Close() error
}
