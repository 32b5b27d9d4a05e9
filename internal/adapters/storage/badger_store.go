package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"flagkeeper/internal/ports"
)

// slotKeyPrefix namespaces snapshot slots inside the Badger keyspace
const slotKeyPrefix = "slot:"

// BadgerStore implements ports.SnapshotStore with an embedded Badger database
type BadgerStore struct {
	db *badger.DB
}

// Verify interface compliance at compile time
var _ ports.SnapshotStore = (*BadgerStore)(nil)

// NewBadgerStore opens (creating if needed) a Badger database in dirPath
func NewBadgerStore(dirPath string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dirPath).
		WithLoggingLevel(badger.ERROR)
	return openBadger(opts)
}

// NewInMemoryBadgerStore opens a Badger database that lives only in memory
func NewInMemoryBadgerStore() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR)
	return openBadger(opts)
}

func openBadger(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close closes the Badger database
func (s *BadgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load implements SnapshotReader.Load
func (s *BadgerStore) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(slotKeyPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ports.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to load slot %s: %w", key, err)
	}

	return data, nil
}

// Save implements SnapshotWriter.Save
func (s *BadgerStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(slotKeyPrefix+key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", key, err)
	}
	return nil
}
