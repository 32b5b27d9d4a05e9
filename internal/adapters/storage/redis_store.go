package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"flagkeeper/internal/ports"
)

// RedisStore implements ports.SnapshotStore on a Redis server
type RedisStore struct {
	prefix string
	rdb    *goredis.Client
}

// Verify interface compliance at compile time
var _ ports.SnapshotStore = (*RedisStore)(nil)

// NewRedisStore connects to the Redis server at addr and verifies it answers
func NewRedisStore(addr string) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis backend requires an address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{
		prefix: "flagkeeper:",
		rdb:    rdb,
	}, nil
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Load implements SnapshotReader.Load
func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ports.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to load slot %s: %w", key, err)
	}
	return data, nil
}

// Save implements SnapshotWriter.Save
func (s *RedisStore) Save(ctx context.Context, key string, data []byte) error {
	if err := s.rdb.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", key, err)
	}
	return nil
}
