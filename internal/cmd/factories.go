package cmd

import (
	"context"
	"fmt"

	adapterstorage "flagkeeper/internal/adapters/storage"
	"flagkeeper/internal/config"
	"flagkeeper/internal/domain"
	"flagkeeper/internal/logging"
	"flagkeeper/internal/ports"
	"flagkeeper/internal/services"
)

// ContainerOptions selects the backend and tunes the flag store
type ContainerOptions struct {
	Backend     string
	Clock       ports.Clock
	Key         string
	PostgresDSN string
	RedisAddr   string
	Settings    *config.Settings
}

// Container holds all dependencies for the application
type Container struct {
	// Services
	Flags *services.FlagStore

	Backend string

	// Internal - for cleanup only
	slot ports.SnapshotStore
}

// NewContainer opens the configured backend and loads the flag collection
func NewContainer(ctx context.Context, opts ContainerOptions) (*Container, error) {
	backend := opts.Backend
	if backend == "" {
		backend = config.DefaultBackend
	}

	slot, err := openSlot(backend, opts)
	if err != nil {
		return nil, err
	}

	container, err := NewContainerWithSlot(ctx, slot, opts)
	if err != nil {
		slot.Close()
		return nil, err
	}
	container.Backend = backend
	return container, nil
}

// NewContainerWithSlot wires the flag store on top of an already open slot
func NewContainerWithSlot(ctx context.Context, slot ports.SnapshotStore, opts ContainerOptions) (*Container, error) {
	settings := opts.Settings
	if settings == nil {
		settings = &config.Settings{}
	}

	policy, err := domain.ParseStatusPolicy(settings.StatusPolicy)
	if err != nil {
		return nil, err
	}

	key := opts.Key
	if key == "" {
		key = settings.GetStorageKey()
	}

	storeOpts := services.DefaultOptions()
	if opts.Clock != nil {
		storeOpts.Clock = opts.Clock
	}
	storeOpts.DeadlineWindowDays = settings.GetDeadlineWindowDays()
	storeOpts.DefaultCategory = settings.GetDefaultCategory()
	storeOpts.FeasibilityEnabled = settings.GetFeasibilityEnabled()
	storeOpts.Policy = policy
	storeOpts.ReminderDays = settings.GetReminderDays()

	logging.Logger.Debug("Creating flag store", "key", key, "policy", policy)

	return &Container{
		Flags: services.NewFlagStore(ctx, slot, key, storeOpts),
		slot:  slot,
	}, nil
}

// openSlot creates the snapshot store for backend
func openSlot(backend string, opts ContainerOptions) (ports.SnapshotStore, error) {
	logging.Logger.Info("Opening storage backend", "backend", backend)

	switch backend {
	case config.BackendSQLite:
		return adapterstorage.NewSQLiteRepository(config.GetDBPath())
	case config.BackendFile:
		return adapterstorage.NewFileStore(config.GetSlotsDir())
	case config.BackendBadger:
		return adapterstorage.NewBadgerStore(config.GetBadgerDir())
	case config.BackendRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis backend requires --redis-addr or FLAGKEEPER_REDIS_ADDR")
		}
		return adapterstorage.NewRedisStore(opts.RedisAddr)
	case config.BackendPostgres:
		if opts.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres backend requires --postgres-dsn or FLAGKEEPER_POSTGRES_DSN")
		}
		return adapterstorage.NewPostgresRepository(opts.PostgresDSN)
	case config.BackendMemory:
		return adapterstorage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend '%s' (expected one of %v)", backend, config.Backends)
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.slot != nil {
		return c.slot.Close()
	}
	return nil
}
