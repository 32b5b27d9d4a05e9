package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"flagkeeper/internal/logging"
	"flagkeeper/internal/ports"
)

// SQLRepository implements ports.SnapshotStore on top of GORM. It backs both
// the SQLite (default) and Postgres backends.
type SQLRepository struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.SnapshotStore = (*SQLRepository)(nil)

// gormLogger wraps the flagkeeper logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else if elapsed > 200*time.Millisecond {
		logging.Logger.Warn("slow query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("FLAGKEEPER_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteRepository opens (creating if needed) the SQLite database at dbPath
func NewSQLiteRepository(dbPath string) (*SQLRepository, error) {
	// Expand home directory if present
	if len(dbPath) > 0 && dbPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := openGorm(sqlite.Open(dbPath))
	if err != nil {
		return nil, err
	}

	// WAL lets a CLI read while another process writes
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	return newSQLRepository(db)
}

// NewPostgresRepository connects to the Postgres database described by dsn
func NewPostgresRepository(dsn string) (*SQLRepository, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres backend requires a DSN")
	}

	db, err := openGorm(postgres.Open(dsn))
	if err != nil {
		return nil, err
	}

	return newSQLRepository(db)
}

func openGorm(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt: false,
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func newSQLRepository(db *gorm.DB) (*SQLRepository, error) {
	if err := db.AutoMigrate(&SlotModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot_slots schema: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	return &SQLRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load implements SnapshotReader.Load
func (r *SQLRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var slot SlotModel

	err := withRetry(func() error {
		return r.db.WithContext(ctx).Where("name = ?", key).First(&slot).Error
	}, 3)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to load slot %s: %w", key, err)
	}

	return slot.Data, nil
}

// Save implements SnapshotWriter.Save. Each save bumps the slot revision.
func (r *SQLRepository) Save(ctx context.Context, key string, data []byte) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&SlotModel{}).
				Where("name = ?", key).
				Updates(map[string]any{
					"data":     data,
					"revision": gorm.Expr("revision + 1"),
				})
			if result.Error != nil {
				return fmt.Errorf("failed to update slot %s: %w", key, result.Error)
			}
			if result.RowsAffected > 0 {
				return nil
			}

			slot := SlotModel{Data: data, Name: key, Revision: 1}
			if err := tx.Create(&slot).Error; err != nil {
				return fmt.Errorf("failed to create slot %s: %w", key, err)
			}
			return nil
		})
	}, 3)
}

// Revision returns how many times the slot has been written
func (r *SQLRepository) Revision(ctx context.Context, key string) (int64, error) {
	var slot SlotModel
	if err := r.db.WithContext(ctx).Select("revision").Where("name = ?", key).First(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ports.ErrSlotNotFound
		}
		return 0, err
	}
	return slot.Revision, nil
}

// withRetry retries fn when SQLite reports the database as busy or locked
func withRetry(fn func() error, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries", maxRetries)
}
