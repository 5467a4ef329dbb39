package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

// DatabaseManager owns the process-wide connection pool. It is constructed
// once at startup and handed to every handler; there is no package-level
// database state.
type DatabaseManager struct {
	gormDB   *gorm.DB
	sqlDB    *sql.DB
	LogLevel LogLevel
}

func New(dsn string, maxConnection int) (*DatabaseManager, error) {
	dm := &DatabaseManager{LogLevel: LogLevelWarn}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(dm.gormLogLevel()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	dm.gormDB = db
	dm.sqlDB = sqlDB
	return dm, nil
}

// NewWithDB wraps an already-open gorm handle. Tests use this with an
// in-memory sqlite database.
func NewWithDB(db *gorm.DB) *DatabaseManager {
	sqlDB, _ := db.DB()
	return &DatabaseManager{gormDB: db, sqlDB: sqlDB, LogLevel: LogLevelSilent}
}

func (dm *DatabaseManager) gormLogLevel() logger.LogLevel {
	switch dm.LogLevel {
	case LogLevelError:
		return logger.Error
	case LogLevelWarn:
		return logger.Warn
	case LogLevelInfo:
		return logger.Info
	default:
		return logger.Silent
	}
}

// Exec runs fn against a request-scoped handle.
func (dm *DatabaseManager) Exec(ctx context.Context, fn func(db *gorm.DB) error) error {
	return fn(dm.gormDB.WithContext(ctx))
}

// Transaction runs fn inside a single database transaction, rolling back on
// any returned error.
func (dm *DatabaseManager) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return dm.gormDB.WithContext(ctx).Transaction(fn)
}

// Close closes the underlying pool.
func (dm *DatabaseManager) Close() error {
	if dm.sqlDB == nil {
		return nil
	}
	return dm.sqlDB.Close()
}
