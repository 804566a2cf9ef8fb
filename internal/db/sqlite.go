package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"contribution-tracker-go/internal/config"
	"contribution-tracker-go/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLite opens the local store. A single connection is kept open so
// writers are serialized and in-memory databases survive between calls.
func NewSQLite(cfg config.DBConfig, log logger.Logger) (*gorm.DB, error) {
	if !isMemoryPath(cfg.Path) {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
	}
	log.Info("db: opening sqlite", "path", cfg.Path)

	gormDB, err := gorm.Open(sqlite.Open(cfg.SQLiteDSN()), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := gormDB.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if !isMemoryPath(cfg.Path) {
		if err := gormDB.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, fmt.Errorf("enable wal: %w", err)
		}
	}

	log.Info("db: connected", "driver", config.DriverSQLite)
	return gormDB, nil
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
