// Package db stores translation history in SQLite.
package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/pysugar/quicktrans/internal/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultFileName is the database file created under the resource directory.
const DefaultFileName = "translation_history.db"

// InitDB opens (creating if needed) the history database at dbPath and runs
// migrations. Calling it again on the same file is a no-op migration.
func InitDB(dbPath string) (*gorm.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &PersistenceError{Op: "init", Err: err}
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, &PersistenceError{Op: "open", Err: err}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, &PersistenceError{Op: "open", Err: err}
	}
	// Concurrent saves queue on the single connection.
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
		return nil, &PersistenceError{Op: "open", Err: err}
	}

	if err := db.AutoMigrate(&models.TranslationRecord{}); err != nil {
		return nil, &PersistenceError{Op: "migrate", Err: err}
	}

	log.Printf("[history] database ready at %s", dbPath)
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close history database: %w", err)
	}
	return nil
}
