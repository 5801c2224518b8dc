// Package store persists vessel positions, metadata, derived events, and
// alerts in an embedded SQLite database opened in WAL (write-ahead log)
// journal mode.
package store

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config selects the database file (or ":memory:" for tests).
type Config struct {
	Path string
}

// NewConnection opens the embedded SQLite database at cfg.Path in WAL mode
// and runs the schema migration.
func NewConnection(cfg Config) (*gorm.DB, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	dsn := path
	if path != ":memory:" {
		dsn = path + "?_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open track store: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate track store: %w", err)
	}

	return db, nil
}

// NewTestConnection opens an in-memory database, migrated and ready for
// use in tests.
func NewTestConnection() (*gorm.DB, error) {
	return NewConnection(Config{Path: ":memory:"})
}

// AutoMigrate runs schema migration for every persisted model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&PositionRecord{},
		&VesselRecord{},
		&EventRecord{},
		&AlertRecord{},
		&SARDetectionRecord{},
		&SanctionRecord{},
	)
}

// Close releases the underlying database connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
