package database

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openshelf/backend/models"
)

// Open connects to the SQLite database file at path and migrates the
// schema. The handle is returned to the caller; nothing in this
// package keeps global state.
func Open(path string, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: NewLogger(logger),
		// Map driver unique-constraint failures to gorm.ErrDuplicatedKey
		// so registration can tell a taken email from other errors.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := db.AutoMigrate(models.All...); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate: %w", err)
	}

	return db, nil
}

// Reset deletes the database file if it exists and opens a fresh one.
// Used by the seed command; never called by the server.
func Reset(path string, logger zerolog.Logger) (*gorm.DB, error) {
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("failed to remove database %s: %w", path, err)
		}
	}
	return Open(path, logger)
}

// Close closes the underlying connection of a gorm handle.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetOrCreateAuthor finds an author by name or creates one. The name
// acts as a natural key for import dedup only; no uniqueness is
// enforced on the column.
func GetOrCreateAuthor(db *gorm.DB, name string) (models.Author, error) {
	var author models.Author
	err := db.Where(models.Author{Name: name}).FirstOrCreate(&author).Error
	if err != nil {
		return models.Author{}, fmt.Errorf("failed to get or create author %q: %w", name, err)
	}
	return author, nil
}
