package repository

import (
	"errors"  // Error matching
	"strings" // Driver message fallback

	"gorm.io/gorm" // GORM ORM library
)

var (
	// ErrNotFound is returned when a lookup or delete matches no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps GORM and driver errors to the repository sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isDuplicate(err):
		return ErrDuplicate
	default:
		return err
	}
}

// isDuplicate recognises unique violations even from drivers without error translation
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, marker := range duplicateMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Unique violation messages of SQLite, MySQL and PostgreSQL
var duplicateMarkers = []string{"UNIQUE constraint failed", "Duplicate entry", "duplicate key value"}
