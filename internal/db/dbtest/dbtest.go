package dbtest

import (
	"fmt"                 // DSN formatting
	"skydesk/internal/db" // Database bootstrap
	"sync/atomic"         // Unique database names
	"testing"             // Test helpers

	"gorm.io/gorm" // GORM ORM library
)

var memCounter atomic.Int64

// OpenTest opens a fresh, migrated in-memory SQLite database for a test
func OpenTest(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:skydesk_test_%d?mode=memory&cache=shared", memCounter.Add(1))
	conn, err := db.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
