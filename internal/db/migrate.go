package db

import (
	"fmt"                     // Error wrapping
	"skydesk/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
)

// Migrate performs automatic migration for the database schema. The unique
// indexes on users.email and bookings.unit_id are what make Conflict detection
// race free.
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(&domain.User{}, &domain.Booking{}); err != nil {
		return err
	}
	for _, stmt := range binaryCollation(db.Dialector.Name()) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("db: collation: %w", err)
		}
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}

// binaryCollation returns the statements that make emails and unit ids compare
// byte for byte. MySQL's default collation folds case in both lookups and
// unique indexes; SQLite and Postgres already compare exactly.
func binaryCollation(dialect string) []string {
	if dialect != "mysql" {
		return nil
	}
	return []string{
		"ALTER TABLE users MODIFY email VARCHAR(191) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
		"ALTER TABLE bookings MODIFY unit_id VARCHAR(191) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
	}
}
