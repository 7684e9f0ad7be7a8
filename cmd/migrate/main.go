package main

import (
	"skydesk/internal/config" // Configuration
	"skydesk/internal/db"     // Database bootstrap

	"github.com/sirupsen/logrus" // Logging
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
}
