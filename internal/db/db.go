package db

import (
	"fmt"  // Error formatting
	"time" // Pool timings

	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // PostgreSQL driver for GORM
	"gorm.io/driver/sqlite"   // SQLite driver for GORM
	"gorm.io/gorm"            // GORM ORM library
	"gorm.io/gorm/logger"     // GORM logger levels
)

// Open connects to the database behind driver/dsn and tunes the connection pool
func Open(driver, dsn string) (*gorm.DB, error) {
	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),        // Errors are logged by the callers
		TranslateError: true,                                         // Map driver errors to gorm.ErrDuplicatedKey
		NowFunc:        func() time.Time { return time.Now().UTC() }, // Timestamps are stored in UTC
	})
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db: get sql.DB: %w", err)
	}
	if driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1) // SQLite serialises writers anyway
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("db: unsupported DB_DRIVER %q (supported: mysql, postgres, sqlite)", driver)
	}
}
