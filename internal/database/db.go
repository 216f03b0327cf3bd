package database

import (
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	"github.com/juju/errors"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"brewcart/internal/config"
	"brewcart/internal/logging"
)

var logger = logging.GetLogger("database")

// Open initializes the database connection described by cfg
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite3"
	}
	db, err := gorm.Open(driver, cfg.DSN)
	if err != nil {
		return nil, errors.Annotatef(err, "opening %s database", driver)
	}

	db.LogMode(cfg.LogSQL)

	if cfg.MaxOpenConns > 0 {
		db.DB().SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.DB().SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.DB().SetConnMaxLifetime(time.Hour)

	logger.Infof("opened %s database", driver)
	return db, nil
}

// OpenMemory opens a private in-memory SQLite database. A single connection
// keeps every query on the same in-memory instance.
func OpenMemory() (*gorm.DB, error) {
	return Open(config.DatabaseConfig{
		Driver:       "sqlite3",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
}
