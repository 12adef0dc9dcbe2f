package configs

import (
	"fmt"

	"github.com/Vishnukant2275/easyorderin/entity"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

// ConnectionDB opens the configured database and keeps it as the process default.
func ConnectionDB(cfg *Config) (*gorm.DB, error) {
	database, err := OpenDB(cfg.DBDriver, cfg.DBSource, cfg.IsDevelopment())
	if err != nil {
		return nil, err
	}
	db = database
	return db, nil
}

// OpenDB opens sqlite or postgres. SQLite gets a single connection so writers
// queue instead of failing with "database is locked".
func OpenDB(driver, source string, verbose bool) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
	if verbose {
		gcfg.Logger = logger.Default.LogMode(logger.Warn)
	}

	var dial gorm.Dialector
	switch driver {
	case "sqlite", "":
		dial = sqlite.Open(source)
	case "postgres":
		dial = postgres.Open(source)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	database, err := gorm.Open(dial, gcfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if driver != "postgres" {
		sqlDB, err := database.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return database, nil
}

// SetupDatabase migrates the schema.
func SetupDatabase(database *gorm.DB) error {
	return database.AutoMigrate(
		&entity.Restaurant{},
		&entity.Staff{},
		&entity.Customer{},
		&entity.MenuItem{},
		&entity.Table{},
		&entity.Order{},
		&entity.OrderLineItem{},
		&entity.OrderStatusLog{},
	)
}
