package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vatrefunder/internal/config"
	"vatrefunder/internal/logger"
	"vatrefunder/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewConnection opens the configured database and migrates the schema.
func NewConnection(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log := logger.WithComponent("database")
		log.Warn().Err(err).Msg("failed to auto-migrate models")
	}

	return db, nil
}

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Supplier{},
		&model.BudgetHead{},
		&model.Colleague{},
		&model.Recipient{},
		&model.RefundStatus{},
		&model.Voucher{},
		&model.ChanceryInvoice{},
		&model.ResidenceInvoice{},
		&model.PersonalInvoice{},
		&model.AuditLog{},
	)
}

// IsolationLevel is the level a unit of work runs at for the given driver.
// SQLite transactions are already serializable and the driver rejects most explicit levels.
func IsolationLevel(driver string) sql.IsolationLevel {
	if driver == config.DriverPostgres {
		return sql.LevelRepeatableRead
	}
	return sql.LevelDefault
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dsn := cfg.Path
		if !strings.Contains(dsn, "?") {
			dsn += "?_busy_timeout=5000"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
