package datastore

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lavosystem/lavo-go/internal/errors"
)

// slowQueryThreshold defines the duration after which a query is considered
// slow and logged at warn level by the GORM logger.
const slowQueryThreshold = time.Second

// createGormLogger configures and returns a GORM logger instance.
func createGormLogger(debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return gormlogger.New(&gormLogAdapter{}, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// gormLogAdapter bridges GORM's printf-style logging onto slog.
type gormLogAdapter struct{}

func (a *gormLogAdapter) Printf(format string, args ...any) {
	slog.Default().Info("gorm", "detail", fmt.Sprintf(format, args...))
}

// performAutoMigration runs GORM auto-migration for all domain models.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(
		&User{},
		&Store{},
		&Device{},
		&Customer{},
		&AccessEvent{},
		&SystemConfig{},
	); err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "auto_migration").
			Context("db_type", dbType).
			Build()
	}

	if debug {
		slog.Debug("Database initialized", "db_type", dbType, "connection", connectionInfo)
	}

	return nil
}
