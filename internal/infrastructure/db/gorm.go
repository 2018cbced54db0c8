package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	Driver     string // mysql | sqlite
	MySQLDSN   string
	SQLitePath string
	Debug      bool
}

// OpenGorm opens the configured store and pings it.
func OpenGorm(opts Options) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch opts.Driver {
	case "mysql":
		dial = mysql.Open(opts.MySQLDSN)
	case "sqlite":
		// wait on a locked file instead of failing at once
		dial = sqlite.Open(opts.SQLitePath + "?_busy_timeout=5000")
	default:
		return nil, fmt.Errorf("unsupported driver %q", opts.Driver)
	}
	level := logger.Warn
	if opts.Debug {
		level = logger.Info
	}
	db, err := OpenGormWithDialector(dial, level)
	if err != nil {
		return nil, err
	}
	slog.Info("gorm: connected", "driver", opts.Driver)
	return db, nil
}

// OpenGormWithDialector is split out so tests can hand in a mocked connection.
func OpenGormWithDialector(dial gorm.Dialector, level ...logger.LogLevel) (*gorm.DB, error) {
	lvl := logger.Warn
	if len(level) > 0 {
		lvl = level[0]
	}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(lvl)})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}
