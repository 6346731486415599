// Package repo implements the data persistence layer for teachers and
// courses, backed by GORM. It is the only package that issues SQL, and it
// classifies every failure into the domain error taxonomy at the point where
// the failure happens. This file contains bootstrapping helpers: dialect
// selection, pool tuning, tracing and schema migration.
package repo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/tutor-admin-backend/internal/config"
	"github.com/tbourn/tutor-admin-backend/internal/domain"
)

// IsPostgresDSN reports whether dsn addresses a PostgreSQL server, either as a
// URL (postgres://, postgresql://) or as a key/value string starting with host=.
func IsPostgresDSN(dsn string) bool {
	d := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(d, "postgres://") ||
		strings.HasPrefix(d, "postgresql://") ||
		strings.HasPrefix(d, "host=")
}

// Open connects to the store named by cfg.URL. PostgreSQL DSNs use the pgx
// based driver; anything else is treated as a SQLite file path. When traced is
// true every statement is recorded as an OpenTelemetry span.
func Open(cfg config.DBConfig, traced bool) (*gorm.DB, error) {
	dsn := strings.TrimSpace(cfg.URL)
	if dsn == "" {
		return nil, errors.New("empty database url")
	}

	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	var (
		db  *gorm.DB
		err error
	)
	if IsPostgresDSN(dsn) {
		db, err = gorm.Open(postgres.Open(dsn), gcfg)
	} else {
		db, err = openSQLite(dsn, gcfg)
	}
	if err != nil {
		return nil, err
	}

	if traced {
		if err := useTracing(db); err != nil {
			return nil, err
		}
	}

	// Pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// openSQLite opens (or creates) a SQLite database file and applies PRAGMAs.
func openSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if _, err := os.Stat(dir); err != nil {
				return nil, err
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(path), gcfg)
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	return db, nil
}

// useTracing registers the GORM OpenTelemetry plugin. Bound values are left
// out of the recorded statements so teacher profiles never reach the collector.
func useTracing(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin(tracing.WithoutQueryVariables()))
}

// AutoMigrate creates or updates the teacher, course and idempotency tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Teacher{},
		&domain.Course{},
		&domain.Idempotency{},
	)
}
