package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("database: not found")
	// ErrVersionConflict is returned when a progress record changed since it was read
	ErrVersionConflict = errors.New("database: version conflict")
)

// Supported values of DB_TYPE
const (
	TypeSQLite      = "sqlite"        // mattn/go-sqlite3, needs cgo
	TypeSQLitePure  = "sqlite-purego" // modernc.org/sqlite
	TypePostgres    = "postgres"
	DefaultSQLiteDB = "data/srs.db"
)

// Config selects the database backend
type Config struct {
	Type string // one of the Type* constants, empty means sqlite
	URL  string // file path for sqlite, connection string for postgres
}

// DriverName maps a DB_TYPE value to a registered database/sql driver
func DriverName(dbType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(dbType)) {
	case "", TypeSQLite, "sqlite3":
		return "sqlite3", nil
	case TypeSQLitePure, "modernc":
		return "sqlite", nil
	case TypePostgres, "postgresql":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database type %q", dbType)
	}
}

// Connect opens the database described by cfg and creates the schema if needed
func Connect(cfg Config) (*sqlx.DB, error) {
	driver, err := DriverName(cfg.Type)
	if err != nil {
		return nil, err
	}

	dsn := cfg.URL
	if driver != "postgres" {
		if dsn == "" {
			dsn = DefaultSQLiteDB
		}
		if !strings.HasPrefix(dsn, ":memory:") && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver != "postgres" {
		// SQLite doesn't support multiple writers, and :memory: databases are per connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	float := "REAL"
	if db.DriverName() == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
		float = "DOUBLE PRECISION"
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id ` + serial + `,
				chat_id BIGINT NOT NULL UNIQUE,
				username TEXT NOT NULL DEFAULT '',
				notification_enabled BOOLEAN NOT NULL DEFAULT TRUE,
				notification_hour INTEGER NOT NULL DEFAULT 9,
				words_per_day INTEGER NOT NULL DEFAULT 10,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`},
		{"vocabulary", `
			CREATE TABLE IF NOT EXISTS vocabulary (
				id ` + serial + `,
				text TEXT NOT NULL,
				language TEXT NOT NULL,
				level TEXT NOT NULL,
				audio_url TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(text, language, level)
			)`},
		{"srs_progress", `
			CREATE TABLE IF NOT EXISTS srs_progress (
				user_id BIGINT NOT NULL,
				item_id BIGINT NOT NULL REFERENCES vocabulary(id),
				repetitions INTEGER NOT NULL DEFAULT 0,
				interval_days ` + float + ` NOT NULL DEFAULT 0,
				ease_factor ` + float + ` NOT NULL DEFAULT 2.5,
				memory_strength ` + float + ` NOT NULL DEFAULT 0,
				last_reviewed_at BIGINT NOT NULL DEFAULT 0,
				next_review_at BIGINT NOT NULL DEFAULT 0,
				status TEXT NOT NULL,
				total_reviews INTEGER NOT NULL DEFAULT 0,
				incorrect_reviews INTEGER NOT NULL DEFAULT 0,
				version BIGINT NOT NULL DEFAULT 1,
				PRIMARY KEY (user_id, item_id)
			)`},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_vocabulary_level ON vocabulary(level)`); err != nil {
		return fmt.Errorf("failed to create vocabulary index: %w", err)
	}
	return nil
}
