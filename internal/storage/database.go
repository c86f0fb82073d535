// Package storage handles data persistence: the location cache backends
// (SQLite, Valkey, in-memory) and the generation call log.
package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

// The locations table intentionally has no UNIQUE constraint on
// (city_name, tags): concurrent misses for the same key may both insert, and
// reads pick the first row.
const schema = `
CREATE TABLE IF NOT EXISTS locations (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    city_name  TEXT NOT NULL,
    tags       TEXT NOT NULL DEFAULT '',
    data       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS generation_calls (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    place         TEXT NOT NULL,
    tags          TEXT NOT NULL DEFAULT '',
    provider      TEXT NOT NULL,
    model         TEXT NOT NULL,
    success       BOOLEAN NOT NULL DEFAULT 0,
    duration_ms   INTEGER,
    error_message TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_locations_key ON locations(city_name, tags);
CREATE INDEX IF NOT EXISTS idx_generation_calls_place ON generation_calls(place);
`

// NewDatabase creates a new SQLite connection and runs migrations.
func NewDatabase(dbPath string) (*sqlx.DB, error) {
	// WAL allows concurrent reads while writing; busy_timeout waits on lock
	// contention instead of failing.
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", dbPath)

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Ping actually opens the connection (Open is lazy in database/sql)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// SQLite performs best with a single writer connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
