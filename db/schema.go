// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to a database of the given type and verifies the connection.
// SQLite files get their parent directory created and are limited to a
// single connection so writers queue instead of failing with SQLITE_BUSY.
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case TypePostgres:
		conn, err := sql.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		return conn, nil

	case TypeSQLite:
		path := strings.TrimPrefix(url, "file:")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		if !strings.Contains(url, "_pragma=") {
			sep := "?"
			if strings.Contains(url, "?") {
				sep = "&"
			}
			url += sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
		}

		conn, err := sql.Open("sqlite", url)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		conn.SetMaxOpenConns(1)
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to ping sqlite: %w", err)
		}
		return conn, nil
	}

	return nil, fmt.Errorf("unsupported database type %q", dbType)
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Timestamps are stored as RFC 3339 text so both drivers round-trip them the same way.
const schema = `
-- Municipalities
CREATE TABLE IF NOT EXISTS municipality (
    code TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    digitalization_level DOUBLE PRECISION,
    answers TEXT NOT NULL DEFAULT '{}',
    state TEXT NOT NULL DEFAULT 'imported' CHECK (state IN ('imported', 'edited')),
    imported_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_municipality_state ON municipality(state);

-- Header row of the last imported workbook
CREATE TABLE IF NOT EXISTS survey_column (
    position INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

-- One row per applied edit
CREATE TABLE IF NOT EXISTS edit_log (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL REFERENCES municipality(code) ON DELETE CASCADE,
    column_name TEXT NOT NULL,
    value TEXT NOT NULL,
    ip_hash TEXT,
    user_agent TEXT,
    applied_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_edit_log_code ON edit_log(code);

-- Workbook imports
CREATE TABLE IF NOT EXISTS import_run (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    record_count INTEGER NOT NULL,
    replaced_count INTEGER NOT NULL,
    started_at TEXT NOT NULL
);
`
