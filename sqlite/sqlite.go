// Package sqlite provides the SQLite-backed candidate store for scout.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	// This also serializes the aggregator's upsert path behind one writer.
	conn.SetMaxOpenConns(1)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	// This prevents immediate "database is locked" errors.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Enable WAL mode for file-based databases for better write performance.
	// Every committed upsert survives a process restart, which is the one
	// hard durability requirement of the engine.
	// Note: WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Enable foreign key constraints
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	// Create schema
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
// The FTS5 index is external-content over candidates and is kept in sync
// incrementally by the insert/update/delete triggers, so it never needs a
// full rebuild during normal operation.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS candidates (
			natural_key TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			long_text TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			event_date TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL DEFAULT 0,
			audience INTEGER NOT NULL DEFAULT 0,
			categories TEXT NOT NULL DEFAULT '[]',
			attributes TEXT NOT NULL DEFAULT '{}',
			scores TEXT NOT NULL DEFAULT '{}',
			overall_score REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'not_applied',
			discovered_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_candidates_source ON candidates(source);
		CREATE INDEX IF NOT EXISTS idx_candidates_event_date ON candidates(event_date);
		CREATE INDEX IF NOT EXISTS idx_candidates_overall_score ON candidates(overall_score);
		CREATE INDEX IF NOT EXISTS idx_candidates_status ON candidates(status);

		CREATE VIRTUAL TABLE IF NOT EXISTS candidates_fts USING fts5(
			title, description, long_text,
			content='candidates', content_rowid='rowid',
			tokenize='unicode61 remove_diacritics 2'
		);

		CREATE TRIGGER IF NOT EXISTS candidates_ai AFTER INSERT ON candidates BEGIN
			INSERT INTO candidates_fts(rowid, title, description, long_text)
			VALUES (new.rowid, new.title, new.description, new.long_text);
		END;
		CREATE TRIGGER IF NOT EXISTS candidates_ad AFTER DELETE ON candidates BEGIN
			INSERT INTO candidates_fts(candidates_fts, rowid, title, description, long_text)
			VALUES ('delete', old.rowid, old.title, old.description, old.long_text);
		END;
		CREATE TRIGGER IF NOT EXISTS candidates_au AFTER UPDATE ON candidates BEGIN
			INSERT INTO candidates_fts(candidates_fts, rowid, title, description, long_text)
			VALUES ('delete', old.rowid, old.title, old.description, old.long_text);
			INSERT INTO candidates_fts(rowid, title, description, long_text)
			VALUES (new.rowid, new.title, new.description, new.long_text);
		END;
	`

	_, err := db.db.Exec(schema)
	return err
}
