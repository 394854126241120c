// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside your Go binary as a single file.
// No separate database server to install, configure, or manage. Perfect for:
// - A single-user or small-group well-being tracker
// - Single-server deployments (which is most apps, honestly)
// - Development and testing (use ":memory:" for an in-memory DB)
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C compiler
// installed and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works everywhere Go works.
//
// DATABASE/SQL OVERVIEW:
// Go's standard library provides "database/sql" — a generic interface for SQL databases.
// It works with any database through "drivers" (SQLite, Postgres, MySQL, etc.).
// Key types:
//   - sql.DB      — a connection pool (NOT a single connection!)
//   - sql.Row     — a single result row
//   - sql.Rows    — multiple result rows (must be closed!)
//
// The pattern is always:
//  1. sql.Open(driverName, dataSourceName) → creates a pool
//  2. db.QueryContext / db.ExecContext     → runs queries
//  3. rows.Scan(&field1, &field2)          → reads results into Go variables
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// BLANK IMPORT:
	// The underscore import `_ "modernc.org/sqlite"` is a "side-effect only" import.
	// The sqlite package's init() function registers itself with database/sql
	// as a driver named "sqlite". After this import, sql.Open("sqlite", ...)
	// knows how to talk to SQLite.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides repository methods.
//
// A single *DB implements all three repository interfaces (users, check-ins,
// journal entries) — they share one connection pool and one schema, so
// splitting them into separate structs would only add wiring.
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/compass.db"  → file-based database (persistent)
//   - ":memory:"         → in-memory database (great for tests, lost on close)
//
// sql.Open() does NOT actually open a connection — it just creates a pool
// manager. We call conn.Ping() to force an immediate connection, so a bad
// path or permissions problem surfaces here rather than on the first query.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL (Write-Ahead Logging) mode:
	// Default SQLite locks the entire database during writes.
	// WAL mode allows concurrent reads WHILE a write is happening —
	// important for a web server where multiple requests hit the DB.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite (backwards compatibility).
	// We need them ON: every check-in and journal entry must reference an
	// existing user — that's the ownership invariant of the whole schema.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
// The server defers this during graceful shutdown so pending WAL writes
// are flushed and the file lock is released.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema.
//
// Three tables: users, check_ins, journal_entries. Users own check-ins and
// journal entries via NOT NULL foreign keys. Username and email are UNIQUE —
// duplicate registrations fail at the database level and are translated to
// conflict errors by the repository methods.
//
// CREATE TABLE IF NOT EXISTS is idempotent, so running migrations on every
// startup is safe. A production system outgrowing this would move to
// versioned migrations (golang-migrate or goose).
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS check_ins (
			id           TEXT PRIMARY KEY,
			timestamp    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			mood_score   INTEGER NOT NULL,
			energy_score INTEGER NOT NULL,
			user_id      TEXT NOT NULL REFERENCES users(id)
		);
		CREATE INDEX IF NOT EXISTS idx_check_ins_user_id ON check_ins(user_id, timestamp);
	`)
	if err != nil {
		return fmt.Errorf("creating check_ins table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS journal_entries (
			id        TEXT PRIMARY KEY,
			timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			content   TEXT NOT NULL,
			user_id   TEXT NOT NULL REFERENCES users(id)
		);
		CREATE INDEX IF NOT EXISTS idx_journal_entries_user_id ON journal_entries(user_id, timestamp);
	`)
	if err != nil {
		return fmt.Errorf("creating journal_entries table: %w", err)
	}

	return nil
}

// uniqueViolationColumn inspects a driver error and reports which column's
// UNIQUE constraint failed, if any.
//
// The modernc.org/sqlite driver doesn't export typed constraint errors, but
// SQLite's message format is stable:
//
//	constraint failed: UNIQUE constraint failed: users.email (2067)
//
// Returns ("", false) for every other kind of error, so callers can
// propagate those unchanged.
func uniqueViolationColumn(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := err.Error()
	const marker = "UNIQUE constraint failed: "
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return "", false
	}
	rest := msg[idx+len(marker):] // "users.email (2067)"
	if end := strings.IndexAny(rest, " ,"); end > 0 {
		rest = rest[:end]
	}
	// Strip the table prefix: "users.email" → "email"
	if dot := strings.LastIndex(rest, "."); dot >= 0 {
		rest = rest[dot+1:]
	}
	return rest, rest != ""
}
