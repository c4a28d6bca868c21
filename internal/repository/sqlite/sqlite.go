// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE FOR AN IN-MEMORY SERVICE?
// State in this system is deliberately ephemeral: it lives for the process
// lifetime and is rebuilt from seed data on every start. We still want
// real storage semantics (unique constraints for duplicate detection,
// transactions for all-or-nothing mutations, stable ordering), and SQLite
// with an in-memory database gives us all of that without a server or a
// file on disk. modernc.org/sqlite is a pure Go translation of SQLite, so
// no C compiler is needed and cross-compilation just works.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	// Registers the "sqlite" driver with database/sql. We also use the
	// package's Error type to recognize constraint violations.
	sqlite "modernc.org/sqlite"
)

// InMemory is the DSN for a private in-memory database. All state is lost
// when the connection closes, exactly the lifecycle this service wants.
const InMemory = ":memory:"

// DB wraps a sql.DB handle and implements both repository interfaces.
type DB struct {
	conn *sql.DB
}

// New opens a SQLite database and creates the schema.
//
// The pool is pinned to a single connection. Two reasons:
//   - An in-memory SQLite database is private to its connection; a second
//     pooled connection would see an empty database.
//   - It serializes every mutation, which is the mutual exclusion the
//     stores need under concurrent requests (one writer at a time).
func New(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	// Force a real connection now so a bad DSN fails at startup,
	// not on the first request.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

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

// Close closes the database. For an in-memory database this discards all
// state, so call it only on shutdown.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema.
//
// users: one row per account. The UNIQUE(collection, email) constraint is
// what makes duplicate registration detectable, and it scopes uniqueness
// to the collection, so the same email can register as both a student and
// a club.
//
// activities: one row per activity; position records seed order so the
// roster lists in the order the seed data declared it.
//
// participants: one row per (activity, email) membership. The AUTOINCREMENT
// primary key preserves signup order, and UNIQUE(activity, email) makes a
// duplicate signup a constraint violation even if the pre-check in
// AddParticipant were ever bypassed.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id          TEXT PRIMARY KEY,
			collection  TEXT NOT NULL,
			email       TEXT NOT NULL,
			name        TEXT NOT NULL,
			password    TEXT NOT NULL,
			profile_name TEXT NOT NULL,
			profile_bio  TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(collection, email)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS activities (
			name             TEXT PRIMARY KEY,
			description      TEXT NOT NULL,
			schedule         TEXT NOT NULL,
			max_participants INTEGER NOT NULL,
			position         INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS participants (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			activity TEXT NOT NULL REFERENCES activities(name),
			email    TEXT NOT NULL,
			UNIQUE(activity, email)
		);
		CREATE INDEX IF NOT EXISTS idx_participants_activity ON participants(activity);
	`)
	if err != nil {
		return fmt.Errorf("creating activity tables: %w", err)
	}

	return nil
}

// SQLite extended result codes for UNIQUE constraint violations.
const (
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// isUniqueViolation reports whether err is a UNIQUE (or primary key)
// constraint violation. The repositories translate these into
// apperror.Conflict values.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqliteConstraintUnique || se.Code() == sqliteConstraintPrimaryKey
	}
	return false
}
