// Package sqlite opens the SQLite backend of the store.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so no C toolchain is
// needed and ":memory:" databases work out of the box in tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/pet-adoption/internal/repository/sqldb"
	"github.com/sakif/pet-adoption/internal/schema"
)

// Options tunes the SQLite connection.
type Options struct {
	// ForeignKeys turns on SQLite's foreign-key enforcement. SQLite ships
	// with it off; when off, a pet may point at a user id that does not
	// exist and the row is stored as written.
	ForeignKeys bool
}

// DefaultOptions enforces foreign keys.
func DefaultOptions() Options {
	return Options{ForeignKeys: true}
}

// New opens (or creates) the database at dbPath and materializes the schema.
//
// dbPath examples:
//   - "data/petadoption.db" → file-based database (persistent)
//   - ":memory:"            → in-memory database, gone on Close
func New(ctx context.Context, dbPath string, opts Options) (*sqldb.DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// PRAGMAs are per connection and every ":memory:" connection is its own
	// database, so the pool is pinned to a single connection. SQLite
	// serializes writers anyway.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	fk := "OFF"
	if opts.ForeignKeys {
		fk = "ON"
	}
	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys="+fk); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting foreign_keys=%s: %w", fk, err)
	}

	db, err := sqldb.New(ctx, conn, schema.SQLite, Classify, schema.Default())
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return db, nil
}

// Classify maps SQLite constraint errors to sqldb violations.
//
// SQLite reports unique failures as "UNIQUE constraint failed: users.email",
// which names the column; foreign-key failures do not name anything.
func Classify(err error) (sqldb.Violation, string) {
	var se *sqlitedriver.Error
	if !errors.As(err, &se) {
		return sqldb.NoViolation, ""
	}

	msg := se.Error()
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return sqldb.UniqueViolation, uniqueColumn(msg)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return sqldb.ForeignKeyViolation, ""
	case sqlite3.SQLITE_CONSTRAINT:
		// Primary code only: fall back to the message text.
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed"):
			return sqldb.UniqueViolation, uniqueColumn(msg)
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			return sqldb.ForeignKeyViolation, ""
		}
	}
	return sqldb.NoViolation, ""
}

func uniqueColumn(msg string) string {
	const marker = "constraint failed: "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	target := msg[i+len(marker):]
	if j := strings.IndexAny(target, " ,("); j >= 0 {
		target = target[:j]
	}
	if dot := strings.IndexByte(target, '.'); dot >= 0 {
		return target[dot+1:]
	}
	return target
}
