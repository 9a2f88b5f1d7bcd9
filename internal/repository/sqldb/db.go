// Package sqldb implements the repository interfaces on top of database/sql.
//
// ONE STORE, TWO ENGINES:
// The SQL is written once with '?' placeholders and rebound for the active
// schema.Dialect, so the same DB type serves both the SQLite and the
// PostgreSQL backend. What differs per engine (opening the connection,
// pragmas, pool sizing, and how constraint errors look) lives in the
// backend packages, which hand a Classifier to New.
//
//	sqlite.New   ─┐
//	              ├─→ sqldb.New(conn, dialect, classify, registry) → *DB
//	postgres.New ─┘
//
// PLACEHOLDERS:
// SQLite takes '?', pgx takes '$1, $2, ...'. Every query goes through
// db.q, which calls schema.Rebind:
//
//	SELECT id, name FROM pets WHERE id = ?      (sqlite)
//	SELECT id, name FROM pets WHERE id = $1     (postgres)
//
// INSERT ... RETURNING:
// Both engines support RETURNING (SQLite since 3.35), so new ids come back
// from QueryRowContext().Scan instead of Result.LastInsertId, which pgx
// does not implement.
//
// CONSTRAINT ERRORS:
// A driver error is opaque until the backend's Classifier looks at it:
//
//	UNIQUE violation      → apperror.Conflict          (409)
//	FOREIGN KEY violation → apperror.InvalidReference  (422) on insert/update
//	                      → apperror.Conflict          (409) on delete
//	zero rows affected    → apperror.NotFound          (404)
//
// Everything else is wrapped with %w and surfaces as a 500.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sakif/pet-adoption/internal/apperror"
	"github.com/sakif/pet-adoption/internal/repository"
	"github.com/sakif/pet-adoption/internal/schema"
)

// Violation is the kind of constraint a failed statement broke.
type Violation int

const (
	NoViolation Violation = iota
	UniqueViolation
	ForeignKeyViolation
)

// Classifier inspects a driver error. It returns the violated constraint
// kind and, when the engine reports it, the offending column.
type Classifier func(err error) (Violation, string)

var _ repository.Store = (*DB)(nil)

// DB is a repository.Store backed by a *sql.DB.
type DB struct {
	conn     *sql.DB
	dialect  schema.Dialect
	classify Classifier
	tables   *schema.Registry
}

// New materializes every table in reg and returns a ready DB.
// The caller keeps ownership of conn until New succeeds; after that,
// DB.Close closes it.
func New(ctx context.Context, conn *sql.DB, d schema.Dialect, classify Classifier, reg *schema.Registry) (*DB, error) {
	if classify == nil {
		classify = func(error) (Violation, string) { return NoViolation, "" }
	}
	db := &DB{conn: conn, dialect: d, classify: classify, tables: reg}

	if err := db.materialize(ctx); err != nil {
		return nil, fmt.Errorf("sqldb: creating schema: %w", err)
	}
	return db, nil
}

// materialize runs the registry's DDL in a single transaction. Every
// statement is IF NOT EXISTS, so this is safe on an existing database.
func (db *DB) materialize(ctx context.Context) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	for _, stmt := range db.tables.Statements(db.dialect) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing %q: %w", firstLine(stmt), err)
		}
	}
	return tx.Commit()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Conn exposes the underlying pool, mostly for tests.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Dialect reports which SQL dialect this DB speaks.
func (db *DB) Dialect() schema.Dialect {
	return db.dialect
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) q(query string) string {
	return schema.Rebind(db.dialect, query)
}

// insert runs an INSERT and returns the generated primary key.
// Both engines support RETURNING, which avoids LastInsertId (pgx does not
// implement it).
func (db *DB) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := db.conn.QueryRowContext(ctx, db.q(query+" RETURNING id"), args...).Scan(&id)
	return id, err
}

// writeError turns a failed INSERT/UPDATE into a domain error when it was
// caused by a constraint. Other errors come back unchanged.
func (db *DB) writeError(table schema.Table, resource string, err error) error {
	kind, column := db.classify(err)
	switch kind {
	case UniqueViolation:
		if column == "" {
			column = strings.Join(uniqueColumns(table), ", ")
		}
		return apperror.Conflict(resource, column+" already exists")
	case ForeignKeyViolation:
		if column == "" {
			column = strings.Join(referenceColumns(table), ", ")
		}
		return apperror.InvalidReference(resource, column)
	default:
		return err
	}
}

func uniqueColumns(t schema.Table) []string {
	var cols []string
	for _, c := range t.Columns {
		if c.Unique {
			cols = append(cols, c.Name)
		}
	}
	return cols
}

func referenceColumns(t schema.Table) []string {
	var cols []string
	for _, c := range t.Columns {
		if c.References != nil {
			cols = append(cols, c.Name)
		}
	}
	return cols
}

// affected maps a zero-row UPDATE/DELETE to NotFound.
func affected(res sql.Result, resource string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}

func clampList(opts repository.ListOptions) (limit, offset int) {
	limit = opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset = opts.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
