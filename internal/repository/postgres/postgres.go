// Package postgres opens the PostgreSQL backend of the store through pgx's
// database/sql driver. PostgreSQL always enforces foreign keys.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sakif/pet-adoption/internal/repository/sqldb"
	"github.com/sakif/pet-adoption/internal/schema"
)

// SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Open creates the connection pool and verifies it with a ping.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: opening database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxIdleTime(5 * time.Minute)
	conn.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}
	return conn, nil
}

// New opens dsn and materializes the schema.
func New(ctx context.Context, dsn string) (*sqldb.DB, error) {
	conn, err := Open(ctx, dsn)
	if err != nil {
		return nil, err
	}

	db, err := sqldb.New(ctx, conn, schema.Postgres, Classify, schema.Default())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return db, nil
}

// Classify maps pgconn errors to sqldb violations. Default constraint names
// look like <table>_<column>_key and <table>_<column>_fkey; unique indexes
// created by the schema use ix_<table>_<column>.
func Classify(err error) (sqldb.Violation, string) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return sqldb.NoViolation, ""
	}

	switch pgErr.Code {
	case uniqueViolation:
		return sqldb.UniqueViolation, constraintColumn(pgErr.TableName, pgErr.ConstraintName)
	case foreignKeyViolation:
		return sqldb.ForeignKeyViolation, constraintColumn(pgErr.TableName, pgErr.ConstraintName)
	}
	return sqldb.NoViolation, ""
}

func constraintColumn(table, constraint string) string {
	if table == "" || constraint == "" {
		return ""
	}
	name := strings.TrimPrefix(constraint, schema.IndexName(table, ""))
	if name == constraint {
		name = strings.TrimPrefix(constraint, table+"_")
		if name == constraint {
			return ""
		}
		name = strings.TrimSuffix(name, "_fkey")
		name = strings.TrimSuffix(name, "_key")
	}
	return name
}
