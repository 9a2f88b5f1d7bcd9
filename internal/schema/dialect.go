package schema

import (
	"fmt"
	"strings"
)

// Dialect renders engine-specific SQL fragments.
//
// THE DIFFERENCES THAT MATTER HERE:
//
//	                 SQLite                 PostgreSQL
//	primary key      INTEGER PRIMARY KEY    SERIAL PRIMARY KEY
//	string(n)        VARCHAR(n)             VARCHAR(n)
//	bind parameter   ?                      $1, $2, ...
//
// Anything both engines accept verbatim (IF NOT EXISTS, REFERENCES,
// RETURNING) is written once in CreateTable and the query strings.
type Dialect interface {
	Name() string
	// ColumnType renders the type (and primary key clause) of a column.
	ColumnType(c Column) string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder(n int) string
}

type sqliteDialect struct{}

// SQLite renders DDL for SQLite. An INTEGER PRIMARY KEY column aliases the
// rowid, so ids are assigned from 1 upward.
var SQLite Dialect = sqliteDialect{}

func (sqliteDialect) Name() string { return "sqlite" }

func (sqliteDialect) ColumnType(c Column) string {
	switch {
	case c.PrimaryKey:
		return "INTEGER PRIMARY KEY"
	case c.Type == String:
		return fmt.Sprintf("VARCHAR(%d)", c.Size)
	default:
		return "INTEGER"
	}
}

func (sqliteDialect) Placeholder(int) string { return "?" }

type postgresDialect struct{}

// Postgres renders DDL for PostgreSQL.
var Postgres Dialect = postgresDialect{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) ColumnType(c Column) string {
	switch {
	case c.PrimaryKey:
		return "SERIAL PRIMARY KEY"
	case c.Type == String:
		return fmt.Sprintf("VARCHAR(%d)", c.Size)
	default:
		return "INTEGER"
	}
}

func (postgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

// CreateTable renders a CREATE TABLE IF NOT EXISTS statement for t.
//
// Uniqueness is not rendered inline: a column that is both unique and
// indexed gets a unique index from CreateIndexes, and a unique column
// without Index gets a UNIQUE clause here.
func CreateTable(d Dialect, t Table) string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		def := c.Name + " " + d.ColumnType(c)
		if c.NotNull && !c.PrimaryKey {
			def += " NOT NULL"
		}
		if c.Unique && !c.Index && !c.PrimaryKey {
			def += " UNIQUE"
		}
		if c.References != nil {
			def += fmt.Sprintf(" REFERENCES %s (%s)", c.References.Table, c.References.Column)
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(defs, ",\n\t"))
}

// IndexName follows the ix_<table>_<column> naming convention.
func IndexName(table, column string) string {
	return "ix_" + table + "_" + column
}

// CreateIndexes renders one CREATE INDEX statement per indexed column.
func CreateIndexes(t Table) []string {
	var stmts []string
	for _, c := range t.Columns {
		if !c.Index {
			continue
		}
		kind := "INDEX"
		if c.Unique {
			kind = "UNIQUE INDEX"
		}
		stmts = append(stmts, fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)",
			kind, IndexName(t.Name, c.Name), t.Name, c.Name))
	}
	return stmts
}

// Rebind rewrites a query written with '?' placeholders for d.
// It does not look inside string literals, so queries passed here must not
// contain a literal '?'.
func Rebind(d Dialect, query string) string {
	if d.Placeholder(1) == "?" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
