// Package schema declares the relational shape of the pet adoption data:
// users, pets, favorites and adoptions.
//
// TABLES ARE VALUES:
// Nothing here inspects Go structs at runtime. A table only becomes part of
// the database once it is passed to Registry.Register, and the registry is
// what the persistence layer materializes (see Registry.Statements).
//
//	users      id, email (unique), hashed_password
//	pets       id, name, owner_id     → users.id
//	favorites  id, name, user_id      → users.id
//	adoptions  id, user_id, pet_id    → users.id, pets.id
//
// Every foreign key column is nullable. ids, email and the name columns
// are indexed.
//
// FROM DECLARATION TO DDL:
//
//	schema.Default()           → *Registry with the four tables, in order
//	reg.Statements(dialect)    → []string of CREATE TABLE / CREATE INDEX
//	sqldb.New(..., reg)        → runs them in one transaction
//
// The same declaration feeds validation: service code reads
// Pets.Size("name") rather than repeating 100.
package schema

import "fmt"

// ColumnType is the logical storage type of a column.
type ColumnType int

const (
	Integer ColumnType = iota
	String
)

func (t ColumnType) String() string {
	switch t {
	case Integer:
		return "integer"
	case String:
		return "string"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// Reference points a foreign-key column at a column of another table.
type Reference struct {
	Table  string
	Column string
}

// Column describes one column of a table.
//
// Nullable is the default: a column only gets NOT NULL when NotNull is set.
// Primary keys are never null regardless of the flag.
type Column struct {
	Name       string
	Type       ColumnType
	Size       int // max length for String columns
	PrimaryKey bool
	Unique     bool
	Index      bool
	NotNull    bool
	References *Reference
}

// Table is a named, ordered list of columns.
type Table struct {
	Name    string
	Columns []Column
}

// Column returns the column with the given name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// PrimaryKey returns the table's primary key column.
// Only meaningful for tables that passed Registry.Register.
func (t Table) PrimaryKey() Column {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c
		}
	}
	return Column{}
}

// Size returns the declared max length of a string column, or 0 if the
// column does not exist or is not a string.
func (t Table) Size(column string) int {
	c, ok := t.Column(column)
	if !ok || c.Type != String {
		return 0
	}
	return c.Size
}

// ColumnNames lists the column names in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func id() Column {
	return Column{Name: "id", Type: Integer, PrimaryKey: true, Index: true}
}

func ref(name, table string) Column {
	return Column{
		Name:       name,
		Type:       Integer,
		References: &Reference{Table: table, Column: "id"},
	}
}

// Users holds registered accounts. Email is unique across all users.
var Users = Table{
	Name: "users",
	Columns: []Column{
		id(),
		{Name: "email", Type: String, Size: 100, Unique: true, Index: true},
		{Name: "hashed_password", Type: String, Size: 100},
	},
}

// Pets holds pets, optionally owned by a user.
var Pets = Table{
	Name: "pets",
	Columns: []Column{
		id(),
		{Name: "name", Type: String, Size: 100, Index: true},
		ref("owner_id", "users"),
	},
}

// Favorites holds named preferences of a user. The same (user_id, name)
// pair may appear more than once.
var Favorites = Table{
	Name: "favorites",
	Columns: []Column{
		id(),
		{Name: "name", Type: String, Size: 100, Index: true},
		ref("user_id", "users"),
	},
}

// Adoptions links a pet to a user. No uniqueness is declared on either side.
var Adoptions = Table{
	Name: "adoptions",
	Columns: []Column{
		id(),
		ref("pet_id", "pets"),
		ref("user_id", "users"),
	},
}

// Default returns a registry holding the four application tables in
// dependency order.
func Default() *Registry {
	r := NewRegistry()
	for _, t := range []Table{Users, Pets, Favorites, Adoptions} {
		if err := r.Register(t); err != nil {
			panic(fmt.Sprintf("schema: registering %s: %v", t.Name, err))
		}
	}
	return r
}
