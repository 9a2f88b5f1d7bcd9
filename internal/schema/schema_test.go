package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_RegistersTablesInDependencyOrder(t *testing.T) {
	r := Default()

	var names []string
	for _, tbl := range r.Tables() {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{"users", "pets", "favorites", "adoptions"}, names)
}

func TestTableShapes(t *testing.T) {
	tests := []struct {
		table   Table
		columns []string
	}{
		{Users, []string{"id", "email", "hashed_password"}},
		{Pets, []string{"id", "name", "owner_id"}},
		{Favorites, []string{"id", "name", "user_id"}},
		{Adoptions, []string{"id", "pet_id", "user_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.table.Name, func(t *testing.T) {
			assert.Equal(t, tt.columns, tt.table.ColumnNames())

			pk := tt.table.PrimaryKey()
			assert.Equal(t, "id", pk.Name)
			assert.True(t, pk.Index, "primary key should be indexed")
		})
	}
}

func TestUsersEmailIsUniqueAndIndexed(t *testing.T) {
	email, ok := Users.Column("email")
	require.True(t, ok)

	assert.True(t, email.Unique)
	assert.True(t, email.Index)
	assert.Equal(t, 100, Users.Size("email"))
	assert.Equal(t, 100, Users.Size("hashed_password"))
}

func TestForeignKeysAreNullable(t *testing.T) {
	refs := map[string][]string{
		"pets":      {"owner_id"},
		"favorites": {"user_id"},
		"adoptions": {"pet_id", "user_id"},
	}
	r := Default()

	for table, cols := range refs {
		tbl, ok := r.Table(table)
		require.True(t, ok, table)
		for _, name := range cols {
			c, ok := tbl.Column(name)
			require.True(t, ok, "%s.%s", table, name)
			assert.NotNil(t, c.References, "%s.%s should be a foreign key", table, name)
			assert.False(t, c.NotNull, "%s.%s should be nullable", table, name)
		}
	}
}

func TestSize_NonStringColumn(t *testing.T) {
	assert.Equal(t, 0, Pets.Size("owner_id"))
	assert.Equal(t, 0, Pets.Size("missing"))
}

func TestRegister_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		setup []Table
		table Table
	}{
		{
			name:  "empty name",
			table: Table{Columns: []Column{id()}},
		},
		{
			name:  "no primary key",
			table: Table{Name: "t", Columns: []Column{{Name: "x", Type: Integer}}},
		},
		{
			name:  "two primary keys",
			table: Table{Name: "t", Columns: []Column{id(), {Name: "other", Type: Integer, PrimaryKey: true}}},
		},
		{
			name:  "string primary key",
			table: Table{Name: "t", Columns: []Column{{Name: "id", Type: String, Size: 10, PrimaryKey: true}}},
		},
		{
			name:  "duplicate column",
			table: Table{Name: "t", Columns: []Column{id(), id()}},
		},
		{
			name:  "string without size",
			table: Table{Name: "t", Columns: []Column{id(), {Name: "s", Type: String}}},
		},
		{
			name:  "reference to unregistered table",
			table: Table{Name: "t", Columns: []Column{id(), ref("user_id", "users")}},
		},
		{
			name:  "reference to missing column",
			setup: []Table{Users},
			table: Table{Name: "t", Columns: []Column{id(), {
				Name: "user_ref", Type: Integer, References: &Reference{Table: "users", Column: "nope"},
			}}},
		},
		{
			name:  "reference to non-key column",
			setup: []Table{Users},
			table: Table{Name: "t", Columns: []Column{id(), {
				Name: "pw", Type: String, Size: 100, References: &Reference{Table: "users", Column: "hashed_password"},
			}}},
		},
		{
			name:  "reference type mismatch",
			setup: []Table{Users},
			table: Table{Name: "t", Columns: []Column{id(), {
				Name: "mail", Type: Integer, References: &Reference{Table: "users", Column: "email"},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			for _, s := range tt.setup {
				require.NoError(t, r.Register(s))
			}
			assert.Error(t, r.Register(tt.table))
		})
	}
}

func TestRegister_ReferenceToUniqueColumn(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Users))

	err := r.Register(Table{Name: "sessions", Columns: []Column{
		id(),
		{Name: "email", Type: String, Size: 100, References: &Reference{Table: "users", Column: "email"}},
	}})
	assert.NoError(t, err)
}

func TestRegister_DuplicateTable(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Users))

	err := r.Register(Users)
	assert.ErrorIs(t, err, ErrDuplicateTable)
}

func TestRegister_CopiesColumns(t *testing.T) {
	r := NewRegistry()
	tbl := Table{Name: "t", Columns: []Column{id(), {Name: "n", Type: String, Size: 5}}}
	require.NoError(t, r.Register(tbl))

	tbl.Columns[1].Size = 500

	got, ok := r.Table("t")
	require.True(t, ok)
	assert.Equal(t, 5, got.Size("n"))
}

func TestStatements_SQLite(t *testing.T) {
	stmts := Default().Statements(SQLite)
	all := strings.Join(stmts, ";\n")

	assert.Contains(t, all, "CREATE TABLE IF NOT EXISTS users (\n\tid INTEGER PRIMARY KEY,\n\temail VARCHAR(100),\n\thashed_password VARCHAR(100)\n)")
	assert.Contains(t, all, "owner_id INTEGER REFERENCES users (id)")
	assert.Contains(t, all, "pet_id INTEGER REFERENCES pets (id)")
	assert.Contains(t, all, "CREATE UNIQUE INDEX IF NOT EXISTS ix_users_email ON users (email)")
	assert.Contains(t, all, "CREATE INDEX IF NOT EXISTS ix_pets_name ON pets (name)")
	assert.Contains(t, all, "CREATE INDEX IF NOT EXISTS ix_favorites_name ON favorites (name)")
	assert.Contains(t, all, "CREATE INDEX IF NOT EXISTS ix_adoptions_id ON adoptions (id)")

	// users must be created before anything references it
	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE IF NOT EXISTS users"))
}

func TestStatements_Postgres(t *testing.T) {
	all := strings.Join(Default().Statements(Postgres), ";\n")

	assert.Contains(t, all, "id SERIAL PRIMARY KEY")
	assert.NotContains(t, all, "INTEGER PRIMARY KEY")
	assert.Contains(t, all, "user_id INTEGER REFERENCES users (id)")
}

func TestCreateTable_UniqueWithoutIndex(t *testing.T) {
	tbl := Table{Name: "t", Columns: []Column{id(), {Name: "code", Type: String, Size: 8, Unique: true, NotNull: true}}}

	got := CreateTable(SQLite, tbl)
	assert.Contains(t, got, "code VARCHAR(8) NOT NULL UNIQUE")
	assert.Empty(t, CreateIndexes(Table{Name: "t", Columns: tbl.Columns[1:]}))
}

func TestRebind(t *testing.T) {
	q := "SELECT id FROM pets WHERE owner_id = ? AND name LIKE ? LIMIT ?"

	assert.Equal(t, q, Rebind(SQLite, q))
	assert.Equal(t,
		"SELECT id FROM pets WHERE owner_id = $1 AND name LIKE $2 LIMIT $3",
		Rebind(Postgres, q))
}
