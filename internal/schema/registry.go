package schema

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrInvalidTable     = errors.New("invalid table")
	ErrDuplicateTable   = errors.New("table already registered")
	ErrUnknownReference = errors.New("unknown reference")
)

// Registry is the set of tables the persistence layer materializes.
//
// Tables must be registered after every table they reference, so the
// registration order is also a valid creation order.
type Registry struct {
	mu     sync.RWMutex
	tables []Table
	names  map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]int)}
}

// Register validates t and adds it to the registry.
func (r *Registry) Register(t Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.Name == "" {
		return fmt.Errorf("%w: table name is required", ErrInvalidTable)
	}
	if _, ok := r.names[t.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTable, t.Name)
	}
	if err := r.validate(t); err != nil {
		return err
	}

	// Copy the column slice so later edits to the caller's value
	// cannot change what was registered.
	cols := make([]Column, len(t.Columns))
	copy(cols, t.Columns)
	t.Columns = cols

	r.names[t.Name] = len(r.tables)
	r.tables = append(r.tables, t)
	return nil
}

func (r *Registry) validate(t Table) error {
	seen := make(map[string]bool, len(t.Columns))
	pks := 0

	for _, c := range t.Columns {
		if c.Name == "" {
			return fmt.Errorf("%w: %s has a column without a name", ErrInvalidTable, t.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: %s.%s declared twice", ErrInvalidTable, t.Name, c.Name)
		}
		seen[c.Name] = true

		if c.PrimaryKey {
			pks++
			if c.Type != Integer {
				return fmt.Errorf("%w: %s.%s primary key must be an integer", ErrInvalidTable, t.Name, c.Name)
			}
		}
		if c.Type == String && c.Size <= 0 {
			return fmt.Errorf("%w: %s.%s string column needs a size", ErrInvalidTable, t.Name, c.Name)
		}
		if c.References != nil {
			if err := r.checkReference(t.Name, c); err != nil {
				return err
			}
		}
	}

	if pks != 1 {
		return fmt.Errorf("%w: %s must have exactly one primary key, has %d", ErrInvalidTable, t.Name, pks)
	}
	return nil
}

func (r *Registry) checkReference(table string, c Column) error {
	ref := c.References
	i, ok := r.names[ref.Table]
	if !ok {
		return fmt.Errorf("%w: %s.%s references unregistered table %s",
			ErrUnknownReference, table, c.Name, ref.Table)
	}
	target, ok := r.tables[i].Column(ref.Column)
	if !ok {
		return fmt.Errorf("%w: %s.%s references missing column %s.%s",
			ErrUnknownReference, table, c.Name, ref.Table, ref.Column)
	}
	if !target.PrimaryKey && !target.Unique {
		return fmt.Errorf("%w: %s.%s references %s.%s which is neither primary key nor unique",
			ErrUnknownReference, table, c.Name, ref.Table, ref.Column)
	}
	if target.Type != c.Type {
		return fmt.Errorf("%w: %s.%s is %s but %s.%s is %s",
			ErrUnknownReference, table, c.Name, c.Type, ref.Table, ref.Column, target.Type)
	}
	return nil
}

// Table looks up a registered table by name.
func (r *Registry) Table(name string) (Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.names[name]
	if !ok {
		return Table{}, false
	}
	return r.tables[i], true
}

// Tables returns the registered tables in registration order.
func (r *Registry) Tables() []Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Table, len(r.tables))
	copy(out, r.tables)
	return out
}

// Statements renders the DDL that creates every registered table and its
// indexes. Statements are idempotent and ordered so that referenced tables
// come first.
func (r *Registry) Statements(d Dialect) []string {
	var stmts []string
	for _, t := range r.Tables() {
		stmts = append(stmts, CreateTable(d, t))
		stmts = append(stmts, CreateIndexes(t)...)
	}
	return stmts
}
