// Package datastore holds the per-table field metadata that handler
// definitions are resolved from.
package datastore

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/handlergrid/internal/definition"
)

// Field is the metadata declared for a single field of a table.
type Field struct {
	Name       string
	Attributes definition.Definition
	Handlers   map[definition.Category]definition.Definition
}

// Handler returns the raw handler definition declared for the category.
func (f *Field) Handler(c definition.Category) (definition.Definition, bool) {
	if f == nil {
		return definition.Definition{}, false
	}
	d, ok := f.Handlers[c]
	return d, ok
}

// Table is the metadata declared for a table: its own attributes plus its
// fields.
type Table struct {
	Name       string
	Attributes definition.Definition
	Fields     map[string]*Field
}

// Field returns the named field or nil.
func (t *Table) Field(name string) *Field {
	if t == nil {
		return nil
	}
	return t.Fields[name]
}

// FieldNames returns the table's field names in sorted order.
func (t *Table) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for n := range t.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Provider is the read-only view of table metadata the resolver consumes.
// Get returns nil for unknown tables.
type Provider interface {
	Get(table string) *Table
	All() map[string]*Table
}

// Loader builds a Store from manifest paths.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Store, error)
}

// Store is the in-memory Provider. It is built once and never mutated after
// it has been handed to a resolver, so concurrent reads need no locking.
type Store struct {
	tables map[string]*Table
}

var _ Provider = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{tables: make(map[string]*Table)}
}

// AddTable merges a table into the store. Table attributes are merged with
// the existing ones winning; a field declared twice is an error.
func (s *Store) AddTable(t *Table) error {
	existing, ok := s.tables[t.Name]
	if !ok {
		cp := &Table{Name: t.Name, Attributes: t.Attributes, Fields: make(map[string]*Field, len(t.Fields))}
		for name, f := range t.Fields {
			cp.Fields[name] = f
		}
		s.tables[t.Name] = cp
		return nil
	}

	existing.Attributes = existing.Attributes.Merge(t.Attributes)
	for name, f := range t.Fields {
		if _, dup := existing.Fields[name]; dup {
			return fmt.Errorf("field %q declared more than once in table %q", name, t.Name)
		}
		existing.Fields[name] = f
	}
	return nil
}

// Get implements Provider.
func (s *Store) Get(table string) *Table {
	return s.tables[table]
}

// All implements Provider. The returned map is a shallow copy.
func (s *Store) All() map[string]*Table {
	out := make(map[string]*Table, len(s.tables))
	for k, v := range s.tables {
		out[k] = v
	}
	return out
}

// TableNames returns every table name in sorted order.
func (s *Store) TableNames() []string {
	names := make([]string, 0, len(s.tables))
	for n := range s.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup finds the field and table that answer item for the category. With
// an empty item.Table the tables are searched in name order and the first
// one whose field declares a handler of that category wins.
func Lookup(p Provider, item definition.LookupItem, c definition.Category) (*Table, *Field, bool) {
	if item.Table != "" {
		t := p.Get(item.Table)
		f := t.Field(item.Field)
		if _, ok := f.Handler(c); !ok {
			return nil, nil, false
		}
		return t, f, true
	}

	all := p.All()
	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		t := all[n]
		f := t.Field(item.Field)
		if _, ok := f.Handler(c); ok {
			return t, f, true
		}
	}
	return nil, nil, false
}
