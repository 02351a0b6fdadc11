// SPDX-License-Identifier: Apache-2.0

package catalog

import "github.com/pgmlint/pgmlint/pkg/ir"

// Catalog is the mutable schema state the replay engine owns. Per I1, it
// is mutated only by the replay engine; rules only read it.
type Catalog struct {
	tables map[ir.QualifiedName]*TableState
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{tables: make(map[ir.QualifiedName]*TableState)}
}

// GetTable returns the table named name, or nil if it doesn't exist.
func (c *Catalog) GetTable(name ir.QualifiedName) *TableState {
	return c.tables[name]
}

// AddTable registers a new table. Callers must check Exists first; per
// spec.md's CreateTable semantics, re-creating an existing table
// (`CREATE TABLE IF NOT EXISTS`) leaves the existing state unchanged.
func (c *Catalog) AddTable(t *TableState) {
	c.tables[t.Name] = t
}

// Exists reports whether a table with the given name is currently known.
func (c *Catalog) Exists(name ir.QualifiedName) bool {
	_, ok := c.tables[name]
	return ok
}

// DropTable removes a table from the catalog.
func (c *Catalog) DropTable(name ir.QualifiedName) {
	delete(c.tables, name)
}

// RenameTable moves a table's state from one key to another.
func (c *Catalog) RenameTable(from, to ir.QualifiedName) {
	t, ok := c.tables[from]
	if !ok {
		return
	}
	t.Name = to
	delete(c.tables, from)
	c.tables[to] = t
}

// DropIndexByName removes a matching index from every table, since index
// names are globally unique in PostgreSQL.
func (c *Catalog) DropIndexByName(name string) {
	for _, t := range c.tables {
		kept := t.Indexes[:0]
		for _, idx := range t.Indexes {
			if idx.Name != name {
				kept = append(kept, idx)
			}
		}
		t.Indexes = kept
	}
}

// FindTableByIndex returns the table that owns the named index, or nil.
func (c *Catalog) FindTableByIndex(name string) *TableState {
	for _, t := range c.tables {
		for _, idx := range t.Indexes {
			if idx.Name == name {
				return t
			}
		}
	}
	return nil
}

// Tables returns every table currently in the catalog, in unspecified
// order; callers that need determinism should sort by Name.
func (c *Catalog) Tables() []*TableState {
	out := make([]*TableState, 0, len(c.tables))
	for _, t := range c.tables {
		out = append(out, t)
	}
	return out
}

// Clone deep-copies the entire catalog. The replay engine performs
// exactly one of these per linted unit, per spec.md §5's resource
// discipline.
func (c *Catalog) Clone() *Catalog {
	clone := New()
	for name, t := range c.tables {
		clone.tables[name] = t.Clone()
	}
	return clone
}
