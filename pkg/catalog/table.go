// SPDX-License-Identifier: Apache-2.0

// Package catalog holds the in-memory schema state the replay engine
// mutates and rules query. It purposefully mirrors a subset of a real
// PostgreSQL catalog: tables, their columns, indexes and constraints.
package catalog

import (
	"github.com/pgmlint/pgmlint/pkg/ir"
)

// ColumnState is a column as currently known in the catalog.
type ColumnState struct {
	Name        string
	Type        ir.TypeName
	Nullable    bool
	HasDefault  bool
	DefaultExpr ir.DefaultExpr
}

// IndexState is an index as currently known in the catalog. Method is
// always normalized to a non-empty lowercase access method name ("btree"
// when the statement didn't specify one, matching PostgreSQL's default).
type IndexState struct {
	Name    string
	Columns []string
	Unique  bool
	Method  string
}

// IsBtreeLike reports whether the index's access method can serve the
// equality lookups PostgreSQL issues for foreign key checks. Only plain
// btree indexes qualify; hash, gin, gist, brin and spgist do not.
func (i *IndexState) IsBtreeLike() bool {
	return i.Method == "" || i.Method == "btree"
}

// TableState is the catalog's knowledge of one table.
type TableState struct {
	Name        ir.QualifiedName
	Columns     []*ColumnState
	Indexes     []*IndexState
	Constraints []ir.TableConstraint

	HasPrimaryKey bool

	// Temporary records CREATE TEMPORARY TABLE; PGM502/PGM503 exempt
	// temporary tables from the missing-primary-key scan.
	Temporary bool

	// Incomplete is set once an Unparseable statement's table hint
	// resolved to this table; rules may lower confidence but must never
	// crash because of it.
	Incomplete bool
}

// GetColumn returns the column named name, or nil if it doesn't exist.
func (t *TableState) GetColumn(name string) *ColumnState {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddColumn appends a column to the table. Column names are unique
// within a table (I4); callers are expected to have checked that.
func (t *TableState) AddColumn(c *ColumnState) {
	t.Columns = append(t.Columns, c)
}

// RemoveColumn removes the named column and any index that references
// it, per spec.md's DropColumn cascade rule.
func (t *TableState) RemoveColumn(name string) {
	for i, c := range t.Columns {
		if c.Name == name {
			t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
			break
		}
	}
	kept := t.Indexes[:0]
	for _, idx := range t.Indexes {
		if !containsString(idx.Columns, name) {
			kept = append(kept, idx)
		}
	}
	t.Indexes = kept
}

// RenameColumn renames a column in place, preserving index definitions
// that reference it (PostgreSQL renames columns referenced by indexes
// transparently).
func (t *TableState) RenameColumn(from, to string) {
	if c := t.GetColumn(from); c != nil {
		c.Name = to
	}
	for _, idx := range t.Indexes {
		for i, col := range idx.Columns {
			if col == from {
				idx.Columns[i] = to
			}
		}
	}
}

// ConstraintColumns returns the column list of the named constraint, or
// nil if no constraint with that name exists.
func (t *TableState) ConstraintColumns(name string) []string {
	for _, c := range t.Constraints {
		switch con := c.(type) {
		case ir.PrimaryKeyConstraint:
			if con.Name == name {
				return con.Columns
			}
		case ir.ForeignKeyConstraint:
			if con.Name == name {
				return con.Columns
			}
		case ir.UniqueConstraint:
			if con.Name == name {
				return con.Columns
			}
		case ir.CheckConstraint:
			if con.Name == name {
				return con.Columns
			}
		case ir.ExcludeConstraint:
			if con.Name == name {
				return con.Columns
			}
		}
	}
	return nil
}

// RemoveConstraint removes the named constraint, if any.
func (t *TableState) RemoveConstraint(name string) {
	kept := t.Constraints[:0]
	for _, c := range t.Constraints {
		if constraintName(c) != name {
			kept = append(kept, c)
		}
	}
	t.Constraints = kept
}

func constraintName(c ir.TableConstraint) string {
	switch con := c.(type) {
	case ir.PrimaryKeyConstraint:
		return con.Name
	case ir.ForeignKeyConstraint:
		return con.Name
	case ir.UniqueConstraint:
		return con.Name
	case ir.CheckConstraint:
		return con.Name
	case ir.ExcludeConstraint:
		return con.Name
	}
	return ""
}

func containsString(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}

// Clone deep-copies the table state so the replay engine can snapshot it
// before mutating the live catalog.
func (t *TableState) Clone() *TableState {
	clone := &TableState{
		Name:          t.Name,
		HasPrimaryKey: t.HasPrimaryKey,
		Temporary:     t.Temporary,
		Incomplete:    t.Incomplete,
	}
	clone.Columns = make([]*ColumnState, len(t.Columns))
	for i, c := range t.Columns {
		cc := *c
		clone.Columns[i] = &cc
	}
	clone.Indexes = make([]*IndexState, len(t.Indexes))
	for i, idx := range t.Indexes {
		ic := *idx
		ic.Columns = append([]string(nil), idx.Columns...)
		clone.Indexes[i] = &ic
	}
	clone.Constraints = append([]ir.TableConstraint(nil), t.Constraints...)
	return clone
}
