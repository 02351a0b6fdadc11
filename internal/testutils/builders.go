// SPDX-License-Identifier: Apache-2.0

// Package testutils holds small builders shared by the pkg/replay and
// pkg/rules tests, grounded on the teacher's pkg/testutils fixture
// style (small constructors over hand-assembled literals rather than a
// fixture DSL).
package testutils

import (
	"github.com/pgmlint/pgmlint/pkg/catalog"
	"github.com/pgmlint/pgmlint/pkg/ir"
)

// Table builds a TableState with the given columns already present and
// registers it in cat.
func Table(cat *catalog.Catalog, schema, name string, cols ...catalog.ColumnState) *catalog.TableState {
	t := &catalog.TableState{Name: ir.NewQualifiedName(schema, name)}
	for i := range cols {
		c := cols[i]
		t.Columns = append(t.Columns, &c)
	}
	cat.AddTable(t)
	return t
}

// Column builds a ColumnState value for use with Table.
func Column(name, typeName string, nullable bool) catalog.ColumnState {
	return catalog.ColumnState{Name: name, Type: ir.TypeName{Name: typeName}, Nullable: nullable}
}

// Unit builds a MigrationUnit from already-located IR nodes, defaulting
// RunInTransaction to true (the raw SQL loader's default per spec.md §6)
// and SourceLineOffset to 1.
func Unit(id, file string, stmts ...ir.Located[ir.IrNode]) ir.MigrationUnit {
	return ir.MigrationUnit{
		ID:               id,
		Statements:       stmts,
		SourceFile:       file,
		SourceLineOffset: 1,
		RunInTransaction: true,
	}
}

// Stmt wraps an IR node with a synthetic single-line span, for tests
// that don't care about exact source locations.
func Stmt(n ir.IrNode, line int) ir.Located[ir.IrNode] {
	return ir.Located[ir.IrNode]{Node: n, Span: ir.Span{StartLine: line, EndLine: line}}
}
