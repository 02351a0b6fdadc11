// SPDX-License-Identifier: Apache-2.0

// Package replay drives the single-pass snapshot-then-lint loop: for each
// migration unit in order, clone the live catalog as the pre-state,
// apply the unit's IR to the live catalog, then let the rule engine
// compare pre- and post-state. Grounded on the teacher's per-operation
// apply loop (pkg/roll/execute.go) and its per-operation state-mutation
// split (pkg/migrations/op_*.go), collapsed here into one pass since
// linting never needs the dual up/down replay a real migration runner
// does.
package replay

import (
	"github.com/pgmlint/pgmlint/pkg/catalog"
	"github.com/pgmlint/pgmlint/pkg/ir"
)

// ApplyUnit applies every statement of unit to cat, in source order, and
// returns the qualified names of any tables newly created by a
// CreateTable in this unit. The caller folds these into the file-wide
// tables_created_in_change accumulator before linting a later unit in
// the same file.
func ApplyUnit(cat *catalog.Catalog, unit *ir.MigrationUnit) []ir.QualifiedName {
	var created []ir.QualifiedName
	for i := range unit.Statements {
		if name := applyStatement(cat, &unit.Statements[i]); name != nil {
			created = append(created, *name)
		}
	}
	return created
}

func applyStatement(cat *catalog.Catalog, stmt *ir.Located[ir.IrNode]) *ir.QualifiedName {
	switch n := stmt.Node.(type) {
	case ir.CreateTable:
		return applyCreateTable(cat, n)
	case ir.AlterTable:
		applyAlterTable(cat, stmt, n)
		return nil
	case ir.CreateIndex:
		applyCreateIndex(cat, n)
		return nil
	case ir.DropIndex:
		cat.DropIndexByName(n.Name)
		return nil
	case ir.DropTable:
		cat.DropTable(n.Name)
		return nil
	case ir.Unparseable:
		if n.TableHint != nil {
			if t := cat.GetTable(*n.TableHint); t != nil {
				t.Incomplete = true
			}
		}
		return nil
	default:
		// Ignored and OtherStmt (VACUUM/CLUSTER/TRUNCATE/INSERT/UPDATE/
		// DELETE/DROP SCHEMA CASCADE) have no catalog effect; rules that
		// care about them inspect the IR node directly.
		return nil
	}
}

// applyCreateTable inserts a new TableState from ct's definition, unless
// a table with the same name already exists (CREATE TABLE IF NOT
// EXISTS against a pre-existing table leaves catalog state unchanged).
func applyCreateTable(cat *catalog.Catalog, ct ir.CreateTable) *ir.QualifiedName {
	if cat.Exists(ct.Name) {
		return nil
	}

	t := &catalog.TableState{Name: ct.Name, Temporary: ct.Temporary}

	for _, col := range ct.Columns {
		cs := &catalog.ColumnState{
			Name:       col.Name,
			Type:       col.Type,
			Nullable:   col.Null,
			HasDefault: col.Default != nil,
		}
		if col.Default != nil {
			cs.DefaultExpr = *col.Default
		}
		t.Columns = append(t.Columns, cs)

		if col.IsPrimaryKey {
			t.HasPrimaryKey = true
			cs.Nullable = false
			t.Constraints = append(t.Constraints, ir.PrimaryKeyConstraint{Columns: []string{col.Name}})
		}
		if col.IsUnique {
			t.Constraints = append(t.Constraints, ir.UniqueConstraint{Columns: []string{col.Name}})
		}
		if col.References != nil {
			t.Constraints = append(t.Constraints, ir.ForeignKeyConstraint{
				Columns:    []string{col.Name},
				RefTable:   col.References.Table,
				RefColumns: col.References.Columns,
				Validated:  true,
			})
		}
	}

	for _, c := range ct.Constraints {
		t.Constraints = append(t.Constraints, c)
		if pk, ok := c.(ir.PrimaryKeyConstraint); ok {
			t.HasPrimaryKey = true
			for _, colName := range pk.Columns {
				if cs := t.GetColumn(colName); cs != nil {
					cs.Nullable = false
				}
			}
		}
	}

	cat.AddTable(t)
	name := ct.Name
	return &name
}

// applyAlterTable replays each action of an ALTER TABLE against the live
// catalog. A table unknown to the catalog (a cross-file ALTER against a
// table this history never saw created) is left alone: there is nothing
// to mutate and no rule can usefully inspect it.
func applyAlterTable(cat *catalog.Catalog, stmt *ir.Located[ir.IrNode], at ir.AlterTable) {
	table := cat.GetTable(at.Name)
	if table == nil {
		return
	}

	for i, action := range at.Actions {
		switch a := action.(type) {
		case ir.AddColumnAction:
			cs := &catalog.ColumnState{
				Name:       a.Column.Name,
				Type:       a.Column.Type,
				Nullable:   a.Column.Null,
				HasDefault: a.Column.Default != nil,
			}
			if a.Column.Default != nil {
				cs.DefaultExpr = *a.Column.Default
			}
			table.AddColumn(cs)

		case ir.DropColumnAction:
			table.RemoveColumn(a.Column)

		case ir.AddConstraintAction:
			c := a.Constraint
			if a.NotValid {
				switch cc := c.(type) {
				case ir.ForeignKeyConstraint:
					cc.Validated = false
					c = cc
				case ir.CheckConstraint:
					cc.Validated = false
					c = cc
				}
			}
			table.Constraints = append(table.Constraints, c)
			if _, ok := c.(ir.PrimaryKeyConstraint); ok {
				table.HasPrimaryKey = true
			}

		case ir.AlterColumnTypeAction:
			if cs := table.GetColumn(a.Column); cs != nil {
				old := cs.Type
				a.Old = &old
				cs.Type = a.New
				// a.Old was just populated on this local copy; write it
				// back into the shared Actions backing array so rules
				// reading stmt.Node later in this same pass see it.
				at.Actions[i] = a
			}

		case ir.OtherAction:
			applyOtherAction(cat, table, at.Name, a)
		}
	}

	stmt.Node = at
}

func applyOtherAction(cat *catalog.Catalog, table *catalog.TableState, tableName ir.QualifiedName, a ir.OtherAction) {
	switch a.Kind {
	case ir.SetNotNull:
		if cs := table.GetColumn(a.Column); cs != nil {
			cs.Nullable = false
		}
	case ir.DropNotNull:
		if cs := table.GetColumn(a.Column); cs != nil {
			cs.Nullable = true
		}
	case ir.SetDefault:
		if cs := table.GetColumn(a.Column); cs != nil {
			cs.HasDefault = true
			if a.Default != nil {
				cs.DefaultExpr = *a.Default
			}
		}
	case ir.DropDefault:
		if cs := table.GetColumn(a.Column); cs != nil {
			cs.HasDefault = false
			cs.DefaultExpr = nil
		}
	case ir.ValidateConstraint:
		markValidated(table, a.NewName)
	case ir.DropConstraint:
		table.RemoveConstraint(a.NewName)
	case ir.RenameTableTo:
		cat.RenameTable(tableName, ir.NewQualifiedName(tableName.Schema, a.NewName))
	case ir.RenameColumn:
		table.RenameColumn(a.Column, a.NewName)
	// DetachPartition, AttachPartition, DisableTrigger and
	// OtherActionUnknown are applied literally: rules inspect the IR
	// node directly and the catalog is not mutated for them.
	default:
	}
}

// markValidated flips the named FK or CHECK constraint's Validated flag,
// replacing the slice element since TableConstraint is an interface
// value, not a pointer.
func markValidated(table *catalog.TableState, name string) {
	for i, c := range table.Constraints {
		switch con := c.(type) {
		case ir.ForeignKeyConstraint:
			if con.Name == name {
				con.Validated = true
				table.Constraints[i] = con
			}
		case ir.CheckConstraint:
			if con.Name == name {
				con.Validated = true
				table.Constraints[i] = con
			}
		}
	}
}

func applyCreateIndex(cat *catalog.Catalog, ci ir.CreateIndex) {
	table := cat.GetTable(ci.Table)
	if table == nil {
		return
	}
	method := ci.Method
	if method == "" {
		method = "btree"
	}
	cols := make([]string, len(ci.Columns))
	for i, c := range ci.Columns {
		cols[i] = c.Name
	}
	table.Indexes = append(table.Indexes, &catalog.IndexState{
		Name:    ci.Name,
		Columns: cols,
		Unique:  ci.Unique,
		Method:  method,
	})
}
