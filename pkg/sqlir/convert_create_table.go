// SPDX-License-Identifier: Apache-2.0

package sqlir

import (
	pgq "github.com/pganalyze/pg_query_go/v6"

	"github.com/pgmlint/pgmlint/pkg/ir"
)

// convertCreateStmt converts CREATE TABLE. LIKE clauses and CREATE TABLE
// OF are rare enough in migration histories that they fall through as a
// column-less table rather than aborting the statement: the table still
// needs to exist in the catalog for later ALTERs to resolve against.
func convertCreateStmt(stmt *pgq.CreateStmt, raw string) ir.IrNode {
	name := qualifiedFromRangeVar(stmt.GetRelation())

	var columns []ir.ColumnDef
	var constraints []ir.TableConstraint

	for _, elt := range stmt.GetTableElts() {
		switch n := elt.GetNode().(type) {
		case *pgq.Node_ColumnDef:
			columns = append(columns, convertColumnDef(n.ColumnDef, &constraints))
		case *pgq.Node_Constraint:
			if c, ok := convertTableConstraint(n.Constraint); ok {
				constraints = append(constraints, c)
			}
		}
	}

	persistence := stmt.GetRelation().GetRelpersistence()

	return ir.CreateTable{
		Name:        name,
		Columns:     columns,
		Constraints: constraints,
		IfNotExists: stmt.GetIfNotExists(),
		Unlogged:    persistence == "u",
		Temporary:   persistence == "t",
	}
}

// convertColumnDef converts one column definition. An inline CHECK,
// named or not, is appended to constraints. Inline PRIMARY KEY, UNIQUE
// and REFERENCES, named or not, are kept on the ColumnDef itself
// (IsPrimaryKey, IsUnique, References) rather than synthesized as
// constraints, since the replay engine treats those as column-level
// facts; a constraint name given for them is not kept.
func convertColumnDef(col *pgq.ColumnDef, constraints *[]ir.TableConstraint) ir.ColumnDef {
	cd := ir.ColumnDef{
		Name: col.GetColname(),
		Type: convertTypeName(col.GetTypeName()),
		Null: true,
	}

	for _, cn := range col.GetConstraints() {
		c := cn.GetConstraint()
		if c == nil {
			continue
		}

		switch c.GetContype() {
		case pgq.ConstrType_CONSTR_NOTNULL:
			cd.Null = false
		case pgq.ConstrType_CONSTR_NULL:
			cd.Null = true
		case pgq.ConstrType_CONSTR_DEFAULT:
			d := convertDefaultExpr(c)
			cd.Default = &d
		case pgq.ConstrType_CONSTR_PRIMARY:
			cd.IsPrimaryKey = true
			cd.Null = false
		case pgq.ConstrType_CONSTR_UNIQUE:
			cd.IsUnique = true
		case pgq.ConstrType_CONSTR_CHECK:
			*constraints = append(*constraints, ir.CheckConstraint{
				Name:       c.GetConname(),
				Columns:    []string{cd.Name},
				Expression: formatExpr(c.GetRawExpr()),
				Validated:  !c.GetSkipValidation(),
			})
		case pgq.ConstrType_CONSTR_FOREIGN:
			cd.References = &ir.InlineReference{
				Table:   qualifiedFromRangeVar(c.GetPktable()),
				Columns: stringListParts(c.GetPkAttrs()),
			}
		}
	}

	return cd
}

// convertTableConstraint converts a table-level constraint clause. The
// second return value is false for constraint kinds the IR doesn't model
// (e.g. an inline LIKE-table constraint copy), which the caller drops.
func convertTableConstraint(c *pgq.Constraint) (ir.TableConstraint, bool) {
	switch c.GetContype() {
	case pgq.ConstrType_CONSTR_PRIMARY:
		return ir.PrimaryKeyConstraint{
			Name:       c.GetConname(),
			Columns:    stringListParts(c.GetKeys()),
			UsingIndex: c.GetIndexname() != "",
		}, true
	case pgq.ConstrType_CONSTR_FOREIGN:
		return ir.ForeignKeyConstraint{
			Name:       c.GetConname(),
			Columns:    stringListParts(c.GetFkAttrs()),
			RefTable:   qualifiedFromRangeVar(c.GetPktable()),
			RefColumns: stringListParts(c.GetPkAttrs()),
			Validated:  !c.GetSkipValidation(),
		}, true
	case pgq.ConstrType_CONSTR_UNIQUE:
		return ir.UniqueConstraint{
			Name:       c.GetConname(),
			Columns:    stringListParts(c.GetKeys()),
			UsingIndex: c.GetIndexname() != "",
		}, true
	case pgq.ConstrType_CONSTR_CHECK:
		return ir.CheckConstraint{
			Name:       c.GetConname(),
			Expression: formatExpr(c.GetRawExpr()),
			Validated:  !c.GetSkipValidation(),
		}, true
	case pgq.ConstrType_CONSTR_EXCLUSION:
		cols := make([]string, 0, len(c.GetExclusions()))
		for _, ex := range c.GetExclusions() {
			items := ex.GetList().GetItems()
			if len(items) > 0 {
				cols = append(cols, items[0].GetIndexElem().GetName())
			}
		}
		return ir.ExcludeConstraint{Name: c.GetConname(), Columns: cols}, true
	default:
		return nil, false
	}
}

