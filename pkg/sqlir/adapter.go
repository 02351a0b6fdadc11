// SPDX-License-Identifier: Apache-2.0

package sqlir

import (
	pgq "github.com/pganalyze/pg_query_go/v6"

	"github.com/pgmlint/pgmlint/pkg/ir"
)

// Parse splits sql into statements and maps each one to a Located IR
// node. A statement the parser rejects, or a recognized-but-opaque block
// (DO $$...$$, a trigger function body, dynamic SQL), becomes
// ir.Unparseable with a best-effort table hint rather than aborting the
// whole file — per spec.md §7, parse failures within a file are never
// fatal.
func Parse(sql string) []ir.Located[ir.IrNode] {
	texts := splitStatements(sql)
	out := make([]ir.Located[ir.IrNode], 0, len(texts))

	for _, t := range texts {
		node := parseOne(t.Raw)
		out = append(out, ir.Located[ir.IrNode]{Node: node, Span: t.Span})
	}

	return out
}

func parseOne(raw string) ir.IrNode {
	result, err := pgq.Parse(raw)
	if err != nil || len(result.GetStmts()) != 1 {
		return unparseable(raw)
	}

	node := result.GetStmts()[0].GetStmt().GetNode()

	switch n := node.(type) {
	case *pgq.Node_CreateStmt:
		return convertCreateStmt(n.CreateStmt, raw)
	case *pgq.Node_AlterTableStmt:
		return convertAlterTableStmt(n.AlterTableStmt, raw)
	case *pgq.Node_IndexStmt:
		return convertIndexStmt(n.IndexStmt, raw)
	case *pgq.Node_DropStmt:
		return convertDropStmt(n.DropStmt, raw)
	case *pgq.Node_RenameStmt:
		return convertRenameStmt(n.RenameStmt, raw)
	case *pgq.Node_VacuumStmt:
		return convertVacuumStmt(n.VacuumStmt, raw)
	case *pgq.Node_ClusterStmt:
		return convertClusterStmt(n.ClusterStmt, raw)
	case *pgq.Node_TruncateStmt:
		return convertTruncateStmt(n.TruncateStmt, raw)
	case *pgq.Node_InsertStmt:
		return convertInsertStmt(n.InsertStmt, raw)
	case *pgq.Node_UpdateStmt:
		return convertUpdateStmt(n.UpdateStmt, raw)
	case *pgq.Node_DeleteStmt:
		return convertDeleteStmt(n.DeleteStmt, raw)
	case *pgq.Node_DoStmt:
		return unparseableWithHint(raw, scanTableHint(raw))
	case *pgq.Node_CreateFunctionStmt, *pgq.Node_CreateTrigStmt:
		return unparseableWithHint(raw, scanTableHint(raw))
	default:
		return ir.Ignored{Raw: raw}
	}
}

func unparseable(raw string) ir.IrNode {
	return unparseableWithHint(raw, scanTableHint(raw))
}

func unparseableWithHint(raw string, hint *ir.QualifiedName) ir.IrNode {
	return ir.Unparseable{Raw: raw, TableHint: hint}
}
