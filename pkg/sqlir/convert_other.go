// SPDX-License-Identifier: Apache-2.0

package sqlir

import (
	"regexp"

	pgq "github.com/pganalyze/pg_query_go/v6"

	"github.com/pgmlint/pgmlint/pkg/ir"
)

var fullOptionWord = regexp.MustCompile(`(?i)\bFULL\b`)

// convertVacuumStmt converts VACUUM. Only VACUUM FULL is surfaced as an
// OtherStmt: plain VACUUM and ANALYZE have no locking consequence a rule
// needs to flag. The FULL option is detected from source text rather
// than VacuumStmt's Options list, since FULL is carried as one of several
// generic DefElem option nodes whose exact shape is riskier to match on
// than a keyword scan.
func convertVacuumStmt(stmt *pgq.VacuumStmt, raw string) ir.IrNode {
	if stmt.GetIsVacuumcmd() && !fullOptionWord.MatchString(raw) {
		return ir.Ignored{Raw: raw}
	}
	if !stmt.GetIsVacuumcmd() {
		// ANALYZE, parsed by the same node.
		return ir.Ignored{Raw: raw}
	}

	var table *ir.QualifiedName
	if rels := stmt.GetRels(); len(rels) > 0 {
		if rv := rels[0].GetVacuumRelation().GetRelation(); rv != nil {
			q := qualifiedFromRangeVar(rv)
			table = &q
		}
	}

	return ir.OtherStmt{Kind: ir.VacuumFull, Table: table, Raw: raw}
}

func convertClusterStmt(stmt *pgq.ClusterStmt, raw string) ir.IrNode {
	var table *ir.QualifiedName
	if rv := stmt.GetRelation(); rv != nil {
		q := qualifiedFromRangeVar(rv)
		table = &q
	}
	return ir.OtherStmt{Kind: ir.Cluster, Table: table, Raw: raw}
}

func convertTruncateStmt(stmt *pgq.TruncateStmt, raw string) ir.IrNode {
	cascade := stmt.GetBehavior() == pgq.DropBehavior_DROP_CASCADE

	rels := stmt.GetRelations()
	if len(rels) != 1 {
		// Multi-table TRUNCATE: no single natural `Table` slot, and
		// rules that care about TRUNCATE only need to see that it
		// happened against a known table to warn on data loss.
		return ir.OtherStmt{Kind: ir.Truncate, Cascade: cascade, Raw: raw}
	}
	rv, ok := rels[0].GetNode().(*pgq.Node_RangeVar)
	if !ok {
		return ir.OtherStmt{Kind: ir.Truncate, Cascade: cascade, Raw: raw}
	}
	q := qualifiedFromRangeVar(rv.RangeVar)
	return ir.OtherStmt{Kind: ir.Truncate, Table: &q, Cascade: cascade, Raw: raw}
}

func convertInsertStmt(stmt *pgq.InsertStmt, raw string) ir.IrNode {
	var table *ir.QualifiedName
	if rv := stmt.GetRelation(); rv != nil {
		q := qualifiedFromRangeVar(rv)
		table = &q
	}
	return ir.OtherStmt{Kind: ir.Insert, Table: table, Raw: raw}
}

func convertUpdateStmt(stmt *pgq.UpdateStmt, raw string) ir.IrNode {
	var table *ir.QualifiedName
	if rv := stmt.GetRelation(); rv != nil {
		q := qualifiedFromRangeVar(rv)
		table = &q
	}
	return ir.OtherStmt{Kind: ir.Update, Table: table, Raw: raw}
}

func convertDeleteStmt(stmt *pgq.DeleteStmt, raw string) ir.IrNode {
	var table *ir.QualifiedName
	if rv := stmt.GetRelation(); rv != nil {
		q := qualifiedFromRangeVar(rv)
		table = &q
	}
	return ir.OtherStmt{Kind: ir.Delete, Table: table, Raw: raw}
}
