// SPDX-License-Identifier: Apache-2.0

package sqlir

import (
	pgq "github.com/pganalyze/pg_query_go/v6"

	"github.com/pgmlint/pgmlint/pkg/ir"
)

// convertIndexStmt converts CREATE [UNIQUE] INDEX. Expression indexes
// keep a slot per index param with an empty column name: PGM rules that
// walk Columns skip blanks, so a table still ends up with the right
// number of index entries even when one of them isn't a bare column.
func convertIndexStmt(stmt *pgq.IndexStmt, _ string) ir.IrNode {
	cols := make([]ir.IndexColumn, 0, len(stmt.GetIndexParams()))
	for _, p := range stmt.GetIndexParams() {
		cols = append(cols, ir.IndexColumn{Name: p.GetIndexElem().GetName()})
	}

	method := stmt.GetAccessMethod()

	return ir.CreateIndex{
		Table:        qualifiedFromRangeVar(stmt.GetRelation()),
		Name:         stmt.GetIdxname(),
		Columns:      cols,
		Unique:       stmt.GetUnique(),
		Concurrently: stmt.GetConcurrent(),
		IfNotExists:  stmt.GetIfNotExists(),
		Method:       method,
	}
}
