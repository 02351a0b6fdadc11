// SPDX-License-Identifier: Apache-2.0

package sqlir

import (
	pgq "github.com/pganalyze/pg_query_go/v6"

	"github.com/pgmlint/pgmlint/pkg/ir"
)

// convertDropStmt converts DROP. Only the object kinds the IR models
// directly (TABLE, INDEX) and the one other kind a rule cares about
// (SCHEMA ... CASCADE) get dedicated treatment; everything else (DROP
// VIEW, DROP TYPE, DROP FUNCTION, ...) is schema-irrelevant noise here.
func convertDropStmt(stmt *pgq.DropStmt, raw string) ir.IrNode {
	cascade := stmt.GetBehavior() == pgq.DropBehavior_DROP_CASCADE

	switch stmt.GetRemoveType() {
	case pgq.ObjectType_OBJECT_INDEX:
		return convertDropIndex(stmt, raw)

	case pgq.ObjectType_OBJECT_TABLE:
		return convertDropTable(stmt, raw)

	case pgq.ObjectType_OBJECT_SCHEMA:
		if !cascade {
			return ir.Ignored{Raw: raw}
		}
		name := ""
		if objs := stmt.GetObjects(); len(objs) > 0 {
			name = objs[0].GetString_().GetSval()
		}
		return ir.OtherStmt{Kind: ir.DropSchemaCascade, Schema: name, Cascade: true, Raw: raw}

	default:
		return ir.Ignored{Raw: raw}
	}
}

func convertDropIndex(stmt *pgq.DropStmt, raw string) ir.IrNode {
	objs := stmt.GetObjects()
	if len(objs) != 1 {
		return ir.Unparseable{Raw: raw, TableHint: scanTableHint(raw)}
	}

	parts := stringListParts(objs[0].GetList().GetItems())
	if len(parts) == 0 {
		if s := objs[0].GetString_().GetSval(); s != "" {
			parts = []string{s}
		}
	}

	name := parts[len(parts)-1]

	return ir.DropIndex{
		Name:         name,
		Concurrently: stmt.GetConcurrent(),
		IfExists:     stmt.GetMissingOk(),
	}
}

func convertDropTable(stmt *pgq.DropStmt, raw string) ir.IrNode {
	objs := stmt.GetObjects()
	if len(objs) != 1 {
		return ir.Unparseable{Raw: raw, TableHint: scanTableHint(raw)}
	}

	parts := stringListParts(objs[0].GetList().GetItems())
	q, ok := qualifiedFromNameParts(parts)
	if !ok {
		return ir.Unparseable{Raw: raw, TableHint: scanTableHint(raw)}
	}

	return ir.DropTable{
		Name:     q,
		IfExists: stmt.GetMissingOk(),
		Cascade:  stmt.GetBehavior() == pgq.DropBehavior_DROP_CASCADE,
	}
}
