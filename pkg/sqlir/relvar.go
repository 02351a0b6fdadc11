// SPDX-License-Identifier: Apache-2.0

package sqlir

import (
	pgq "github.com/pganalyze/pg_query_go/v6"

	"github.com/pgmlint/pgmlint/pkg/ir"
)

// qualifiedFromRangeVar builds a QualifiedName from a parsed RangeVar,
// defaulting an absent schema to "public" the way ir.NewQualifiedName does.
func qualifiedFromRangeVar(rv *pgq.RangeVar) ir.QualifiedName {
	return ir.NewQualifiedName(rv.GetSchemaname(), rv.GetRelname())
}

// qualifiedFromNameParts builds a QualifiedName from a dotted object name
// as it appears in DropStmt.Objects: one part is a bare name, two parts
// are schema.name.
func qualifiedFromNameParts(parts []string) (ir.QualifiedName, bool) {
	switch len(parts) {
	case 1:
		return ir.NewQualifiedName("", parts[0]), true
	case 2:
		return ir.NewQualifiedName(parts[0], parts[1]), true
	default:
		return ir.QualifiedName{}, false
	}
}

func stringListParts(nodes []*pgq.Node) []string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, n.GetString_().GetSval())
	}
	return parts
}
