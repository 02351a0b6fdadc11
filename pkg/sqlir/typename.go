// SPDX-License-Identifier: Apache-2.0

package sqlir

import (
	pgq "github.com/pganalyze/pg_query_go/v6"

	"github.com/pgmlint/pgmlint/pkg/ir"
)

// ignoredTypeParts are schema qualifiers the parser attaches to built-in
// type names that a reader never writes out (`pg_catalog.int4`).
var ignoredTypeParts = map[string]bool{
	"pg_catalog": true,
}

// convertTypeName maps a parsed TypeName node to the IR's base-name-plus-
// integer-modifiers shape. Array bounds are folded into the name itself
// (`int4[]`) since no rule distinguishes array-ness from the base type.
func convertTypeName(tn *pgq.TypeName) ir.TypeName {
	if tn == nil {
		return ir.TypeName{}
	}

	parts := make([]string, 0, len(tn.GetNames()))
	for _, n := range tn.GetNames() {
		part := n.GetString_().GetSval()
		if ignoredTypeParts[part] {
			continue
		}
		parts = append(parts, part)
	}
	name := joinDotted(parts)

	var mods []int
	for _, m := range tn.GetTypmods() {
		if iv, ok := m.GetAConst().GetVal().(*pgq.A_Const_Ival); ok {
			mods = append(mods, int(iv.Ival.GetIval()))
		}
	}

	for range tn.GetArrayBounds() {
		name += "[]"
	}

	return ir.TypeName{Name: name, Modifiers: mods}
}

func joinDotted(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}
