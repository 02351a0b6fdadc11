// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/pgmlint/pgmlint/pkg/ir"
)

// typeCheckRule is shared by PGM101-106: each flags a column
// type shape in CreateTable and AlterTable ADD COLUMN, the two places a
// brand-new column definition appears.
type typeCheckRule struct {
	baseRule
	match  func(ir.ColumnDef) bool
	reason string
}

func (r typeCheckRule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		switch n := s.Node.(type) {
		case ir.CreateTable:
			for _, col := range n.Columns {
				if r.match(col) {
					out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s.%s %s", n.Name, col.Name, r.reason)))
				}
			}
		case ir.AlterTable:
			for _, action := range n.Actions {
				ac, ok := action.(ir.AddColumnAction)
				if !ok || !r.match(ac.Column) {
					continue
				}
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s.%s %s", n.Name, ac.Column.Name, r.reason)))
			}
		}
	}
	return out
}

var pgm101 = register(typeCheckRule{
	baseRule: baseRule{
		id: "PGM101", severity: Minor,
		description: "column uses timestamp without time zone",
		explain:     "timestamp without time zone silently discards the session time zone, a frequent source of off-by-offset bugs; timestamptz stores an absolute instant instead.",
	},
	match:  func(c ir.ColumnDef) bool { return c.Type.Name == "timestamp" },
	reason: "uses timestamp without time zone",
})

var pgm102 = register(typeCheckRule{
	baseRule: baseRule{
		id: "PGM102", severity: Minor,
		description: "timestamp column declared without fractional-second precision",
		explain:     "`timestamp(0)` / `timestamptz(0)` truncate to whole seconds, which is rarely intended and usually a copy-paste artifact.",
	},
	match: func(c ir.ColumnDef) bool {
		return (c.Type.Name == "timestamp" || c.Type.Name == "timestamptz") && len(c.Type.Modifiers) > 0 && c.Type.Modifiers[0] == 0
	},
	reason: "declared with explicit 0 fractional-second precision",
})

var pgm103 = register(typeCheckRule{
	baseRule: baseRule{
		id: "PGM103", severity: Minor,
		description: "column uses char(n) instead of varchar/text",
		explain:     "char(n) blank-pads stored values to length n, which surprises most application code comparing or measuring the string.",
	},
	match:  func(c ir.ColumnDef) bool { return c.Type.Name == "char" && len(c.Type.Modifiers) > 0 },
	reason: "uses char(n), which blank-pads stored values",
})

var pgm104 = register(typeCheckRule{
	baseRule: baseRule{
		id: "PGM104", severity: Minor,
		description: "column uses the money type",
		explain:     "money depends on the session's lc_monetary locale for its formatting and rounding behavior and does not support arbitrary precision; numeric is the portable choice for currency values.",
	},
	match:  func(c ir.ColumnDef) bool { return c.Type.Name == "money" },
	reason: "uses the money type",
})

var pgm105 = register(typeCheckRule{
	baseRule: baseRule{
		id: "PGM105", severity: Minor,
		description: "column uses a serial type",
		explain:     "serial/bigserial/smallserial are sugar over a sequence and an implicit default, and behave inconsistently under logical replication and ownership changes compared to an explicit `GENERATED ... AS IDENTITY` column.",
	},
	match: func(c ir.ColumnDef) bool {
		switch c.Type.Name {
		case "serial", "bigserial", "smallserial":
			return true
		default:
			return false
		}
	},
	reason: "uses a serial type instead of GENERATED ... AS IDENTITY",
})

var pgm106 = register(typeCheckRule{
	baseRule: baseRule{
		id: "PGM106", severity: Minor,
		description: "column uses json instead of jsonb",
		explain:     "json stores an exact text copy and reparses it on every access with no indexing support; jsonb stores a decomposed binary form that supports indexing and is faster to query.",
	},
	match:  func(c ir.ColumnDef) bool { return c.Type.Name == "json" },
	reason: "uses json instead of jsonb",
})

var pgm508 = register(pgm508Rule{baseRule{
	id: "PGM508", severity: Minor,
	description: "primary key column uses a 32-bit integer type",
	explain:     "A 32-bit primary key (integer/int4, smallint/int2) can exhaust its range under sustained insert load, and migrating it later requires rewriting every referencing foreign key; bigint leaves headroom up front.",
}})

type pgm508Rule struct{ baseRule }

func (r pgm508Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		ct, ok := s.Node.(ir.CreateTable)
		if !ok {
			continue
		}
		pkCols := map[string]bool{}
		for _, c := range ct.Constraints {
			if pk, ok := c.(ir.PrimaryKeyConstraint); ok {
				for _, col := range pk.Columns {
					pkCols[col] = true
				}
			}
		}
		for _, col := range ct.Columns {
			if col.IsPrimaryKey {
				pkCols[col.Name] = true
			}
		}
		for _, col := range ct.Columns {
			if !pkCols[col.Name] {
				continue
			}
			switch col.Type.Name {
			case "integer", "int", "int4", "smallint", "int2":
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s.%s is a %s primary key", ct.Name, col.Name, col.Type.Name)))
			}
		}
	}
	return out
}
