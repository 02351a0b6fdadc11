// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/pgmlint/pgmlint/pkg/ir"
)

var pgm401 = register(pgm401Rule{baseRule{
	id: "PGM401", severity: Minor,
	description: "DROP TABLE/DROP INDEX without IF EXISTS",
	explain:     "A drop without IF EXISTS aborts the whole migration run if the object is already gone, which is a common failure mode when a migration is re-run after a partial failure.",
}})

type pgm401Rule struct{ baseRule }

func (r pgm401Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		switch n := s.Node.(type) {
		case ir.DropTable:
			if !n.IfExists {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("DROP TABLE %q without IF EXISTS", n.Name)))
			}
		case ir.DropIndex:
			if !n.IfExists {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("DROP INDEX %q without IF EXISTS", n.Name)))
			}
		}
	}
	return out
}

var pgm402 = register(pgm402Rule{baseRule{
	id: "PGM402", severity: Minor,
	description: "CREATE TABLE/CREATE INDEX without IF NOT EXISTS",
	explain:     "A create without IF NOT EXISTS aborts the whole migration run if the object already exists, the same re-run hazard PGM401 flags for drops.",
}})

type pgm402Rule struct{ baseRule }

func (r pgm402Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		switch n := s.Node.(type) {
		case ir.CreateTable:
			if !n.IfNotExists {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("CREATE TABLE %q without IF NOT EXISTS", n.Name)))
			}
		case ir.CreateIndex:
			if !n.IfNotExists {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("CREATE INDEX %q without IF NOT EXISTS", n.Name)))
			}
		}
	}
	return out
}

var pgm403 = register(pgm403Rule{baseRule{
	id: "PGM403", severity: Minor,
	description: "CREATE TABLE IF NOT EXISTS names a table that already exists",
	explain:     "IF NOT EXISTS silently turns this statement into a no-op, so any columns or constraints it declares are never applied; that divergence between the migration source and the live schema is worth surfacing.",
}})

type pgm403Rule struct{ baseRule }

func (r pgm403Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		ct, ok := s.Node.(ir.CreateTable)
		if !ok || !ct.IfNotExists {
			continue
		}
		if ctx.CatalogBefore.Exists(ct.Name) {
			out = append(out, finding(r, s, ctx.File, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q: table already exists", ct.Name)))
		}
	}
	return out
}
