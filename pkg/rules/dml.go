// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/pgmlint/pgmlint/pkg/ir"
)

var pgm301 = register(dmlRule{baseRule{
	id: "PGM301", severity: Minor,
	description: "INSERT against an existing table in a schema migration",
	explain:     "Data-modifying statements mixed into schema migrations are easy to miss in review and don't roll back the way a DDL-only change does.",
}, ir.Insert, "INSERT"})

var pgm302 = register(dmlRule{baseRule{
	id: "PGM302", severity: Minor,
	description: "UPDATE against an existing table in a schema migration",
	explain:     "An UPDATE in a schema migration can silently rewrite production data and, on a large table, hold row locks for a long-running statement.",
}, ir.Update, "UPDATE"})

var pgm303 = register(dmlRule{baseRule{
	id: "PGM303", severity: Minor,
	description: "DELETE against an existing table in a schema migration",
	explain:     "A DELETE in a schema migration destroys rows irrecoverably and deserves the same scrutiny as a DDL change with data-loss potential.",
}, ir.Delete, "DELETE"})

type dmlRule struct {
	baseRule
	kind ir.OtherStmtKind
	verb string
}

func (r dmlRule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		os, ok := s.Node.(ir.OtherStmt)
		if !ok || os.Kind != r.kind || os.Table == nil {
			continue
		}
		if ctx.PreExisting(*os.Table) {
			out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s against existing table %q", r.verb, *os.Table)))
		}
	}
	return out
}
