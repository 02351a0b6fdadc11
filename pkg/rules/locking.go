// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/pgmlint/pgmlint/pkg/ir"
)

var pgm001 = register(pgm001Rule{baseRule{
	id: "PGM001", severity: Major,
	description: "CREATE INDEX without CONCURRENTLY on an existing table",
	explain:     "A plain CREATE INDEX takes a SHARE lock that blocks writes to the table for the duration of the build. On an existing table this can stall production traffic; use CREATE INDEX CONCURRENTLY instead.",
}})

type pgm001Rule struct{ baseRule }

func (r pgm001Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		ci, ok := s.Node.(ir.CreateIndex)
		if !ok || ci.Concurrently {
			continue
		}
		if ctx.PreExisting(ci.Table) {
			out = append(out, finding(r, s, ctx.File, fmt.Sprintf("CREATE INDEX %q on existing table %q without CONCURRENTLY", ci.Name, ci.Table)))
		}
	}
	return out
}

var pgm002 = register(pgm002Rule{baseRule{
	id: "PGM002", severity: Major,
	description: "DROP INDEX without CONCURRENTLY on an existing table",
	explain:     "A plain DROP INDEX takes an ACCESS EXCLUSIVE lock briefly but can still queue behind long-running queries and block new ones meanwhile; DROP INDEX CONCURRENTLY avoids the exclusive lock.",
}})

type pgm002Rule struct{ baseRule }

func (r pgm002Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		di, ok := s.Node.(ir.DropIndex)
		if !ok || di.Concurrently {
			continue
		}
		owner := ctx.CatalogBefore.FindTableByIndex(di.Name)
		if owner != nil && ctx.PreExisting(owner.Name) {
			out = append(out, finding(r, s, ctx.File, fmt.Sprintf("DROP INDEX %q on existing table %q without CONCURRENTLY", di.Name, owner.Name)))
		}
	}
	return out
}

var pgm003 = register(pgm003Rule{baseRule{
	id: "PGM003", severity: Blocker,
	description: "CONCURRENTLY index operation inside a transaction",
	explain:     "CREATE/DROP INDEX CONCURRENTLY cannot run inside a transaction block; PostgreSQL rejects the statement outright when the migration runner wraps it in one.",
}})

type pgm003Rule struct{ baseRule }

func (r pgm003Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	if !ctx.RunInTransaction {
		return nil
	}
	var out []Finding
	for _, s := range stmts {
		switch n := s.Node.(type) {
		case ir.CreateIndex:
			if n.Concurrently {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("CREATE INDEX CONCURRENTLY %q runs inside a transaction", n.Name)))
			}
		case ir.DropIndex:
			if n.Concurrently {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("DROP INDEX CONCURRENTLY %q runs inside a transaction", n.Name)))
			}
		}
	}
	return out
}

var pgm004 = register(pgm004Rule{baseRule{
	id: "PGM004", severity: Major,
	description: "DETACH PARTITION without CONCURRENTLY on an existing table",
	explain:     "Detaching a partition takes an ACCESS EXCLUSIVE lock on the parent unless CONCURRENTLY is used.",
}})

type pgm004Rule struct{ baseRule }

func (r pgm004Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		at, ok := s.Node.(ir.AlterTable)
		if !ok {
			continue
		}
		for _, action := range at.Actions {
			oa, ok := action.(ir.OtherAction)
			if !ok || oa.Kind != ir.DetachPartition || oa.Concurrent {
				continue
			}
			if ctx.PreExisting(at.Name) {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("DETACH PARTITION on %q without CONCURRENTLY", at.Name)))
			}
		}
	}
	return out
}

var pgm005 = register(pgm005Rule{baseRule{
	id: "PGM005", severity: Critical,
	description: "VACUUM FULL on an existing table",
	explain:     "VACUUM FULL rewrites the entire table under an ACCESS EXCLUSIVE lock, blocking all reads and writes for the duration.",
}})

type pgm005Rule struct{ baseRule }

func (r pgm005Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		os, ok := s.Node.(ir.OtherStmt)
		if !ok || os.Kind != ir.VacuumFull || os.Table == nil {
			continue
		}
		if ctx.PreExisting(*os.Table) {
			out = append(out, finding(r, s, ctx.File, fmt.Sprintf("VACUUM FULL on existing table %q", *os.Table)))
		}
	}
	return out
}

var pgm013 = register(pgm013Rule{baseRule{
	id: "PGM013", severity: Major,
	description: "SET NOT NULL on an existing table",
	explain:     "Adding a NOT NULL constraint forces a full table scan to validate existing rows, holding a lock for the duration on versions before PostgreSQL 12's optimization (which itself still requires a matching valid CHECK constraint to skip the scan).",
}})

type pgm013Rule struct{ baseRule }

func (r pgm013Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		at, ok := s.Node.(ir.AlterTable)
		if !ok || !ctx.PreExisting(at.Name) {
			continue
		}
		for _, action := range at.Actions {
			if oa, ok := action.(ir.OtherAction); ok && oa.Kind == ir.SetNotNull {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("SET NOT NULL on %s.%s", at.Name, oa.Column)))
			}
		}
	}
	return out
}

var pgm018 = register(pgm018Rule{baseRule{
	id: "PGM018", severity: Critical,
	description: "CLUSTER on an existing table",
	explain:     "CLUSTER rewrites the table in index order under an ACCESS EXCLUSIVE lock.",
}})

type pgm018Rule struct{ baseRule }

func (r pgm018Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		os, ok := s.Node.(ir.OtherStmt)
		if !ok || os.Kind != ir.Cluster || os.Table == nil {
			continue
		}
		if ctx.PreExisting(*os.Table) {
			out = append(out, finding(r, s, ctx.File, fmt.Sprintf("CLUSTER on existing table %q", *os.Table)))
		}
	}
	return out
}

var pgm203 = register(pgm203Rule{baseRule{
	id: "PGM203", severity: Major,
	description: "TRUNCATE on an existing table",
	explain:     "TRUNCATE removes all rows irrecoverably without firing row-level triggers; on an existing table in production this is usually a mistake to flag.",
}})

type pgm203Rule struct{ baseRule }

func (r pgm203Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	return checkDataLossOther(pgm203, stmts, ctx, ir.Truncate, false)
}

var pgm204 = register(pgm204Rule{baseRule{
	id: "PGM204", severity: Critical,
	description: "TRUNCATE ... CASCADE on an existing table",
	explain:     "CASCADE extends the truncation to every table with a foreign key referencing this one, multiplying the data loss surface.",
}})

type pgm204Rule struct{ baseRule }

func (r pgm204Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	return checkDataLossOther(pgm204, stmts, ctx, ir.Truncate, true)
}

var pgm205 = register(pgm205Rule{baseRule{
	id: "PGM205", severity: Critical,
	description: "DROP SCHEMA ... CASCADE",
	explain:     "Dropping a schema with CASCADE drops every object it contains, regardless of whether any of them pre-existed this migration.",
}})

type pgm205Rule struct{ baseRule }

func (r pgm205Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		os, ok := s.Node.(ir.OtherStmt)
		if !ok || os.Kind != ir.DropSchemaCascade {
			continue
		}
		out = append(out, finding(r, s, ctx.File, fmt.Sprintf("DROP SCHEMA %q CASCADE", os.Schema)))
	}
	return out
}

// checkDataLossOther is shared by PGM203/PGM204: both trigger on the same
// OtherStmtKind, differing only in whether CASCADE must be present.
func checkDataLossOther(r Rule, stmts []ir.Located[ir.IrNode], ctx *LintContext, kind ir.OtherStmtKind, requireCascade bool) []Finding {
	var out []Finding
	for _, s := range stmts {
		os, ok := s.Node.(ir.OtherStmt)
		if !ok || os.Kind != kind || os.Cascade != requireCascade {
			continue
		}
		if os.Table == nil || !ctx.PreExisting(*os.Table) {
			continue
		}
		verb := "TRUNCATE"
		if requireCascade {
			verb = "TRUNCATE ... CASCADE"
		}
		out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s on existing table %q", verb, *os.Table)))
	}
	return out
}
