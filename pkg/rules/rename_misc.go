// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/pgmlint/pgmlint/pkg/catalog"
	"github.com/pgmlint/pgmlint/pkg/ir"
)

var pgm504 = register(pgm504Rule{baseRule{
	id: "PGM504", severity: Major,
	description: "RENAME TABLE on an existing table",
	explain:     "Renaming a table breaks any application code, view, or stored procedure that still refers to the old name; this is fine for a table created earlier in the same migration but risky for one already live.",
}})

type pgm504Rule struct{ baseRule }

func (r pgm504Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		at, ok := s.Node.(ir.AlterTable)
		if !ok {
			continue
		}
		for _, action := range at.Actions {
			oa, ok := action.(ir.OtherAction)
			if !ok || oa.Kind != ir.RenameTableTo {
				continue
			}
			if ctx.PreExisting(at.Name) && !reusesOldName(stmts, at.Name) {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s renamed to %q", at.Name, oa.NewName)))
			}
		}
	}
	return out
}

// reusesOldName reports whether stmts contains a CREATE TABLE recreating
// name, the `RENAME TO x_old; CREATE TABLE x (...)` pattern a single
// migration unit uses to swap a table out safely.
func reusesOldName(stmts []ir.Located[ir.IrNode], name ir.QualifiedName) bool {
	for _, s := range stmts {
		if ct, ok := s.Node.(ir.CreateTable); ok && ct.Name == name {
			return true
		}
	}
	return false
}

var pgm505 = register(pgm505Rule{baseRule{
	id: "PGM505", severity: Major,
	description: "RENAME COLUMN on an existing table",
	explain:     "Renaming a column breaks any query or view still referring to the old name.",
}})

type pgm505Rule struct{ baseRule }

func (r pgm505Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		at, ok := s.Node.(ir.AlterTable)
		if !ok || !ctx.PreExisting(at.Name) {
			continue
		}
		for _, action := range at.Actions {
			oa, ok := action.(ir.OtherAction)
			if !ok || oa.Kind != ir.RenameColumn {
				continue
			}
			out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s.%s renamed to %q", at.Name, oa.Column, oa.NewName)))
		}
	}
	return out
}

var pgm506 = register(pgm506Rule{baseRule{
	id: "PGM506", severity: Minor,
	description: "CREATE UNLOGGED TABLE",
	explain:     "Unlogged tables skip WAL writes and are truncated on crash recovery; fine for scratch data, surprising for anything expected to survive a restart.",
}})

type pgm506Rule struct{ baseRule }

func (r pgm506Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		ct, ok := s.Node.(ir.CreateTable)
		if !ok || !ct.Unlogged {
			continue
		}
		out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s created UNLOGGED", ct.Name)))
	}
	return out
}

var pgm507 = register(pgm507Rule{baseRule{
	id: "PGM507", severity: Minor,
	description: "DROP NOT NULL on an existing table",
	explain:     "Dropping a NOT NULL constraint silently weakens a data-integrity guarantee that application code may be relying on.",
}})

type pgm507Rule struct{ baseRule }

func (r pgm507Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		at, ok := s.Node.(ir.AlterTable)
		if !ok || !ctx.PreExisting(at.Name) {
			continue
		}
		for _, action := range at.Actions {
			if oa, ok := action.(ir.OtherAction); ok && oa.Kind == ir.DropNotNull {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s.%s dropped NOT NULL", at.Name, oa.Column)))
			}
		}
	}
	return out
}

var pgm509 = register(pgm509Rule{baseRule{
	id: "PGM509", severity: Major,
	description: "DISABLE TRIGGER",
	explain:     "Disabling a trigger silently turns off whatever invariant or side effect it enforces; on a pre-existing table this is usually unintentional drift, while on a table created in the same change it is often deliberate seeding setup.",
}})

type pgm509Rule struct{ baseRule }

func (r pgm509Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		at, ok := s.Node.(ir.AlterTable)
		if !ok {
			continue
		}
		for _, action := range at.Actions {
			oa, ok := action.(ir.OtherAction)
			if !ok || oa.Kind != ir.DisableTrigger {
				continue
			}
			if ctx.PreExisting(at.Name) {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s disabled trigger(s)", at.Name)))
			} else {
				out = append(out, findingAt(r, Info, s, ctx.File, fmt.Sprintf("%s disabled trigger(s)", at.Name)))
			}
		}
	}
	return out
}

var pgm510 = register(pgm510Rule{baseRule{
	id: "PGM510", severity: Critical,
	description: "DROP TABLE ... CASCADE on an existing table",
	explain:     "CASCADE extends the drop to every object depending on this table (views, foreign keys, sequences), multiplying the blast radius of an already-irreversible operation.",
}})

type pgm510Rule struct{ baseRule }

func (r pgm510Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		dt, ok := s.Node.(ir.DropTable)
		if !ok || !dt.Cascade || !ctx.PreExisting(dt.Name) {
			continue
		}
		out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s dropped with CASCADE", dt.Name)))
	}
	return out
}

var pgm511 = register(pgm511Rule{baseRule{
	id: "PGM511", severity: Critical,
	description: "DROP TABLE on an existing table",
	explain:     "Dropping a table is irreversible the moment the migration runs; this fires regardless of CASCADE since the data loss is the same either way.",
}})

type pgm511Rule struct{ baseRule }

func (r pgm511Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		dt, ok := s.Node.(ir.DropTable)
		if !ok || !ctx.PreExisting(dt.Name) {
			continue
		}
		out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s dropped", dt.Name)))
	}
	return out
}

var pgm512 = register(pgm512Rule{baseRule{
	id: "PGM512", severity: Critical,
	description: "ADD CONSTRAINT ... EXCLUDE on an existing table",
	explain:     "An exclusion constraint builds a supporting index and validates every existing row against it under an ACCESS EXCLUSIVE lock, with no NOT VALID escape hatch the way CHECK and FOREIGN KEY constraints have.",
}})

type pgm512Rule struct{ baseRule }

func (r pgm512Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		at, ok := s.Node.(ir.AlterTable)
		if !ok || !ctx.PreExisting(at.Name) {
			continue
		}
		for _, action := range at.Actions {
			ac, ok := action.(ir.AddConstraintAction)
			if !ok {
				continue
			}
			if _, ok := ac.Constraint.(ir.ExcludeConstraint); ok {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s ADD CONSTRAINT %s EXCLUDE", at.Name, ac.Name)))
			}
		}
	}
	return out
}

var pgm513 = register(pgm513Rule{baseRule{
	id: "PGM513", severity: Critical,
	description: "ATTACH PARTITION without a satisfying CHECK constraint",
	explain:     "PostgreSQL validates every row of the attaching table against the partition bound unless a CHECK constraint on the partition key already proves it satisfies the bound; absent one, attaching a large table scans it entirely under lock.",
}})

type pgm513Rule struct{ baseRule }

func (r pgm513Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		at, ok := s.Node.(ir.AlterTable)
		if !ok {
			continue
		}
		for _, action := range at.Actions {
			oa, ok := action.(ir.OtherAction)
			if !ok || oa.Kind != ir.AttachPartition || oa.Partition == nil {
				continue
			}
			// CatalogAfter, not CatalogBefore: the attaching child may have
			// been created earlier in this same unit (CREATE TABLE child
			// ...; ALTER TABLE parent ATTACH PARTITION child ...), which
			// CatalogBefore (a pre-unit snapshot) would not yet contain.
			child := ctx.CatalogAfter.GetTable(*oa.Partition)
			if child == nil {
				continue
			}
			if !hasAnyCheckConstraint(child) {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s attaches %s with no CHECK constraint", at.Name, *oa.Partition)))
			}
		}
	}
	return out
}

func hasAnyCheckConstraint(t *catalog.TableState) bool {
	for _, c := range t.Constraints {
		if _, ok := c.(ir.CheckConstraint); ok {
			return true
		}
	}
	return false
}
