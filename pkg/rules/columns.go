// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"

	"github.com/pgmlint/pgmlint/pkg/ir"
	"github.com/pgmlint/pgmlint/pkg/volatility"
)

var pgm006 = register(pgm006Rule{baseRule{
	id: "PGM006", severity: Minor,
	description: "volatile function default added to an existing table",
	explain:     "A DEFAULT backed by a VOLATILE function (e.g. gen_random_uuid()) evaluates once per row at backfill time when PostgreSQL needs to rewrite the table, which a plain ADD COLUMN with a non-volatile default avoids since PostgreSQL 11.",
}})

type pgm006Rule struct{ baseRule }

func (r pgm006Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		at, ok := s.Node.(ir.AlterTable)
		if !ok || !ctx.PreExisting(at.Name) {
			continue
		}
		for _, action := range at.Actions {
			var name string
			var fc ir.FunctionCallDefault
			switch a := action.(type) {
			case ir.AddColumnAction:
				if a.Column.Default == nil {
					continue
				}
				f, ok := (*a.Column.Default).(ir.FunctionCallDefault)
				if !ok {
					continue
				}
				name, fc = a.Column.Name, f
			case ir.OtherAction:
				if a.Kind != ir.SetDefault || a.Default == nil {
					continue
				}
				f, ok := (*a.Default).(ir.FunctionCallDefault)
				if !ok {
					continue
				}
				name, fc = a.Column, f
			default:
				continue
			}
			switch volatility.Lookup(fc.Name) {
			case volatility.Volatile:
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s.%s default %s() is volatile", at.Name, name, fc.Name)))
			case volatility.Unknown:
				out = append(out, findingAt(r, Info, s, ctx.File, fmt.Sprintf("%s.%s default %s() has unknown volatility", at.Name, name, fc.Name)))
			}
		}
	}
	return out
}

var pgm007 = register(pgm007Rule{baseRule{
	id: "PGM007", severity: Major,
	description: "ALTER COLUMN TYPE on an existing table requires a table rewrite",
	explain:     "Most type changes force PostgreSQL to rewrite every row and hold an ACCESS EXCLUSIVE lock for the duration; only a narrow set of widening casts are rewrite-free.",
}})

type pgm007Rule struct{ baseRule }

func (r pgm007Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		at, ok := s.Node.(ir.AlterTable)
		if !ok || !ctx.PreExisting(at.Name) {
			continue
		}
		for _, action := range at.Actions {
			act, ok := action.(ir.AlterColumnTypeAction)
			if !ok || act.Old == nil {
				continue
			}
			if IsSafeCast(*act.Old, act.New) {
				continue
			}
			msg := fmt.Sprintf("%s.%s type change %s -> %s requires a rewrite", at.Name, act.Column, act.Old.Name, act.New.Name)
			if IsTimestampWideningCast(*act.Old, act.New) {
				out = append(out, findingAt(r, Info, s, ctx.File, msg))
				continue
			}
			out = append(out, finding(r, s, ctx.File, msg))
		}
	}
	return out
}

var pgm008 = register(pgm008Rule{baseRule{
	id: "PGM008", severity: Major,
	description: "ADD COLUMN NOT NULL without a DEFAULT on an existing table",
	explain:     "Adding a NOT NULL column with no default requires a value for every existing row, which PostgreSQL cannot produce and rejects outright unless a default is supplied.",
}})

type pgm008Rule struct{ baseRule }

func (r pgm008Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		at, ok := s.Node.(ir.AlterTable)
		if !ok || !ctx.PreExisting(at.Name) {
			continue
		}
		for _, action := range at.Actions {
			ac, ok := action.(ir.AddColumnAction)
			if !ok || ac.Column.Null || ac.Column.Default != nil {
				continue
			}
			out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s.%s added NOT NULL without a DEFAULT", at.Name, ac.Column.Name)))
		}
	}
	return out
}

var pgm009 = register(pgm009Rule{baseRule{
	id: "PGM009", severity: Minor,
	description: "DROP COLUMN on an existing table",
	explain:     "Dropping a column is irreversible once the migration runs; any application code or report still reading it breaks immediately.",
}})

type pgm009Rule struct{ baseRule }

func (r pgm009Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	var out []Finding
	for _, s := range stmts {
		at, ok := s.Node.(ir.AlterTable)
		if !ok || !ctx.PreExisting(at.Name) {
			continue
		}
		for _, action := range at.Actions {
			if dc, ok := action.(ir.DropColumnAction); ok {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s.%s dropped", at.Name, dc.Column)))
			}
		}
	}
	return out
}

var pgm010 = register(pgm010Rule{baseRule{
	id: "PGM010", severity: Major,
	description: "DROP COLUMN removes a column used by a UNIQUE constraint",
	explain:     "Dropping a column that backs a UNIQUE constraint silently drops the constraint along with it.",
}})

type pgm010Rule struct{ baseRule }

func (r pgm010Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	return checkDropColumnMember(pgm010, stmts, ctx, func(t *ir.AlterTable, before *lintBeforeTable, col string) bool {
		for _, c := range before.Constraints {
			if uc, ok := c.(ir.UniqueConstraint); ok && containsCol(uc.Columns, col) {
				return true
			}
		}
		return false
	}, "is part of a UNIQUE constraint")
}

var pgm011 = register(pgm011Rule{baseRule{
	id: "PGM011", severity: Critical,
	description: "DROP COLUMN removes a column used by the primary key",
	explain:     "Dropping a primary key column silently drops the primary key along with it.",
}})

type pgm011Rule struct{ baseRule }

func (r pgm011Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	return checkDropColumnMember(pgm011, stmts, ctx, func(t *ir.AlterTable, before *lintBeforeTable, col string) bool {
		for _, c := range before.Constraints {
			if pk, ok := c.(ir.PrimaryKeyConstraint); ok && containsCol(pk.Columns, col) {
				return true
			}
		}
		return false
	}, "is part of the primary key")
}

var pgm012 = register(pgm012Rule{baseRule{
	id: "PGM012", severity: Major,
	description: "DROP COLUMN removes a column used by a FOREIGN KEY constraint",
	explain:     "Dropping a column referenced by a foreign key constraint silently drops the constraint along with it.",
}})

type pgm012Rule struct{ baseRule }

func (r pgm012Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	return checkDropColumnMember(pgm012, stmts, ctx, func(t *ir.AlterTable, before *lintBeforeTable, col string) bool {
		for _, c := range before.Constraints {
			if fk, ok := c.(ir.ForeignKeyConstraint); ok && containsCol(fk.Columns, col) {
				return true
			}
		}
		return false
	}, "is part of a FOREIGN KEY constraint")
}

// lintBeforeTable is the shape PGM010-012 need from the pre-existing
// catalog: just the constraint list of the table being altered.
type lintBeforeTable struct {
	Constraints []ir.TableConstraint
}

func checkDropColumnMember(r Rule, stmts []ir.Located[ir.IrNode], ctx *LintContext, matches func(*ir.AlterTable, *lintBeforeTable, string) bool, suffix string) []Finding {
	var out []Finding
	for _, s := range stmts {
		at, ok := s.Node.(ir.AlterTable)
		if !ok || !ctx.PreExisting(at.Name) {
			continue
		}
		table := ctx.CatalogBefore.GetTable(at.Name)
		if table == nil {
			continue
		}
		before := &lintBeforeTable{Constraints: table.Constraints}
		for _, action := range at.Actions {
			dc, ok := action.(ir.DropColumnAction)
			if !ok {
				continue
			}
			if matches(&at, before, dc.Column) {
				out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s.%s %s", at.Name, dc.Column, suffix)))
			}
		}
	}
	return out
}

func containsCol(cols []string, col string) bool {
	for _, c := range cols {
		if c == col {
			return true
		}
	}
	return false
}

var pgm014 = register(pgm014Rule{baseRule{
	id: "PGM014", severity: Major,
	description: "ADD CONSTRAINT ... FOREIGN KEY without NOT VALID on an existing table",
	explain:     "Adding a foreign key without NOT VALID forces PostgreSQL to scan and validate every existing row under the new constraint's lock before the statement completes; ADD ... NOT VALID followed by a later VALIDATE CONSTRAINT does the same check without holding the lock the whole time.",
}})

type pgm014Rule struct{ baseRule }

func (r pgm014Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	return checkAddConstraintNotValid(pgm014, stmts, ctx, func(c ir.TableConstraint) bool {
		_, ok := c.(ir.ForeignKeyConstraint)
		return ok
	})
}

var pgm015 = register(pgm015Rule{baseRule{
	id: "PGM015", severity: Major,
	description: "ADD CONSTRAINT ... CHECK without NOT VALID on an existing table",
	explain:     "Adding a CHECK constraint without NOT VALID forces a full-table validation scan under lock.",
}})

type pgm015Rule struct{ baseRule }

func (r pgm015Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	return checkAddConstraintNotValid(pgm015, stmts, ctx, func(c ir.TableConstraint) bool {
		_, ok := c.(ir.CheckConstraint)
		return ok
	})
}

func checkAddConstraintNotValid(r Rule, stmts []ir.Located[ir.IrNode], ctx *LintContext, matches func(ir.TableConstraint) bool) []Finding {
	var out []Finding
	for _, s := range stmts {
		at, ok := s.Node.(ir.AlterTable)
		if !ok || !ctx.PreExisting(at.Name) {
			continue
		}
		for _, action := range at.Actions {
			ac, ok := action.(ir.AddConstraintAction)
			if !ok || ac.NotValid || !matches(ac.Constraint) {
				continue
			}
			out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s ADD CONSTRAINT %s without NOT VALID", at.Name, ac.Name)))
		}
	}
	return out
}

var pgm016 = register(pgm016Rule{baseRule{
	id: "PGM016", severity: Major,
	description: "ADD PRIMARY KEY without USING INDEX on an existing table",
	explain:     "Adding a primary key builds a new unique index and holds an ACCESS EXCLUSIVE lock for the scan; ADD CONSTRAINT ... PRIMARY KEY USING INDEX attaches a pre-built CONCURRENTLY-created index instead.",
}})

type pgm016Rule struct{ baseRule }

func (r pgm016Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
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
			pk, ok := ac.Constraint.(ir.PrimaryKeyConstraint)
			if !ok || pk.UsingIndex {
				continue
			}
			out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s ADD PRIMARY KEY without USING INDEX", at.Name)))
		}
	}
	return out
}

var pgm017 = register(pgm017Rule{baseRule{
	id: "PGM017", severity: Major,
	description: "ADD CONSTRAINT ... UNIQUE without USING INDEX on an existing table",
	explain:     "Adding a UNIQUE constraint builds a new unique index under lock unless it is attached to a pre-built one with USING INDEX.",
}})

type pgm017Rule struct{ baseRule }

func (r pgm017Rule) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
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
			uc, ok := ac.Constraint.(ir.UniqueConstraint)
			if !ok || uc.UsingIndex {
				continue
			}
			out = append(out, finding(r, s, ctx.File, fmt.Sprintf("%s ADD CONSTRAINT %s UNIQUE without USING INDEX", at.Name, ac.Name)))
		}
	}
	return out
}
