// SPDX-License-Identifier: Apache-2.0

package replay

import (
	"github.com/pgmlint/pgmlint/pkg/catalog"
	"github.com/pgmlint/pgmlint/pkg/ir"
	"github.com/pgmlint/pgmlint/pkg/lintlog"
	"github.com/pgmlint/pgmlint/pkg/rules"
)

// Engine owns the live catalog across an entire migration history and
// drives the rule engine over it, one unit at a time.
type Engine struct {
	log   lintlog.Logger
	rules []rules.Rule
}

// NewEngine returns an Engine that logs through log and runs every rule
// in the package-level registry. A nil log is replaced with a no-op
// logger.
func NewEngine(log lintlog.Logger) *Engine {
	return NewEngineWithRules(log, rules.All)
}

// NewEngineWithRules returns an Engine restricted to activeRules (the
// result of pkg/lintconfig.Apply), so configured enabled/disabled lists
// and severity overrides take effect during replay.
func NewEngineWithRules(log lintlog.Logger, activeRules []rules.Rule) *Engine {
	if log == nil {
		log = lintlog.NewNoopLogger()
	}
	return &Engine{log: log, rules: activeRules}
}

// Run replays units in order against a single catalog, linting every
// unit whose SourceFile is in changed (nil means "lint every file").
// Findings are raw: down-migration capping and suppression filtering are
// the pipeline's job, not the engine's, per spec.md §4.5.
func (e *Engine) Run(units []ir.MigrationUnit, changed map[string]bool) []rules.Finding {
	cat := catalog.New()
	var findings []rules.Finding

	lastUnitForFile := map[string]int{}
	for i, u := range units {
		lastUnitForFile[u.SourceFile] = i
	}
	createdInFile := map[string]map[ir.QualifiedName]bool{}

	for i := range units {
		unit := &units[i]
		isChanged := changed == nil || changed[unit.SourceFile]

		if !isChanged {
			ApplyUnit(cat, unit)
			continue
		}

		before := cat.Clone()
		created := ApplyUnit(cat, unit)

		fileCreated := createdInFile[unit.SourceFile]
		if fileCreated == nil {
			fileCreated = map[ir.QualifiedName]bool{}
			createdInFile[unit.SourceFile] = fileCreated
		}
		for _, name := range created {
			fileCreated[name] = true
		}

		ctx := &rules.LintContext{
			CatalogBefore:         before,
			CatalogAfter:          cat,
			TablesCreatedInChange: fileCreated,
			RunInTransaction:      unit.RunInTransaction,
			IsDown:                unit.IsDown,
			File:                  unit.SourceFile,
		}

		e.log.Debug("linting unit", "file", unit.SourceFile, "unit", unit.ID)
		for _, rule := range e.rules {
			found := rule.Check(unit.Statements, ctx)
			if len(found) > 0 {
				e.log.Debug("rule fired", "rule_id", rule.ID(), "file", unit.SourceFile, "count", len(found))
			}
			findings = append(findings, found...)
		}

		if lastUnitForFile[unit.SourceFile] == i {
			for _, rule := range e.rules {
				pf, ok := rule.(rules.PostFileRule)
				if !ok {
					continue
				}
				findings = append(findings, pf.CheckFile(cat, unit.SourceFile)...)
			}
		}
	}

	return findings
}
