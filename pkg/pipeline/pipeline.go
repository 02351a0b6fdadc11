// SPDX-License-Identifier: Apache-2.0

// Package pipeline wires loader -> replay -> suppression -> down-migration
// cap -> sorted findings, the glue spec.md calls "the pipeline" in
// §4.5/§4.6; handing the findings to a reporter is left to the caller. It
// owns the two findings-level post-processing steps the rule engine
// deliberately does not do itself: dropping suppressed findings and
// capping down-migration severity to Info.
package pipeline

import (
	"os"

	"github.com/pgmlint/pgmlint/pkg/ir"
	"github.com/pgmlint/pgmlint/pkg/lintconfig"
	"github.com/pgmlint/pgmlint/pkg/lintlog"
	"github.com/pgmlint/pgmlint/pkg/loader"
	"github.com/pgmlint/pgmlint/pkg/replay"
	"github.com/pgmlint/pgmlint/pkg/report"
	"github.com/pgmlint/pgmlint/pkg/rules"
	"github.com/pgmlint/pgmlint/pkg/suppress"
)

// Pipeline runs the full lint: load migration units, replay them
// against a catalog, run the rule engine, then post-process findings.
type Pipeline struct {
	Config lintconfig.Config
	Log    lintlog.Logger
}

// New returns a Pipeline configured by cfg, logging through log. A nil
// log is replaced with a no-op logger.
func New(cfg lintconfig.Config, log lintlog.Logger) *Pipeline {
	if log == nil {
		log = lintlog.NewNoopLogger()
	}
	return &Pipeline{Config: cfg, Log: log}
}

// Run loads paths, replays them, lints, and returns a fully
// post-processed, sorted finding list.
func (p *Pipeline) Run(paths []string) ([]report.Finding, error) {
	ld, err := p.selectLoader()
	if err != nil {
		return nil, err
	}

	history, err := ld.Load(paths)
	if err != nil {
		return nil, err
	}

	activeRules, err := lintconfig.Apply(p.Config)
	if err != nil {
		return nil, err
	}

	directives := p.scanSuppressions(history.Units)

	engine := replay.NewEngineWithRules(p.Log, activeRules)
	findings := engine.Run(history.Units, nil)

	findings = p.postProcess(findings, history.Units, directives)
	report.Sort(findings)
	return findings, nil
}

func (p *Pipeline) selectLoader() (loader.Loader, error) {
	switch p.Config.Strategy {
	case lintconfig.StrategyBridge:
		return loader.NewLiquibaseLoader(p.Config.LiquibaseHelperPath)
	default:
		return &loader.RawSQLLoader{RunInTransactionDefault: p.Config.RunInTransactionDefault}, nil
	}
}

// scanSuppressions reads each distinct source file referenced by units
// and scans its raw text for suppression directives. Liquibase units
// share a changelog file across changesets, so each file is scanned
// once regardless of how many units reference it.
func (p *Pipeline) scanSuppressions(units []ir.MigrationUnit) map[string]suppress.Directives {
	out := map[string]suppress.Directives{}
	for _, u := range units {
		if _, ok := out[u.SourceFile]; ok {
			continue
		}
		raw, err := os.ReadFile(u.SourceFile)
		if err != nil {
			// A Liquibase unit's source_file is relative to the changelog
			// directory and may not be independently readable; an unreadable
			// file simply yields no suppression directives rather than
			// aborting the run, since suppression is advisory.
			out[u.SourceFile] = suppress.Directives{}
			continue
		}
		out[u.SourceFile] = suppress.Scan(string(raw))
	}
	return out
}

// downMigrationFiles reports which files come from an is_down unit, so
// the severity cap applies per-file.
func downMigrationFiles(units []ir.MigrationUnit) map[string]bool {
	down := map[string]bool{}
	for _, u := range units {
		if u.IsDown {
			down[u.SourceFile] = true
		}
	}
	return down
}

func (p *Pipeline) postProcess(findings []report.Finding, units []ir.MigrationUnit, directives map[string]suppress.Directives) []report.Finding {
	down := downMigrationFiles(units)

	out := make([]report.Finding, 0, len(findings))
	for _, f := range findings {
		if d, ok := directives[f.File]; ok && d.Suppressed(f.RuleID, f.StartLine) {
			continue
		}
		if down[f.File] {
			f.Severity = f.Severity.Cap(rules.Info)
		}
		out = append(out, f)
	}
	return out
}
