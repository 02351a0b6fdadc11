// SPDX-License-Identifier: Apache-2.0

// Package rules is the rule engine (C6): a flat registry of checks, each
// implementing a single uniform capability (check), plus the shared
// helpers the checks lean on (pre-existing lookups, the safe-cast table,
// covering-index matching).
package rules

import (
	"github.com/pgmlint/pgmlint/pkg/catalog"
	"github.com/pgmlint/pgmlint/pkg/ir"
)

// Severity is a finding's urgency, ordered low to high so a down-migration
// cap can be expressed as a min().
type Severity int

const (
	Info Severity = iota
	Minor
	Major
	Critical
	Blocker
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "Info"
	case Minor:
		return "Minor"
	case Major:
		return "Major"
	case Critical:
		return "Critical"
	case Blocker:
		return "Blocker"
	default:
		return "Info"
	}
}

// Cap returns the lower of s and max.
func (s Severity) Cap(max Severity) Severity {
	if s > max {
		return max
	}
	return s
}

// Finding is one diagnostic, identified by the rule that raised it and
// located against the migration source it came from.
type Finding struct {
	RuleID    string
	Severity  Severity
	Message   string
	File      string
	StartLine int
	EndLine   int
}

// LintContext carries everything a rule's Check needs beyond the
// statements of the unit it is being invoked for.
type LintContext struct {
	CatalogBefore *catalog.Catalog
	CatalogAfter  *catalog.Catalog

	// TablesCreatedInChange accumulates every table created by a
	// CreateTable in the current file's changed units, across the whole
	// file — not just the current unit. A table in this set is "same-file
	// new" even if a later unit in the same file references it.
	TablesCreatedInChange map[ir.QualifiedName]bool

	RunInTransaction bool
	IsDown           bool
	File             string
}

// PreExisting reports whether name is present in CatalogBefore and was
// not created earlier in the same file's changed units.
func (c *LintContext) PreExisting(name ir.QualifiedName) bool {
	return c.CatalogBefore.Exists(name) && !c.TablesCreatedInChange[name]
}

// SameFileNew reports whether name was created by an earlier (or the
// current) unit in this file.
func (c *LintContext) SameFileNew(name ir.QualifiedName) bool {
	return c.TablesCreatedInChange[name]
}

// Rule is the uniform capability every check implements. Identity is by
// stable string ID; dispatch is the single Check entry point.
type Rule interface {
	ID() string
	DefaultSeverity() Severity
	Description() string
	Explain() string
	Check(statements []ir.Located[ir.IrNode], ctx *LintContext) []Finding
}

// baseRule factors the four static fields every concrete rule carries, so
// each rule type only implements Check.
type baseRule struct {
	id          string
	severity    Severity
	description string
	explain     string
}

func (r baseRule) ID() string              { return r.id }
func (r baseRule) DefaultSeverity() Severity { return r.severity }
func (r baseRule) Description() string     { return r.description }
func (r baseRule) Explain() string         { return r.explain }

// All is the flat registry of every rule this package ships, in
// registration order (package initialization order), not sorted by ID.
// The pipeline filters this list against configured enabled/disabled
// rules and per-rule severity overrides before running it.
var All []Rule

func register(r Rule) Rule {
	All = append(All, r)
	return r
}

// ByID returns the rule with the given ID, or nil.
func ByID(id string) Rule {
	for _, r := range All {
		if r.ID() == id {
			return r
		}
	}
	return nil
}

// severityOverride wraps a Rule so every finding it produces, and its
// DefaultSeverity, report a configured severity instead of the rule's
// own default — including findings a rule downgrades internally (e.g.
// PGM006/PGM007's Info-for-uncertain cases), since a configured
// override is a blanket policy decision, not a per-finding nuance.
type severityOverride struct {
	Rule
	severity Severity
}

func (s severityOverride) DefaultSeverity() Severity { return s.severity }

func (s severityOverride) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	return rewriteSeverity(s.Rule.Check(stmts, ctx), s.severity)
}

// postFileSeverityOverride is severityOverride for a rule that also
// implements PostFileRule, so the override survives a type assertion
// back to PostFileRule in the replay engine.
type postFileSeverityOverride struct {
	PostFileRule
	severity Severity
}

func (s postFileSeverityOverride) DefaultSeverity() Severity { return s.severity }

func (s postFileSeverityOverride) Check(stmts []ir.Located[ir.IrNode], ctx *LintContext) []Finding {
	return rewriteSeverity(s.PostFileRule.Check(stmts, ctx), s.severity)
}

func (s postFileSeverityOverride) CheckFile(cat *catalog.Catalog, file string) []Finding {
	return rewriteSeverity(s.PostFileRule.CheckFile(cat, file), s.severity)
}

func rewriteSeverity(findings []Finding, sev Severity) []Finding {
	for i := range findings {
		findings[i].Severity = sev
	}
	return findings
}

// WithSeverity returns r with its DefaultSeverity, and the severity of
// every finding it produces, replaced by sev. If r implements
// PostFileRule, the returned value does too.
func WithSeverity(r Rule, sev Severity) Rule {
	if pf, ok := r.(PostFileRule); ok {
		return postFileSeverityOverride{PostFileRule: pf, severity: sev}
	}
	return severityOverride{Rule: r, severity: sev}
}

func finding(r Rule, stmt ir.Located[ir.IrNode], file, message string) Finding {
	return Finding{
		RuleID:    r.ID(),
		Severity:  r.DefaultSeverity(),
		Message:   message,
		File:      file,
		StartLine: stmt.Span.StartLine,
		EndLine:   stmt.Span.EndLine,
	}
}

func findingAt(r Rule, sev Severity, stmt ir.Located[ir.IrNode], file, message string) Finding {
	return Finding{
		RuleID:    r.ID(),
		Severity:  sev,
		Message:   message,
		File:      file,
		StartLine: stmt.Span.StartLine,
		EndLine:   stmt.Span.EndLine,
	}
}
