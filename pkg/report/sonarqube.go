// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// SonarQubeReporter emits the SonarQube generic issue import format:
// https://docs.sonarqube.org/latest/analysis/generic-issue/.
type SonarQubeReporter struct {
	Writer io.Writer
}

type sonarIssue struct {
	EngineID        string          `json:"engineId"`
	RuleID          string          `json:"ruleId"`
	Severity        string          `json:"severity"`
	Type            string          `json:"type"`
	PrimaryLocation sonarLocation   `json:"primaryLocation"`
	EffortMinutes   int             `json:"effortMinutes,omitempty"`
	SecondaryLocs   []sonarLocation `json:"secondaryLocations,omitempty"`
}

type sonarLocation struct {
	Message   string        `json:"message"`
	FilePath  string        `json:"filePath"`
	TextRange *sonarTextRng `json:"textRange,omitempty"`
}

type sonarTextRng struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine,omitempty"`
}

type sonarReport struct {
	Issues []sonarIssue `json:"issues"`
}

func (r SonarQubeReporter) Emit(findings []Finding, outputDir string) error {
	w, closeFn, err := destination(r.Writer, outputDir, "sonarqube.json")
	if err != nil {
		return err
	}
	defer closeFn()

	report := sonarReport{Issues: make([]sonarIssue, 0, len(findings))}
	for _, f := range findings {
		loc := sonarLocation{Message: f.Message, FilePath: f.File}
		if f.StartLine != 0 {
			loc.TextRange = &sonarTextRng{StartLine: f.StartLine, EndLine: f.EndLine}
		}
		report.Issues = append(report.Issues, sonarIssue{
			EngineID:        "pgmlint",
			RuleID:          f.RuleID,
			Severity:        sonarSeverity(f.Severity),
			Type:            "CODE_SMELL",
			PrimaryLocation: loc,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode sonarqube report: %w", err)
	}
	return nil
}
