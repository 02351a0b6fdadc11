// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"
)

const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// SARIFReporter emits a minimal SARIF 2.1.0 log: one run, one tool
// driver, one result per finding.
type SARIFReporter struct {
	Writer io.Writer
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID string `json:"id"`
}

type sarifResult struct {
	RuleID    string           `json:"ruleId"`
	Level     string           `json:"level"`
	Message   sarifMessage     `json:"message"`
	Locations []sarifResultLoc `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResultLoc struct {
	PhysicalLocation sarifPhysicalLoc `json:"physicalLocation"`
}

type sarifPhysicalLoc struct {
	ArtifactLocation sarifArtifactLoc `json:"artifactLocation"`
	Region           *sarifRegion      `json:"region,omitempty"`
}

type sarifArtifactLoc struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine,omitempty"`
}

// sarifLevel maps a Severity to SARIF's three-level scale: note,
// warning, error. Info is a note; Minor/Major are warnings; Critical
// and Blocker are errors.
func sarifLevel(s Severity) string {
	switch {
	case s <= 0:
		return "note"
	case s <= 2:
		return "warning"
	default:
		return "error"
	}
}

func (r SARIFReporter) Emit(findings []Finding, outputDir string) error {
	w, closeFn, err := destination(r.Writer, outputDir, "pgmlint.sarif")
	if err != nil {
		return err
	}
	defer closeFn()

	seenRules := map[string]bool{}
	var rules []sarifRule
	results := make([]sarifResult, 0, len(findings))

	for _, f := range findings {
		if !seenRules[f.RuleID] {
			seenRules[f.RuleID] = true
			rules = append(rules, sarifRule{ID: f.RuleID})
		}

		loc := sarifPhysicalLoc{ArtifactLocation: sarifArtifactLoc{URI: f.File}}
		if f.StartLine != 0 {
			loc.Region = &sarifRegion{StartLine: f.StartLine, EndLine: f.EndLine}
		}
		results = append(results, sarifResult{
			RuleID:    f.RuleID,
			Level:     sarifLevel(f.Severity),
			Message:   sarifMessage{Text: f.Message},
			Locations: []sarifResultLoc{{PhysicalLocation: loc}},
		})
	}

	log := sarifLog{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: "pgmlint", Rules: rules}},
			Results: results,
		}},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(log); err != nil {
		return fmt.Errorf("encode sarif report: %w", err)
	}
	return nil
}
