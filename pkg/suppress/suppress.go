// SPDX-License-Identifier: Apache-2.0

// Package suppress scans raw SQL text for `pgm-lint:` directive comments
// before any parsing happens, the same "scan the text ahead of
// pg_query_go" idiom pkg/sqlir uses for table-hint recovery on opaque
// blocks.
package suppress

import "regexp"

// DownMigrationRuleID never suppresses: the down-migration severity cap
// is not a rule and cannot be disabled per-file or per-line.
const DownMigrationRuleID = "PGMdown"

var (
	lineComment  = regexp.MustCompile(`(?m)--[^\n]*`)
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)

	suppressFileDirective = regexp.MustCompile(`pgm-lint:suppress-file\s+(PGM\d+(?:\s*,\s*PGM\d+)*)`)
	suppressLineDirective = regexp.MustCompile(`pgm-lint:suppress\s+(PGM\d+(?:\s*,\s*PGM\d+)*)`)
	idToken               = regexp.MustCompile(`PGM\d+`)
)

// Directives is the result of scanning one file's raw text: rule IDs
// suppressed for every statement in the file, plus rule IDs suppressed
// for an individual statement, keyed by that statement's start line.
type Directives struct {
	File      map[string]bool
	LineRules map[int]map[string]bool
}

// Suppressed reports whether ruleID is suppressed for a statement
// starting at line, by either a file-level or line-level directive.
func (d Directives) Suppressed(ruleID string, line int) bool {
	if ruleID == DownMigrationRuleID {
		return false
	}
	if d.File[ruleID] {
		return true
	}
	return d.LineRules[line][ruleID]
}

// comment is one `--` or block comment found in the source, with the
// physical line of text immediately following it (the line a line-level
// directive applies to).
type comment struct {
	text     string
	nextLine int
}

// Scan finds every suppression directive in sql and returns the combined
// Directives for the file. Line numbers are 1-based physical lines.
func Scan(sql string) Directives {
	d := Directives{File: map[string]bool{}, LineRules: map[int]map[string]bool{}}

	for _, c := range findComments(sql) {
		if m := suppressFileDirective.FindStringSubmatch(c.text); m != nil {
			for _, id := range idToken.FindAllString(m[1], -1) {
				d.File[id] = true
			}
			continue
		}
		if m := suppressLineDirective.FindStringSubmatch(c.text); m != nil {
			target := nextStatementLine(sql, c.nextLine)
			ids := d.LineRules[target]
			if ids == nil {
				ids = map[string]bool{}
				d.LineRules[target] = ids
			}
			for _, id := range idToken.FindAllString(m[1], -1) {
				ids[id] = true
			}
		}
	}

	return d
}

func findComments(sql string) []comment {
	var out []comment
	for _, span := range blockComment.FindAllStringIndex(sql, -1) {
		out = append(out, comment{text: sql[span[0]:span[1]], nextLine: lineAt(sql, span[1]) + 1})
	}
	for _, span := range lineComment.FindAllStringIndex(sql, -1) {
		out = append(out, comment{text: sql[span[0]:span[1]], nextLine: lineAt(sql, span[1]) + 1})
	}
	return out
}

// lineAt returns the 1-based physical line number of byte offset pos.
func lineAt(sql string, pos int) int {
	line := 1
	for i := 0; i < pos && i < len(sql); i++ {
		if sql[i] == '\n' {
			line++
		}
	}
	return line
}

// nextStatementLine walks forward from startLine to the first line that
// is neither blank nor entirely a comment, the line a line-level
// directive's target statement starts on.
func nextStatementLine(sql string, startLine int) int {
	lines := splitLinesKeepingNumbers(sql)
	for line := startLine; line <= len(lines); line++ {
		trimmed := trimSpace(lines[line-1])
		if trimmed == "" {
			continue
		}
		if hasPrefix(trimmed, "--") {
			continue
		}
		return line
	}
	return startLine
}

func splitLinesKeepingNumbers(sql string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] == '\n' {
			lines = append(lines, sql[start:i])
			start = i + 1
		}
	}
	lines = append(lines, sql[start:])
	return lines
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && isSpace(s[i]) {
		i++
	}
	for j > i && isSpace(s[j-1]) {
		j--
	}
	return s[i:j]
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' }

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
