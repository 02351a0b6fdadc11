// SPDX-License-Identifier: Apache-2.0

package sqlir

import (
	"regexp"
	"strings"

	"github.com/pgmlint/pgmlint/pkg/ir"
)

// tableHintPattern looks for the first `ON name`, `INTO name`, `TABLE
// name`, `UPDATE name` or `FROM name` token sequence in an opaque
// statement's raw text. It is a best
// effort only: a DO block or trigger body can reference any number of
// tables, or none, and this only ever surfaces one.
var tableHintPattern = regexp.MustCompile(`(?is)\b(?:ON|INTO|TABLE|UPDATE|FROM)\s+(?:ONLY\s+)?("?[a-zA-Z_][\w$]*"?(?:\s*\.\s*"?[a-zA-Z_][\w$]*"?)?)`)

// scanTableHint returns a best-effort guess at the table an unparseable
// statement touches, for marking that table `incomplete` in the catalog.
func scanTableHint(raw string) *ir.QualifiedName {
	m := tableHintPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}

	parts := strings.Split(m[1], ".")
	for i := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(parts[i]), `"`)
	}

	var q ir.QualifiedName
	switch len(parts) {
	case 1:
		q = ir.NewQualifiedName("", parts[0])
	case 2:
		q = ir.NewQualifiedName(parts[0], parts[1])
	default:
		return nil
	}
	return &q
}
