// SPDX-License-Identifier: Apache-2.0

package rules

import "github.com/pgmlint/pgmlint/pkg/ir"

// IsSafeCast reports whether a column's ALTER COLUMN TYPE change from old
// to next is one PostgreSQL performs without a table rewrite.
func IsSafeCast(old, next ir.TypeName) bool {
	switch {
	case old.Name == "varchar" && next.Name == "varchar":
		return modAt(next, 0) >= modAt(old, 0)
	case old.Name == "varchar" && next.Name == "text":
		return true
	case old.Name == "numeric" && next.Name == "numeric":
		return modAt(next, 0) >= modAt(old, 0) && modAt(next, 1) == modAt(old, 1)
	case old.Name == "varbit" && next.Name == "varbit":
		return modAt(next, 0) >= modAt(old, 0)
	default:
		return false
	}
}

// IsTimestampWideningCast reports the one safe-cast exception PGM007
// downgrades to Info rather than silencing entirely.
func IsTimestampWideningCast(old, next ir.TypeName) bool {
	return old.Name == "timestamp" && next.Name == "timestamptz"
}

func modAt(t ir.TypeName, i int) int {
	if i < len(t.Modifiers) {
		return t.Modifiers[i]
	}
	return 0
}
