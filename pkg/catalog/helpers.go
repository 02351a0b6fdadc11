// SPDX-License-Identifier: Apache-2.0

package catalog

import "github.com/pgmlint/pgmlint/pkg/ir"

// HasCoveringIndex reports whether t has any btree-like index whose
// column sequence begins with fkColumns in the same order. Non-btree
// access methods (hash, gin, gist, brin, spgist) never qualify, since
// they cannot serve the equality lookups PostgreSQL issues for FK checks.
func (t *TableState) HasCoveringIndex(fkColumns []string) bool {
	for _, idx := range t.Indexes {
		if !idx.IsBtreeLike() {
			continue
		}
		if coversPrefix(idx.Columns, fkColumns) {
			return true
		}
	}
	return false
}

func coversPrefix(indexCols, fkCols []string) bool {
	if len(indexCols) < len(fkCols) {
		return false
	}
	for i, col := range fkCols {
		if indexCols[i] != col {
			return false
		}
	}
	return true
}

// HasUniqueNotNull reports whether t has a UNIQUE constraint every one
// of whose columns is currently NOT NULL.
func (t *TableState) HasUniqueNotNull() bool {
	for _, c := range t.Constraints {
		uc, ok := c.(ir.UniqueConstraint)
		if !ok {
			continue
		}
		allNotNull := true
		for _, colName := range uc.Columns {
			col := t.GetColumn(colName)
			if col == nil || col.Nullable {
				allNotNull = false
				break
			}
		}
		if allNotNull && len(uc.Columns) > 0 {
			return true
		}
	}
	return false
}
