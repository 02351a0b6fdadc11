// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"sort"

	"github.com/pgmlint/pgmlint/pkg/catalog"
	"github.com/pgmlint/pgmlint/pkg/ir"
)

// PostFileRule is implemented by rules that inspect the catalog's final
// state for an entire file rather than any single unit's statements.
// PGM501-503 need every unit in the file replayed first: a foreign key
// added in one unit can be covered by an index added in a later one, so
// there is no single unit whose Check call could decide the finding.
type PostFileRule interface {
	Rule
	CheckFile(cat *catalog.Catalog, file string) []Finding
}

var pgm501 = register(pgm501Rule{baseRule{
	id: "PGM501", severity: Major,
	description: "foreign key column has no covering index",
	explain:     "PostgreSQL does not automatically index the referencing side of a foreign key; without one, deleting or updating a row on the referenced side takes a lock scanning the whole referencing table to check for dependents.",
}})

type pgm501Rule struct{ baseRule }

func (r pgm501Rule) Check(_ []ir.Located[ir.IrNode], _ *LintContext) []Finding { return nil }

func (r pgm501Rule) CheckFile(cat *catalog.Catalog, file string) []Finding {
	var out []Finding
	for _, t := range sortedTables(cat) {
		for _, c := range t.Constraints {
			fk, ok := c.(ir.ForeignKeyConstraint)
			if !ok {
				continue
			}
			if !t.HasCoveringIndex(fk.Columns) {
				out = append(out, fileFinding(r, file, fmt.Sprintf("%s foreign key %s has no covering index on %v", t.Name, fk.Name, fk.Columns)))
			}
		}
	}
	return out
}

var pgm502 = register(pgm502Rule{baseRule{
	id: "PGM502", severity: Major,
	description: "table has no primary key and no fully-not-null unique constraint",
	explain:     "A table with neither a primary key nor an all-NOT-NULL unique constraint cannot be safely referenced by a foreign key and complicates replication and upsert tooling that assumes row identity.",
}})

type pgm502Rule struct{ baseRule }

func (r pgm502Rule) Check(_ []ir.Located[ir.IrNode], _ *LintContext) []Finding { return nil }

func (r pgm502Rule) CheckFile(cat *catalog.Catalog, file string) []Finding {
	var out []Finding
	for _, t := range sortedTables(cat) {
		if t.Temporary || t.HasPrimaryKey || t.HasUniqueNotNull() {
			continue
		}
		out = append(out, fileFinding(r, file, fmt.Sprintf("%s has no primary key and no fully NOT NULL unique constraint", t.Name)))
	}
	return out
}

var pgm503 = register(pgm503Rule{baseRule{
	id: "PGM503", severity: Minor,
	description: "table has no primary key but relies on a fully-not-null unique constraint",
	explain:     "A NOT NULL unique constraint can serve as a row identity in place of a primary key, but an explicit primary key documents intent and is required by some replication and ORM tooling.",
}})

type pgm503Rule struct{ baseRule }

func (r pgm503Rule) Check(_ []ir.Located[ir.IrNode], _ *LintContext) []Finding { return nil }

func (r pgm503Rule) CheckFile(cat *catalog.Catalog, file string) []Finding {
	var out []Finding
	for _, t := range sortedTables(cat) {
		if t.Temporary || t.HasPrimaryKey || !t.HasUniqueNotNull() {
			continue
		}
		out = append(out, fileFinding(r, file, fmt.Sprintf("%s has no primary key but has a fully NOT NULL unique constraint", t.Name)))
	}
	return out
}

// sortedTables returns the catalog's tables ordered by name, since
// Catalog.Tables iterates a map and post-file findings must be
// deterministic for stable sort and golden-output tests.
func sortedTables(cat *catalog.Catalog) []*catalog.TableState {
	tables := cat.Tables()
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name.String() < tables[j].Name.String() })
	return tables
}

func fileFinding(r Rule, file, message string) Finding {
	return Finding{
		RuleID:   r.ID(),
		Severity: r.DefaultSeverity(),
		Message:  message,
		File:     file,
	}
}
