// SPDX-License-Identifier: Apache-2.0

package ir

// MigrationUnit is one migration: a raw SQL file, a go-migrate up/down
// file, or a Liquibase changeset.
type MigrationUnit struct {
	// ID is the changeset id (Liquibase) or filename (raw SQL/go-migrate).
	ID string

	Statements []Located[IrNode]

	// SourceFile is the path the unit's statements are reported against.
	SourceFile string

	// SourceLineOffset is the physical line in SourceFile that statement
	// spans are relative to: 1 for raw SQL, the <changeSet> line for
	// Liquibase.
	SourceLineOffset int

	RunInTransaction bool

	// IsDown is derived by filename suffix for raw SQL/go-migrate units
	// and is always false for Liquibase changesets (rollback blocks are
	// not surfaced as down-migrations).
	IsDown bool
}
