// SPDX-License-Identifier: Apache-2.0

package ir

// AlterTableAction is one command of a (possibly multi-command) ALTER
// TABLE statement.
type AlterTableAction interface {
	alterTableAction()
}

// AddColumnAction is `ADD COLUMN col ...`.
type AddColumnAction struct {
	Column ColumnDef
}

// DropColumnAction is `DROP COLUMN col [CASCADE]`.
type DropColumnAction struct {
	Column  string
	Cascade bool
}

// AddConstraintAction is `ADD CONSTRAINT name ...`.
type AddConstraintAction struct {
	Name       string
	Constraint TableConstraint
	NotValid   bool
}

// AlterColumnTypeAction is `ALTER COLUMN col SET DATA TYPE newtype`. Old
// is populated by the replay engine from the pre-existing catalog state
// when the column's previous type is known.
type AlterColumnTypeAction struct {
	Column string
	New    TypeName
	Old    *TypeName
}

// OtherActionKind discriminates the catalog-mutating or rule-relevant
// ALTER TABLE subcommands that don't warrant their own AlterTableAction
// type, per spec.md §4.3's "modeled for completeness" list.
type OtherActionKind int

const (
	OtherActionUnknown OtherActionKind = iota
	SetNotNull
	DropNotNull
	SetDefault
	DropDefault
	ValidateConstraint
	DropConstraint
	RenameTableTo
	RenameColumn
	DetachPartition
	AttachPartition
	DisableTrigger
)

// OtherAction carries an ALTER TABLE subcommand that doesn't fit the
// other AlterTableAction shapes, discriminated by Kind.
type OtherAction struct {
	Kind OtherActionKind

	Column  string // SetNotNull/DropNotNull/SetDefault/DropDefault/RenameColumn (from)
	NewName string // RenameTableTo (new table name), RenameColumn (to), ValidateConstraint/DropConstraint (constraint name)
	Default *DefaultExpr

	Partition  *QualifiedName // AttachPartition: the child being attached
	Concurrent bool           // DetachPartition: CONCURRENTLY present

	Raw string
}

func (AddColumnAction) alterTableAction()      {}
func (DropColumnAction) alterTableAction()     {}
func (AddConstraintAction) alterTableAction()  {}
func (AlterColumnTypeAction) alterTableAction() {}
func (OtherAction) alterTableAction()          {}
