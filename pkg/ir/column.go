// SPDX-License-Identifier: Apache-2.0

package ir

import "github.com/oapi-codegen/nullable"

// TypeName is a lowercased base type name plus its integer modifiers, e.g.
// `varchar(100)` -> {"varchar", [100]}, `numeric(10,2)` -> {"numeric",
// [10,2]}, `varchar` (no modifier) -> {"varchar", nil}.
type TypeName struct {
	Name      string
	Modifiers []int
}

// ColumnDef is a column as it appears in a CREATE TABLE or ADD COLUMN.
type ColumnDef struct {
	Name    string
	Type    TypeName
	Null    bool // true unless an inline NOT NULL constraint was present
	Default *DefaultExpr

	// IsPrimaryKey and IsUnique record inline column constraints
	// (`id bigint PRIMARY KEY`, `email text UNIQUE`).
	IsPrimaryKey bool
	IsUnique     bool

	// References records an inline `REFERENCES table(col)` constraint.
	References *InlineReference
}

// InlineReference is an inline foreign key on a single column.
type InlineReference struct {
	Table   QualifiedName
	Columns []string
}

// IndexColumn is one column of an index's key, in declared order.
type IndexColumn struct {
	Name string
}

// DefaultExpr is the closed set of shapes a column default can take.
type DefaultExpr interface {
	defaultExpr()
}

// LiteralDefault is a constant default (`DEFAULT 0`, `DEFAULT 'x'`). Value
// is null when the default is the literal `DEFAULT NULL`, distinct from
// ColumnDef.Default itself being nil ("no DEFAULT clause at all").
type LiteralDefault struct {
	Value nullable.Nullable[string]
}

// NullLiteral is the IR shape for an explicit `DEFAULT NULL`.
func NullLiteral() LiteralDefault {
	return LiteralDefault{Value: nullable.NewNullNullable[string]()}
}

// ValueLiteral is the IR shape for a non-null literal default.
func ValueLiteral(v string) LiteralDefault {
	return LiteralDefault{Value: nullable.NewNullableWithValue(v)}
}

// FunctionCallDefault is `DEFAULT fn(args...)`, the shape the volatility
// oracle (PGM006) inspects.
type FunctionCallDefault struct {
	Name string
	Args []string
}

// OtherDefault is any default expression that is neither a bare literal
// nor a simple function call (e.g. an arithmetic expression).
type OtherDefault struct {
	Raw string
}

func (LiteralDefault) defaultExpr()      {}
func (FunctionCallDefault) defaultExpr() {}
func (OtherDefault) defaultExpr()        {}
