// SPDX-License-Identifier: Apache-2.0

// Package ir defines the simplified SQL intermediate representation that
// the rule engine consumes. The IR intentionally drops anything rules do
// not use: it is not a faithful PostgreSQL AST.
package ir

import "strings"

// DefaultSchema is the schema an unqualified name normalizes to.
const DefaultSchema = "public"

// QualifiedName is a schema-qualified, lowercased object name. Two
// QualifiedNames are equal iff both components match exactly.
type QualifiedName struct {
	Schema string
	Name   string
}

// NewQualifiedName builds a QualifiedName from a possibly-empty schema and
// a bare name, lowercasing both and defaulting an empty schema to "public".
func NewQualifiedName(schema, name string) QualifiedName {
	schema = strings.ToLower(strings.TrimSpace(schema))
	if schema == "" {
		schema = DefaultSchema
	}
	return QualifiedName{Schema: schema, Name: strings.ToLower(strings.TrimSpace(name))}
}

// String renders the qualified name as "schema.name".
func (q QualifiedName) String() string {
	return q.Schema + "." + q.Name
}

// IsZero reports whether q is the zero value (no name set).
func (q QualifiedName) IsZero() bool {
	return q.Schema == "" && q.Name == ""
}
