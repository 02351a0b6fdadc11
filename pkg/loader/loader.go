// SPDX-License-Identifier: Apache-2.0

// Package loader is the migration-input contract (C8): text → ordered
// MigrationHistory. Two concrete loaders ship here, a raw SQL loader that
// runs in-process and a Liquibase loader that shells out to an external
// helper, grounded on the teacher's cmd/sql-folder.go folder-walking
// idiom and migrations_test.go's filesystem fixture layout.
package loader

import "github.com/pgmlint/pgmlint/pkg/ir"

// MigrationHistory is the ordered sequence of units a Loader produced.
type MigrationHistory struct {
	Units []ir.MigrationUnit
}

// ErrorKind classifies a LoadError per spec.md §7.
type ErrorKind int

const (
	Io ErrorKind = iota
	Parse
	BridgeError
	Config
)

func (k ErrorKind) String() string {
	switch k {
	case Io:
		return "Io"
	case Parse:
		return "Parse"
	case BridgeError:
		return "BridgeError"
	case Config:
		return "Config"
	default:
		return "Io"
	}
}

// LoadError is the error type every Loader returns on failure. Loader
// errors abort the run; they are never per-statement parse failures
// (those become ir.Unparseable nodes instead).
type LoadError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Path + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader is the contract every migration input source implements.
type Loader interface {
	Load(paths []string) (MigrationHistory, error)
}
