// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pgmlint/pgmlint/pkg/ir"
	"github.com/pgmlint/pgmlint/pkg/sqlir"
)

// stdinPath is the conventional path naming stdin-piped raw SQL, go-migrate
// and most Unix filter tools' own convention for "read from stdin instead
// of a named file."
const stdinPath = "-"

// RawSQLLoader loads one MigrationUnit per .sql file, go-migrate style.
type RawSQLLoader struct {
	// RunInTransactionDefault is used for every unit unless a future
	// config layer overrides it per-file; per spec.md §6 this defaults
	// to true.
	RunInTransactionDefault bool
}

// NewRawSQLLoader returns a RawSQLLoader with run_in_transaction_default
// set to true, the raw SQL loader's spec default.
func NewRawSQLLoader() *RawSQLLoader {
	return &RawSQLLoader{RunInTransactionDefault: true}
}

// Load reads every .sql file named directly by paths, or contained
// (non-recursively) in a directory path, and returns them as one
// MigrationUnit per file in go-migrate natural order. A path of "-" reads
// raw SQL from stdin instead, producing a single unit with a synthesized
// id (there is no filename to derive one, or a position to sort by).
func (l *RawSQLLoader) Load(paths []string) (MigrationHistory, error) {
	var history MigrationHistory

	var fileArgs []string
	for _, p := range paths {
		if p != stdinPath {
			fileArgs = append(fileArgs, p)
			continue
		}

		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return MigrationHistory{}, &LoadError{Kind: Io, Path: stdinPath, Err: err}
		}

		history.Units = append(history.Units, ir.MigrationUnit{
			ID:               "stdin-" + uuid.NewString(),
			Statements:       sqlir.Parse(string(raw)),
			SourceFile:       stdinPath,
			SourceLineOffset: 1,
			RunInTransaction: l.RunInTransactionDefault,
			IsDown:           false,
		})
	}

	files, err := expandSQLFiles(fileArgs)
	if err != nil {
		return MigrationHistory{}, err
	}

	sort.Slice(files, func(i, j int) bool {
		return lessMigrationFilename(filepath.Base(files[i]), filepath.Base(files[j]))
	})

	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return MigrationHistory{}, &LoadError{Kind: Io, Path: path, Err: err}
		}

		history.Units = append(history.Units, ir.MigrationUnit{
			ID:               filepath.Base(path),
			Statements:       sqlir.Parse(string(raw)),
			SourceFile:       path,
			SourceLineOffset: 1,
			RunInTransaction: l.RunInTransactionDefault,
			IsDown:           isDownMigration(filepath.Base(path)),
		})
	}

	return history, nil
}

func expandSQLFiles(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, &LoadError{Kind: Io, Path: p, Err: err}
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, &LoadError{Kind: Io, Path: p, Err: err}
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
				continue
			}
			out = append(out, filepath.Join(p, e.Name()))
		}
	}
	return out, nil
}

// isDownMigration reports whether name's stem (filename minus .sql) ends
// with .down or _down, the go-migrate down-migration convention.
func isDownMigration(name string) bool {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasSuffix(stem, ".down") || strings.HasSuffix(stem, "_down")
}

// lessMigrationFilename orders by leading numeric prefix, then places
// .up before .down at the same prefix, then falls back to a plain
// lexical comparison.
func lessMigrationFilename(a, b string) bool {
	na, resta := leadingNumber(a)
	nb, restb := leadingNumber(b)
	if na != nb {
		return na < nb
	}

	aDown, bDown := isDownMigration(a), isDownMigration(b)
	if aDown != bDown {
		return !aDown
	}

	return resta < restb
}

func leadingNumber(name string) (int, string) {
	i := 0
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		i++
	}
	if i == 0 {
		return -1, name
	}
	n, err := strconv.Atoi(name[:i])
	if err != nil {
		return -1, name
	}
	return n, name[i:]
}
