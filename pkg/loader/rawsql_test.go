// SPDX-License-Identifier: Apache-2.0

package loader_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmlint/pgmlint/pkg/loader"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestRawSQLLoaderNaturalOrderAndDownDetection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "000010_add_index.up.sql", "CREATE INDEX idx ON t (a);")
	writeFile(t, dir, "000001_create_table.up.sql", "CREATE TABLE t (a int);")
	writeFile(t, dir, "000001_create_table.down.sql", "DROP TABLE t;")
	writeFile(t, dir, "000002_widen.up.sql", "ALTER TABLE t ADD COLUMN b int;")

	l := loader.NewRawSQLLoader()
	history, err := l.Load([]string{dir})
	require.NoError(t, err)
	require.Len(t, history.Units, 4)

	names := make([]string, len(history.Units))
	for i, u := range history.Units {
		names[i] = u.ID
	}
	assert.Equal(t, []string{
		"000001_create_table.up.sql",
		"000001_create_table.down.sql",
		"000002_widen.up.sql",
		"000010_add_index.up.sql",
	}, names)

	assert.False(t, history.Units[0].IsDown)
	assert.True(t, history.Units[1].IsDown)
	assert.True(t, history.Units[0].RunInTransaction)
}

func TestRawSQLLoaderMissingPathIsIoError(t *testing.T) {
	l := loader.NewRawSQLLoader()
	_, err := l.Load([]string{"/no/such/path"})
	require.Error(t, err)

	var loadErr *loader.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, loader.Io, loadErr.Kind)
}

func TestRawSQLLoaderReadsFromStdin(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString("CREATE TABLE t (a int);")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	old := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = old }()

	l := loader.NewRawSQLLoader()
	history, err := l.Load([]string{"-"})
	require.NoError(t, err)
	require.Len(t, history.Units, 1)

	unit := history.Units[0]
	assert.True(t, strings.HasPrefix(unit.ID, "stdin-"))
	assert.Equal(t, "-", unit.SourceFile)
	assert.False(t, unit.IsDown)
}
