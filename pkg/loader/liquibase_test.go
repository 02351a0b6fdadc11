// SPDX-License-Identifier: Apache-2.0

package loader_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmlint/pgmlint/pkg/loader"
)

// writeFakeHelper writes an executable shell script that ignores its
// arguments and prints the given JSON to stdout, standing in for the
// external Liquibase helper subprocess.
func writeFakeHelper(t *testing.T, stdout string, exitCode int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "liquibase-helper")
	script := fmt.Sprintf("#!/bin/sh\ncat <<'EOF'\n%s\nEOF\nexit %d\n", stdout, exitCode)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestLiquibaseLoaderParsesChangesets(t *testing.T) {
	helper := writeFakeHelper(t, `[
		{"changeset_id": "1", "author": "a", "sql": "CREATE TABLE t (id int);",
		 "xml_file": "changelog.xml", "xml_line": 10, "run_in_transaction": true}
	]`, 0)

	l, err := loader.NewLiquibaseLoader(helper)
	require.NoError(t, err)

	history, err := l.Load([]string{"changelog.xml"})
	require.NoError(t, err)
	require.Len(t, history.Units, 1)

	unit := history.Units[0]
	assert.Equal(t, "1", unit.ID)
	assert.Equal(t, "changelog.xml", unit.SourceFile)
	assert.Equal(t, 10, unit.SourceLineOffset)
	assert.True(t, unit.RunInTransaction)
	assert.False(t, unit.IsDown)
	require.Len(t, unit.Statements, 1)
	assert.Equal(t, 10, unit.Statements[0].Span.StartLine)
}

func TestLiquibaseLoaderNonZeroExitIsBridgeError(t *testing.T) {
	helper := writeFakeHelper(t, "not json", 2)

	l, err := loader.NewLiquibaseLoader(helper)
	require.NoError(t, err)

	_, err = l.Load([]string{"changelog.xml"})
	require.Error(t, err)

	var loadErr *loader.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, loader.BridgeError, loadErr.Kind)
}

func TestLiquibaseLoaderSchemaViolationIsBridgeError(t *testing.T) {
	helper := writeFakeHelper(t, `[{"changeset_id": "1"}]`, 0)

	l, err := loader.NewLiquibaseLoader(helper)
	require.NoError(t, err)

	_, err = l.Load([]string{"changelog.xml"})
	require.Error(t, err)

	var loadErr *loader.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, loader.BridgeError, loadErr.Kind)
}
