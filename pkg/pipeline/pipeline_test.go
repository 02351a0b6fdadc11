// SPDX-License-Identifier: Apache-2.0

package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmlint/pgmlint/pkg/lintconfig"
	"github.com/pgmlint/pgmlint/pkg/pipeline"
	"github.com/pgmlint/pgmlint/pkg/rules"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// Scenario 7 from spec.md §8: a down-migration dropping a pre-existing
// table should report PGM511 at Info, not Critical.
func TestDownMigrationCapsSeverityToInfo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "000001_create.up.sql", "CREATE TABLE customers (id bigint primary key);")
	writeFile(t, dir, "000001_create.down.sql", "DROP TABLE customers;")

	p := pipeline.New(lintconfig.Default(), nil)
	findings, err := p.Run([]string{dir})
	require.NoError(t, err)

	var found bool
	for _, f := range findings {
		if f.RuleID == "PGM511" {
			found = true
			assert.Equal(t, rules.Info, f.Severity)
		}
	}
	assert.True(t, found, "expected PGM511 to fire")
}

// Scenario 6: a file-level suppression directive for PGM002 must drop a
// DROP INDEX finding that would otherwise fire.
func TestSuppressionDropsMatchingFinding(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "000001_create.up.sql", "CREATE TABLE t (id bigint); CREATE INDEX idx ON t (id);")
	writeFile(t, dir, "000002_drop.up.sql", "-- pgm-lint:suppress-file PGM002\nDROP INDEX idx;")

	p := pipeline.New(lintconfig.Default(), nil)
	findings, err := p.Run([]string{dir})
	require.NoError(t, err)

	for _, f := range findings {
		assert.NotEqual(t, "PGM002", f.RuleID)
	}
}

func TestDisabledRuleNeverFires(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "000001_create.up.sql", "CREATE TABLE u (id bigint);")
	writeFile(t, dir, "000002_drop.up.sql", "DROP TABLE u;")

	cfg := lintconfig.Default()
	cfg.DisabledRules = []string{"PGM511"}

	p := pipeline.New(cfg, nil)
	findings, err := p.Run([]string{dir})
	require.NoError(t, err)

	for _, f := range findings {
		assert.NotEqual(t, "PGM511", f.RuleID)
	}
}
