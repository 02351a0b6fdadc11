// SPDX-License-Identifier: Apache-2.0

package sqlir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmlint/pgmlint/pkg/ir"
	"github.com/pgmlint/pgmlint/pkg/sqlir"
)

func parseOne(t *testing.T, sql string) ir.IrNode {
	t.Helper()
	nodes := sqlir.Parse(sql)
	require.Len(t, nodes, 1)
	return nodes[0].Node
}

func TestParseCreateTable(t *testing.T) {
	t.Parallel()

	node := parseOne(t, "CREATE TABLE foo (id int NOT NULL, name text)")
	ct, ok := node.(ir.CreateTable)
	require.True(t, ok, "got %T", node)

	assert.Equal(t, "foo", ct.Name.Name)
	assert.Equal(t, "public", ct.Name.Schema)
	require.Len(t, ct.Columns, 2)
	assert.Equal(t, "id", ct.Columns[0].Name)
	assert.False(t, ct.Columns[0].Null)
	assert.Equal(t, "name", ct.Columns[1].Name)
	assert.True(t, ct.Columns[1].Null)
}

func TestParseCreateTableWithPrimaryKeyAndDefault(t *testing.T) {
	t.Parallel()

	node := parseOne(t, "CREATE TABLE foo (id int PRIMARY KEY, created_at timestamptz DEFAULT now())")
	ct, ok := node.(ir.CreateTable)
	require.True(t, ok, "got %T", node)

	assert.True(t, ct.Columns[0].IsPrimaryKey)
	require.NotNil(t, ct.Columns[1].Default)
	fn, ok := (*ct.Columns[1].Default).(ir.FunctionCallDefault)
	require.True(t, ok, "got %T", *ct.Columns[1].Default)
	assert.Equal(t, "now", fn.Name)
}

func TestParseAlterTableAddColumn(t *testing.T) {
	t.Parallel()

	node := parseOne(t, "ALTER TABLE foo ADD COLUMN bar int")
	at, ok := node.(ir.AlterTable)
	require.True(t, ok, "got %T", node)
	require.Len(t, at.Actions, 1)

	add, ok := at.Actions[0].(ir.AddColumnAction)
	require.True(t, ok, "got %T", at.Actions[0])
	assert.Equal(t, "bar", add.Column.Name)
}

func TestParseAlterTableAddForeignKey(t *testing.T) {
	t.Parallel()

	node := parseOne(t, "ALTER TABLE orders ADD CONSTRAINT fk_customer FOREIGN KEY (customer_id) REFERENCES customers (id)")
	at, ok := node.(ir.AlterTable)
	require.True(t, ok, "got %T", node)
	require.Len(t, at.Actions, 1)

	add, ok := at.Actions[0].(ir.AddConstraintAction)
	require.True(t, ok, "got %T", at.Actions[0])
	fk, ok := add.Constraint.(ir.ForeignKeyConstraint)
	require.True(t, ok, "got %T", add.Constraint)
	assert.Equal(t, "customers", fk.RefTable.Name)
	assert.Equal(t, []string{"customer_id"}, fk.Columns)
}

func TestParseCreateIndexConcurrently(t *testing.T) {
	t.Parallel()

	node := parseOne(t, "CREATE INDEX CONCURRENTLY idx_foo_bar ON foo (bar)")
	ci, ok := node.(ir.CreateIndex)
	require.True(t, ok, "got %T", node)

	assert.True(t, ci.Concurrently)
	assert.Equal(t, "idx_foo_bar", ci.Name)
	assert.Equal(t, "foo", ci.Table.Name)
	require.Len(t, ci.Columns, 1)
	assert.Equal(t, "bar", ci.Columns[0].Name)
}

func TestParseDropIndex(t *testing.T) {
	t.Parallel()

	node := parseOne(t, "DROP INDEX CONCURRENTLY IF EXISTS idx_foo_bar")
	di, ok := node.(ir.DropIndex)
	require.True(t, ok, "got %T", node)

	assert.True(t, di.Concurrently)
	assert.True(t, di.IfExists)
	assert.Equal(t, "idx_foo_bar", di.Name)
}

func TestParseDropTableCascade(t *testing.T) {
	t.Parallel()

	node := parseOne(t, "DROP TABLE foo CASCADE")
	dt, ok := node.(ir.DropTable)
	require.True(t, ok, "got %T", node)

	assert.True(t, dt.Cascade)
	assert.Equal(t, "foo", dt.Name.Name)
}

func TestParseRenameColumn(t *testing.T) {
	t.Parallel()

	node := parseOne(t, "ALTER TABLE foo RENAME COLUMN bar TO baz")
	at, ok := node.(ir.AlterTable)
	require.True(t, ok, "got %T", node)
	require.Len(t, at.Actions, 1)

	action, ok := at.Actions[0].(ir.OtherAction)
	require.True(t, ok, "got %T", at.Actions[0])
	assert.Equal(t, ir.RenameColumn, action.Kind)
	assert.Equal(t, "bar", action.Column)
	assert.Equal(t, "baz", action.NewName)
}

func TestParseTruncate(t *testing.T) {
	t.Parallel()

	node := parseOne(t, "TRUNCATE TABLE foo")
	other, ok := node.(ir.OtherStmt)
	require.True(t, ok, "got %T", node)

	assert.Equal(t, ir.Truncate, other.Kind)
	require.NotNil(t, other.Table)
	assert.Equal(t, "foo", other.Table.Name)
}

func TestParseGrantIsIgnored(t *testing.T) {
	t.Parallel()

	node := parseOne(t, "GRANT SELECT ON foo TO bar")
	_, ok := node.(ir.Ignored)
	assert.True(t, ok, "got %T", node)
}

func TestParseUnparseableDoBlock(t *testing.T) {
	t.Parallel()

	node := parseOne(t, "DO $$ BEGIN UPDATE foo SET x = 1; END $$")
	up, ok := node.(ir.Unparseable)
	require.True(t, ok, "got %T", node)
	require.NotNil(t, up.TableHint)
	assert.Equal(t, "foo", up.TableHint.Name)
}
