// SPDX-License-Identifier: Apache-2.0

package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmlint/pgmlint/internal/testutils"
	"github.com/pgmlint/pgmlint/pkg/ir"
	"github.com/pgmlint/pgmlint/pkg/replay"
	"github.com/pgmlint/pgmlint/pkg/rules"
)

func findRule(findings []rules.Finding, id string) []rules.Finding {
	var out []rules.Finding
	for _, f := range findings {
		if f.RuleID == id {
			out = append(out, f)
		}
	}
	return out
}

func TestPGM001PlainCreateIndexOnExistingTable(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "t"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 1),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.CreateIndex{Table: ir.NewQualifiedName("", "t"), Name: "i", Columns: []ir.IndexColumn{{Name: "id"}}}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2}, nil)
	require.Len(t, findRule(findings, "PGM001"), 1)
}

func TestPGM001ConcurrentlySilent(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "t"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 1),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.CreateIndex{
			Table: ir.NewQualifiedName("", "t"), Name: "i", Columns: []ir.IndexColumn{{Name: "id"}},
			Concurrently: true,
		}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2}, nil)
	assert.Empty(t, findRule(findings, "PGM001"))
}

func TestPGM002DropIndexWithoutConcurrently(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "t"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 1),
		testutils.Stmt(ir.CreateIndex{Table: ir.NewQualifiedName("", "t"), Name: "idx", Columns: []ir.IndexColumn{{Name: "id"}}}, 2),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.DropIndex{Name: "idx"}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2}, nil)
	require.Len(t, findRule(findings, "PGM002"), 1)
}

func TestPGM008AddNotNullColumnWithoutDefault(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "t"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 1),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.AlterTable{
			Name: ir.NewQualifiedName("", "t"),
			Actions: []ir.AlterTableAction{
				ir.AddColumnAction{Column: ir.ColumnDef{Name: "required", Type: ir.TypeName{Name: "text"}}},
			},
		}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2}, nil)
	require.Len(t, findRule(findings, "PGM008"), 1)
}

func TestPGM008SilentWhenNullable(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "t"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 1),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.AlterTable{
			Name: ir.NewQualifiedName("", "t"),
			Actions: []ir.AlterTableAction{
				ir.AddColumnAction{Column: ir.ColumnDef{Name: "optional", Type: ir.TypeName{Name: "text"}, Null: true}},
			},
		}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2}, nil)
	assert.Empty(t, findRule(findings, "PGM008"))
}

func TestPGM009DropColumnOnExistingTable(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name: ir.NewQualifiedName("", "t"),
			Columns: []ir.ColumnDef{
				{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true},
				{Name: "legacy", Type: ir.TypeName{Name: "text"}, Null: true},
			},
		}, 1),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.AlterTable{
			Name:    ir.NewQualifiedName("", "t"),
			Actions: []ir.AlterTableAction{ir.DropColumnAction{Column: "legacy"}},
		}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2}, nil)
	require.Len(t, findRule(findings, "PGM009"), 1)
}

func TestPGM009SilentWhenSameFileNew(t *testing.T) {
	unit := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name: ir.NewQualifiedName("", "t"),
			Columns: []ir.ColumnDef{
				{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true},
				{Name: "scratch", Type: ir.TypeName{Name: "text"}, Null: true},
			},
		}, 1),
		testutils.Stmt(ir.AlterTable{
			Name:    ir.NewQualifiedName("", "t"),
			Actions: []ir.AlterTableAction{ir.DropColumnAction{Column: "scratch"}},
		}, 2),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{unit}, nil)
	assert.Empty(t, findRule(findings, "PGM009"))
}

func TestPGM013SetNotNullOnExistingTable(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "t"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 1),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.AlterTable{
			Name:    ir.NewQualifiedName("", "t"),
			Actions: []ir.AlterTableAction{ir.OtherAction{Kind: ir.SetNotNull, Column: "id"}},
		}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2}, nil)
	require.Len(t, findRule(findings, "PGM013"), 1)
}

func TestPGM101TimestampWithoutTimeZone(t *testing.T) {
	unit := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name: ir.NewQualifiedName("", "events"),
			Columns: []ir.ColumnDef{
				{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true},
				{Name: "occurred_at", Type: ir.TypeName{Name: "timestamp"}},
			},
		}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{unit}, nil)
	got := findRule(findings, "PGM101")
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "occurred_at")
}

func TestPGM105SerialType(t *testing.T) {
	unit := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name: ir.NewQualifiedName("", "widgets"),
			Columns: []ir.ColumnDef{
				{Name: "id", Type: ir.TypeName{Name: "serial"}, IsPrimaryKey: true},
			},
		}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{unit}, nil)
	require.Len(t, findRule(findings, "PGM105"), 1)
}

func TestPGM106JSONInsteadOfJSONB(t *testing.T) {
	unit := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name: ir.NewQualifiedName("", "docs"),
			Columns: []ir.ColumnDef{
				{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true},
				{Name: "body", Type: ir.TypeName{Name: "json"}},
			},
		}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{unit}, nil)
	require.Len(t, findRule(findings, "PGM106"), 1)
}

func TestPGM508ThirtyTwoBitPrimaryKey(t *testing.T) {
	unit := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name: ir.NewQualifiedName("", "orders"),
			Columns: []ir.ColumnDef{
				{Name: "id", Type: ir.TypeName{Name: "integer"}, IsPrimaryKey: true},
			},
		}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{unit}, nil)
	require.Len(t, findRule(findings, "PGM508"), 1)
}

func TestPGM508SilentForBigint(t *testing.T) {
	unit := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name: ir.NewQualifiedName("", "orders"),
			Columns: []ir.ColumnDef{
				{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true},
			},
		}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{unit}, nil)
	assert.Empty(t, findRule(findings, "PGM508"))
}

func TestPGM301InsertAgainstExistingTable(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "t"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 1),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.OtherStmt{Kind: ir.Insert, Table: ptr(ir.NewQualifiedName("", "t")), Raw: "INSERT INTO t ..."}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2}, nil)
	require.Len(t, findRule(findings, "PGM301"), 1)
}

func TestPGM204TruncateCascadeIsCritical(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "t"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 1),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.OtherStmt{Kind: ir.Truncate, Table: ptr(ir.NewQualifiedName("", "t")), Cascade: true, Raw: "TRUNCATE t CASCADE"}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2}, nil)
	got := findRule(findings, "PGM204")
	require.Len(t, got, 1)
	assert.Equal(t, rules.Critical, got[0].Severity)
	assert.Empty(t, findRule(findings, "PGM203"), "CASCADE truncate should not also fire the plain-truncate rule")
}

func ptr(q ir.QualifiedName) *ir.QualifiedName { return &q }

// PGM504 must not fire when a migration unit renames a pre-existing table
// out of the way and recreates a table under the old name in the same
// unit — the `RENAME TO x_old; CREATE TABLE x (...)` safe-swap pattern.
func TestPGM504SilentWhenOldNameRecreatedInSameUnit(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "users"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 1),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.AlterTable{
			Name:    ir.NewQualifiedName("", "users"),
			Actions: []ir.AlterTableAction{ir.OtherAction{Kind: ir.RenameTableTo, NewName: "users_old"}},
		}, 1),
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "users"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 2),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2}, nil)
	assert.Empty(t, findRule(findings, "PGM504"))
}

func TestPGM504FiresWithoutSameUnitRecreate(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "users"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 1),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.AlterTable{
			Name:    ir.NewQualifiedName("", "users"),
			Actions: []ir.AlterTableAction{ir.OtherAction{Kind: ir.RenameTableTo, NewName: "users_old"}},
		}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2}, nil)
	require.Len(t, findRule(findings, "PGM504"), 1)
}

// PGM513 must see a partition child created earlier in the same unit:
// CatalogAfter reflects the fully-applied unit, unlike CatalogBefore.
func TestPGM513SeesSameUnitPartitionCreate(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "events"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}}},
		}, 1),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.CreateTable{
			Name:        ir.NewQualifiedName("", "events_2024"),
			Columns:     []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}}},
			Constraints: []ir.TableConstraint{ir.CheckConstraint{Name: "bound_chk", Columns: []string{"id"}, Expression: "id > 0"}},
		}, 1),
		testutils.Stmt(ir.AlterTable{
			Name: ir.NewQualifiedName("", "events"),
			Actions: []ir.AlterTableAction{
				ir.OtherAction{Kind: ir.AttachPartition, Partition: ptr(ir.NewQualifiedName("", "events_2024"))},
			},
		}, 2),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2}, nil)
	assert.Empty(t, findRule(findings, "PGM513"), "the newly created child has a partition-key CHECK constraint")
}

func TestPGM513FiresWhenChildHasNoCheckConstraint(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "events"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}}},
		}, 1),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "events_2024"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}}},
		}, 1),
		testutils.Stmt(ir.AlterTable{
			Name: ir.NewQualifiedName("", "events"),
			Actions: []ir.AlterTableAction{
				ir.OtherAction{Kind: ir.AttachPartition, Partition: ptr(ir.NewQualifiedName("", "events_2024"))},
			},
		}, 2),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2}, nil)
	require.Len(t, findRule(findings, "PGM513"), 1)
}
