// SPDX-License-Identifier: Apache-2.0

package replay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmlint/pgmlint/internal/testutils"
	"github.com/pgmlint/pgmlint/pkg/ir"
	"github.com/pgmlint/pgmlint/pkg/replay"
	"github.com/pgmlint/pgmlint/pkg/rules"
)

func findRule(t *testing.T, findings []rules.Finding, id string) []rules.Finding {
	t.Helper()
	var out []rules.Finding
	for _, f := range findings {
		if f.RuleID == id {
			out = append(out, f)
		}
	}
	return out
}

// Scenario 2 from spec.md §8: a table created and indexed in the same
// file must not trigger PGM001 (CREATE INDEX on a pre-existing table).
func TestSameFileNewTableNoPGM001(t *testing.T) {
	customers := ir.CreateTable{
		Name: ir.NewQualifiedName("", "t"),
		Columns: []ir.ColumnDef{
			{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true},
		},
	}
	idx := ir.CreateIndex{Table: ir.NewQualifiedName("", "t"), Name: "i", Columns: []ir.IndexColumn{{Name: "id"}}}

	unit := testutils.Unit("m.sql", "m.sql",
		testutils.Stmt(customers, 1),
		testutils.Stmt(idx, 2),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{unit}, nil)
	assert.Empty(t, findRule(t, findings, "PGM001"))
}

// Scenario 1: a foreign key added in one unit, covered by an index added
// in a later unit of the same file, must not trigger PGM501.
func TestFKWithLaterIndexNoPGM501(t *testing.T) {
	v1 := testutils.Unit("V001", "changelog.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "customers"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 1),
		testutils.Stmt(ir.CreateTable{
			Name: ir.NewQualifiedName("", "orders"),
			Columns: []ir.ColumnDef{
				{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true},
				{Name: "customer_id", Type: ir.TypeName{Name: "bigint"}},
			},
		}, 2),
	)
	v2 := testutils.Unit("V002", "changelog.sql",
		testutils.Stmt(ir.AlterTable{
			Name: ir.NewQualifiedName("", "orders"),
			Actions: []ir.AlterTableAction{
				ir.AddConstraintAction{
					Name: "fk",
					Constraint: ir.ForeignKeyConstraint{
						Name: "fk", Columns: []string{"customer_id"},
						RefTable: ir.NewQualifiedName("", "customers"), RefColumns: []string{"id"},
						Validated: true,
					},
				},
			},
		}, 3),
		testutils.Stmt(ir.CreateIndex{
			Table: ir.NewQualifiedName("", "orders"), Name: "idx", Columns: []ir.IndexColumn{{Name: "customer_id"}},
		}, 4),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2}, nil)
	assert.Empty(t, findRule(t, findings, "PGM501"))
}

// Scenario 3/4: a volatile default added to a pre-existing table is
// Minor; a stable one (now()) is silent.
func TestVolatileVsStableDefault(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("", "orders"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 1),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.AlterTable{
			Name: ir.NewQualifiedName("", "orders"),
			Actions: []ir.AlterTableAction{
				ir.AddColumnAction{Column: ir.ColumnDef{
					Name: "tok", Type: ir.TypeName{Name: "uuid"},
					Default: defaultOf(ir.FunctionCallDefault{Name: "gen_random_uuid"}),
				}},
			},
		}, 1),
	)
	v3 := testutils.Unit("V003", "m3.sql",
		testutils.Stmt(ir.AlterTable{
			Name: ir.NewQualifiedName("", "orders"),
			Actions: []ir.AlterTableAction{
				ir.AddColumnAction{Column: ir.ColumnDef{
					Name: "created_at", Type: ir.TypeName{Name: "timestamptz"},
					Default: defaultOf(ir.FunctionCallDefault{Name: "now"}),
				}},
			},
		}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2, v3}, nil)

	volatile := findRule(t, findings, "PGM006")
	require.Len(t, volatile, 1)
	assert.Equal(t, rules.Minor, volatile[0].Severity)
	assert.Contains(t, volatile[0].Message, "tok")
	for _, f := range volatile {
		assert.NotContains(t, f.Message, "created_at")
	}
}

// Scenario 5: dropping one schema-qualified table must not affect a
// same-named table in a different schema.
func TestSchemaIsolation(t *testing.T) {
	v1 := testutils.Unit("V001", "m.sql",
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("billing", "users"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 1),
		testutils.Stmt(ir.CreateTable{
			Name:    ir.NewQualifiedName("auth", "users"),
			Columns: []ir.ColumnDef{{Name: "id", Type: ir.TypeName{Name: "bigint"}, IsPrimaryKey: true}},
		}, 2),
	)
	v2 := testutils.Unit("V002", "m2.sql",
		testutils.Stmt(ir.DropTable{Name: ir.NewQualifiedName("billing", "users")}, 1),
	)
	v3 := testutils.Unit("V003", "m3.sql",
		testutils.Stmt(ir.AlterTable{
			Name: ir.NewQualifiedName("auth", "users"),
			Actions: []ir.AlterTableAction{
				ir.AddColumnAction{Column: ir.ColumnDef{Name: "phone", Type: ir.TypeName{Name: "text"}, Null: true}},
			},
		}, 1),
	)

	findings := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2, v3}, nil)
	pgm009 := findRule(t, findings, "PGM009")
	assert.Empty(t, pgm009, "adding a column is not dropping one")

	// auth.users must still exist and be linted as pre-existing in V003;
	// a DROP COLUMN would prove isolation more directly, so check a rule
	// that only fires against a catalog-known table: PGM008 fires for a
	// NOT NULL column with no default, so use that as the isolation probe.
	v4 := testutils.Unit("V004", "m4.sql",
		testutils.Stmt(ir.AlterTable{
			Name: ir.NewQualifiedName("auth", "users"),
			Actions: []ir.AlterTableAction{
				ir.AddColumnAction{Column: ir.ColumnDef{Name: "required", Type: ir.TypeName{Name: "text"}}},
			},
		}, 1),
	)
	findings2 := replay.NewEngine(nil).Run([]ir.MigrationUnit{v1, v2, v3, v4}, nil)
	pgm008 := findRule(t, findings2, "PGM008")
	require.Len(t, pgm008, 1)
	assert.Contains(t, pgm008[0].Message, "auth.users")
}

func defaultOf(d ir.DefaultExpr) *ir.DefaultExpr { return &d }
