// SPDX-License-Identifier: Apache-2.0

package sqlir

import (
	pgq "github.com/pganalyze/pg_query_go/v6"

	"github.com/pgmlint/pgmlint/pkg/ir"
)

// convertAlterTableStmt converts ALTER TABLE. Only Objtype OBJECT_TABLE is
// handled here: ALTER INDEX/SEQUENCE/VIEW share the same grammar node but
// carry no catalog-mutating meaning for this package and fall through to
// Ignored.
func convertAlterTableStmt(stmt *pgq.AlterTableStmt, raw string) ir.IrNode {
	if stmt.GetObjtype() != pgq.ObjectType_OBJECT_TABLE {
		return ir.Ignored{Raw: raw}
	}

	name := qualifiedFromRangeVar(stmt.GetRelation())
	actions := make([]ir.AlterTableAction, 0, len(stmt.GetCmds()))

	for _, cmdNode := range stmt.GetCmds() {
		cmd := cmdNode.GetAlterTableCmd()
		if cmd == nil {
			continue
		}
		if action, ok := convertAlterTableCmd(cmd, raw); ok {
			actions = append(actions, action)
		}
	}

	return ir.AlterTable{Name: name, Actions: actions}
}

func convertAlterTableCmd(cmd *pgq.AlterTableCmd, raw string) (ir.AlterTableAction, bool) {
	switch cmd.GetSubtype() {
	case pgq.AlterTableType_AT_AddColumn:
		if def, ok := cmd.GetDef().GetNode().(*pgq.Node_ColumnDef); ok {
			var dropped []ir.TableConstraint
			return ir.AddColumnAction{Column: convertColumnDef(def.ColumnDef, &dropped)}, true
		}
		return nil, false

	case pgq.AlterTableType_AT_DropColumn:
		return ir.DropColumnAction{
			Column:  cmd.GetName(),
			Cascade: cmd.GetBehavior() == pgq.DropBehavior_DROP_CASCADE,
		}, true

	case pgq.AlterTableType_AT_AddConstraint:
		def, ok := cmd.GetDef().GetNode().(*pgq.Node_Constraint)
		if !ok {
			return nil, false
		}
		c, ok := convertTableConstraint(def.Constraint)
		if !ok {
			return nil, false
		}
		return ir.AddConstraintAction{
			Name:       def.Constraint.GetConname(),
			Constraint: c,
			NotValid:   def.Constraint.GetSkipValidation(),
		}, true

	case pgq.AlterTableType_AT_AlterColumnType:
		def, ok := cmd.GetDef().GetNode().(*pgq.Node_ColumnDef)
		if !ok {
			return nil, false
		}
		return ir.AlterColumnTypeAction{
			Column: cmd.GetName(),
			New:    convertTypeName(def.ColumnDef.GetTypeName()),
		}, true

	case pgq.AlterTableType_AT_SetNotNull:
		return ir.OtherAction{Kind: ir.SetNotNull, Column: cmd.GetName()}, true
	case pgq.AlterTableType_AT_DropNotNull:
		return ir.OtherAction{Kind: ir.DropNotNull, Column: cmd.GetName()}, true

	case pgq.AlterTableType_AT_ColumnDefault:
		return convertSetColumnDefault(cmd), true

	case pgq.AlterTableType_AT_ValidateConstraint:
		return ir.OtherAction{Kind: ir.ValidateConstraint, NewName: cmd.GetName()}, true

	case pgq.AlterTableType_AT_DropConstraint:
		return ir.OtherAction{Kind: ir.DropConstraint, NewName: cmd.GetName()}, true

	case pgq.AlterTableType_AT_DetachPartition:
		return ir.OtherAction{
			Kind:       ir.DetachPartition,
			Concurrent: cmd.GetDef().GetPartitionCmd().GetConcurrent(),
		}, true

	case pgq.AlterTableType_AT_AttachPartition:
		rv := cmd.GetDef().GetPartitionCmd().GetName()
		if rv == nil {
			return ir.OtherAction{Kind: ir.AttachPartition}, true
		}
		q := qualifiedFromRangeVar(rv)
		return ir.OtherAction{Kind: ir.AttachPartition, Partition: &q}, true

	case pgq.AlterTableType_AT_DisableTrig, pgq.AlterTableType_AT_DisableTrigAll,
		pgq.AlterTableType_AT_DisableTrigUser:
		return ir.OtherAction{Kind: ir.DisableTrigger, Column: cmd.GetName()}, true

	case pgq.AlterTableType_AT_EnableRowSecurity, pgq.AlterTableType_AT_DisableRowSecurity,
		pgq.AlterTableType_AT_SetStatistics, pgq.AlterTableType_AT_SetOptions,
		pgq.AlterTableType_AT_SetStorage, pgq.AlterTableType_AT_ClusterOn,
		pgq.AlterTableType_AT_SetRelOptions, pgq.AlterTableType_AT_ResetRelOptions:
		// Recognized but not schema-mutating in a way any rule inspects.
		return nil, false

	default:
		return ir.OtherAction{Kind: ir.OtherActionUnknown, Raw: raw}, true
	}
}

func convertSetColumnDefault(cmd *pgq.AlterTableCmd) ir.AlterTableAction {
	if cmd.GetDef() == nil {
		return ir.OtherAction{Kind: ir.DropDefault, Column: cmd.GetName()}
	}
	d := classifyExpr(cmd.GetDef())
	return ir.OtherAction{Kind: ir.SetDefault, Column: cmd.GetName(), Default: &d}
}
