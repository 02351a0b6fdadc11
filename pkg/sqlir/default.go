// SPDX-License-Identifier: Apache-2.0

package sqlir

import (
	"fmt"
	"strings"

	pgq "github.com/pganalyze/pg_query_go/v6"

	"github.com/pgmlint/pgmlint/pkg/ir"
)

// sqlValueFunctionNames maps SQLValueFunction.Op to the bare builtin name
// the volatility oracle recognizes, since CURRENT_TIMESTAMP and friends
// parse to a dedicated node rather than a FuncCall.
var sqlValueFunctionNames = map[int32]string{
	1: "current_date",
	2: "current_time",
	3: "current_time",
	4: "current_timestamp",
	5: "current_timestamp",
	6: "localtime",
	7: "localtime",
	8: "localtimestamp",
	9: "localtimestamp",
	10: "current_role",
	11: "current_user",
	12: "user",
	13: "session_user",
	14: "current_catalog",
	15: "current_schema",
}

// convertDefaultExpr converts a CONSTR_DEFAULT column constraint to the
// IR's closed default-expression shape: a bare function call (the shape
// the volatility oracle inspects), a literal constant, or an opaque
// expression for anything else.
func convertDefaultExpr(c *pgq.Constraint) ir.DefaultExpr {
	return classifyExpr(c.GetRawExpr())
}

func classifyExpr(node *pgq.Node) ir.DefaultExpr {
	if node == nil {
		return ir.NullLiteral()
	}

	switch n := node.Node.(type) {
	case *pgq.Node_AConst:
		return classifyAConst(n.AConst)
	case *pgq.Node_FuncCall:
		return classifyFuncCall(n.FuncCall)
	case *pgq.Node_SqlvalueFunction:
		if name, ok := sqlValueFunctionNames[int32(n.SqlvalueFunction.GetOp())]; ok {
			return ir.FunctionCallDefault{Name: name}
		}
		return ir.OtherDefault{Raw: formatExpr(node)}
	case *pgq.Node_TypeCast:
		return classifyExpr(n.TypeCast.GetArg())
	default:
		return ir.OtherDefault{Raw: formatExpr(node)}
	}
}

func classifyAConst(c *pgq.A_Const) ir.DefaultExpr {
	if c.GetIsnull() {
		return ir.NullLiteral()
	}
	switch v := c.GetVal().(type) {
	case *pgq.A_Const_Ival:
		return ir.ValueLiteral(fmt.Sprintf("%d", v.Ival.GetIval()))
	case *pgq.A_Const_Fval:
		return ir.ValueLiteral(v.Fval.GetFval())
	case *pgq.A_Const_Sval:
		return ir.ValueLiteral(v.Sval.GetSval())
	case *pgq.A_Const_Boolval:
		return ir.ValueLiteral(fmt.Sprintf("%t", v.Boolval.GetBoolval()))
	case *pgq.A_Const_Bsval:
		return ir.ValueLiteral(v.Bsval.GetBsval())
	default:
		return ir.ValueLiteral("")
	}
}

func classifyFuncCall(fc *pgq.FuncCall) ir.DefaultExpr {
	name := lastFuncNamePart(fc.GetFuncname())
	if name == "" {
		return ir.OtherDefault{Raw: formatExpr(&pgq.Node{Node: &pgq.Node_FuncCall{FuncCall: fc}})}
	}

	args := make([]string, 0, len(fc.GetArgs()))
	for _, a := range fc.GetArgs() {
		args = append(args, formatExpr(a))
	}

	return ir.FunctionCallDefault{Name: name, Args: args}
}

func lastFuncNamePart(parts []*pgq.Node) string {
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1].GetString_().GetSval()
}

// formatExpr renders an expression node back to approximate SQL text, for
// the cases the IR only needs to display rather than interpret (a CHECK
// expression body, an arithmetic DEFAULT).
func formatExpr(node *pgq.Node) string {
	if node == nil {
		return ""
	}

	switch n := node.Node.(type) {
	case *pgq.Node_AConst:
		switch v := classifyAConst(n.AConst).(type) {
		case ir.LiteralDefault:
			if v.Value.IsNull() {
				return "NULL"
			}
			s, _ := v.Value.Get()
			return s
		}
	case *pgq.Node_FuncCall:
		name := lastFuncNamePart(n.FuncCall.GetFuncname())
		args := make([]string, 0, len(n.FuncCall.GetArgs()))
		for _, a := range n.FuncCall.GetArgs() {
			args = append(args, formatExpr(a))
		}
		return name + "(" + strings.Join(args, ", ") + ")"
	case *pgq.Node_TypeCast:
		return formatExpr(n.TypeCast.GetArg())
	case *pgq.Node_ColumnRef:
		fields := make([]string, 0, len(n.ColumnRef.GetFields()))
		for _, f := range n.ColumnRef.GetFields() {
			fields = append(fields, f.GetString_().GetSval())
		}
		return strings.Join(fields, ".")
	case *pgq.Node_SqlvalueFunction:
		if name, ok := sqlValueFunctionNames[int32(n.SqlvalueFunction.GetOp())]; ok {
			return strings.ToUpper(name)
		}
	}
	return ""
}
