package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/domain"
	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// sqlCondition is a WHERE clause fragment with positional parameters.
type sqlCondition struct {
	Clause string
	Params []any
}

type orderField struct {
	column string
	// millis marks timestamp fields stored as Unix milliseconds.
	millis bool
	// status marks the order status column, where legacy delivered rows
	// count as completed.
	status bool
}

var orderFields = map[string]orderField{
	"status":         {column: "o.status", status: true},
	"payment_status": {column: "o.payment_status"},
	"payment_method": {column: "o.payment_method"},
	"delivery_type":  {column: "o.delivery_type"},
	"customer_phone": {column: "o.customer_phone"},
	"total_cents":    {column: "o.total_cents"},
	"create_time":    {column: "o.created_at", millis: true},
}

func orderDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("status", filtering.TypeString),
		filtering.DeclareIdent("payment_status", filtering.TypeString),
		filtering.DeclareIdent("payment_method", filtering.TypeString),
		filtering.DeclareIdent("delivery_type", filtering.TypeString),
		filtering.DeclareIdent("customer_phone", filtering.TypeString),
		filtering.DeclareIdent("total_cents", filtering.TypeInt),
		filtering.DeclareIdent("create_time", filtering.TypeTimestamp),
	)
}

// parseOrderFilter translates an AIP-160 expression into a SQL condition.
// Errors wrap domain.ErrInvalidFilter.
func parseOrderFilter(raw string) (sqlCondition, error) {
	if strings.TrimSpace(raw) == "" {
		return sqlCondition{}, nil
	}
	decls, err := orderDeclarations()
	if err != nil {
		return sqlCondition{}, fmt.Errorf("create declarations: %w", err)
	}
	filter, err := filtering.ParseFilterString(raw, decls)
	if err != nil {
		return sqlCondition{}, fmt.Errorf("%w: %v", domain.ErrInvalidFilter, err)
	}
	condition, err := translateExpr(filter.CheckedExpr.GetExpr())
	if err != nil {
		return sqlCondition{}, fmt.Errorf("%w: %v", domain.ErrInvalidFilter, err)
	}
	return condition, nil
}

func translateExpr(e *expr.Expr) (sqlCondition, error) {
	if e == nil {
		return sqlCondition{}, nil
	}
	call, ok := e.ExprKind.(*expr.Expr_CallExpr)
	if !ok {
		return sqlCondition{}, fmt.Errorf("unsupported expression type: %T", e.ExprKind)
	}
	switch call.CallExpr.Function {
	case filtering.FunctionAnd, filtering.FunctionFuzzyAnd:
		return translateJunction(call.CallExpr.Args, "AND")
	case filtering.FunctionOr:
		return translateJunction(call.CallExpr.Args, "OR")
	case filtering.FunctionNot:
		if len(call.CallExpr.Args) != 1 {
			return sqlCondition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := translateExpr(call.CallExpr.Args[0])
		if err != nil {
			return sqlCondition{}, err
		}
		return sqlCondition{Clause: "(NOT " + inner.Clause + ")", Params: inner.Params}, nil
	case filtering.FunctionEquals:
		return translateComparison(call.CallExpr.Args, "=")
	case filtering.FunctionNotEquals:
		return translateComparison(call.CallExpr.Args, "!=")
	case filtering.FunctionLessThan:
		return translateComparison(call.CallExpr.Args, "<")
	case filtering.FunctionLessEquals:
		return translateComparison(call.CallExpr.Args, "<=")
	case filtering.FunctionGreaterThan:
		return translateComparison(call.CallExpr.Args, ">")
	case filtering.FunctionGreaterEquals:
		return translateComparison(call.CallExpr.Args, ">=")
	default:
		return sqlCondition{}, fmt.Errorf("unsupported function: %s", call.CallExpr.Function)
	}
}

func translateJunction(args []*expr.Expr, op string) (sqlCondition, error) {
	if len(args) != 2 {
		return sqlCondition{}, fmt.Errorf("%s requires 2 arguments", op)
	}
	left, err := translateExpr(args[0])
	if err != nil {
		return sqlCondition{}, err
	}
	right, err := translateExpr(args[1])
	if err != nil {
		return sqlCondition{}, err
	}
	return sqlCondition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func translateComparison(args []*expr.Expr, op string) (sqlCondition, error) {
	if len(args) != 2 {
		return sqlCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return sqlCondition{}, fmt.Errorf("expected field on the left of %s", op)
	}
	field, ok := orderFields[ident.IdentExpr.GetName()]
	if !ok {
		return sqlCondition{}, fmt.Errorf("unknown field: %s", ident.IdentExpr.GetName())
	}
	value, err := extractValue(args[1], field.millis)
	if err != nil {
		return sqlCondition{}, err
	}
	if field.status && (op == "=" || op == "!=") && value == string(domain.OrderStatusCompleted) {
		return completedStatusCondition(field.column, op == "!="), nil
	}
	return sqlCondition{
		Clause: fmt.Sprintf("%s %s ?", field.column, op),
		Params: []any{value},
	}, nil
}

func extractValue(e *expr.Expr, millis bool) (any, error) {
	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_ConstExpr:
		if millis {
			return nil, fmt.Errorf("timestamp fields compare against timestamp(\"...\")")
		}
		switch constant := kind.ConstExpr.GetConstantKind().(type) {
		case *expr.Constant_StringValue:
			return constant.StringValue, nil
		case *expr.Constant_Int64Value:
			return constant.Int64Value, nil
		case *expr.Constant_Uint64Value:
			return int64(constant.Uint64Value), nil
		default:
			return nil, fmt.Errorf("unsupported constant type: %T", constant)
		}
	case *expr.Expr_CallExpr:
		if kind.CallExpr.GetFunction() == filtering.FunctionTimestamp && len(kind.CallExpr.GetArgs()) == 1 {
			return extractTimestampMillis(kind.CallExpr.GetArgs()[0])
		}
		return nil, fmt.Errorf("unsupported function in value position: %s", kind.CallExpr.GetFunction())
	default:
		return nil, fmt.Errorf("expected constant or timestamp, got %T", kind)
	}
}

func extractTimestampMillis(e *expr.Expr) (int64, error) {
	constant, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return 0, fmt.Errorf("timestamp argument must be a constant string")
	}
	raw := constant.ConstExpr.GetStringValue()
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp format: %s", raw)
	}
	return toMillis(parsed), nil
}

// completedStatusCondition matches rows presented as completed, including
// legacy delivered rows.
func completedStatusCondition(column string, negate bool) sqlCondition {
	op := "IN"
	if negate {
		op = "NOT IN"
	}
	return sqlCondition{
		Clause: fmt.Sprintf("%s %s (?, ?)", column, op),
		Params: []any{string(domain.OrderStatusCompleted), string(domain.OrderStatusDelivered)},
	}
}
