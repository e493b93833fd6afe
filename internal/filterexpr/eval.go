package filterexpr

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Resolver returns a value for a field name. A nil value with ok=true means
// the field is known but absent on this record; absent values never match.
type Resolver func(name string) (any, bool)

// evaluator carries per-evaluation state. cases.Caser is not safe for
// concurrent use, so each Evaluate call gets its own.
type evaluator struct {
	resolve Resolver
	lower   cases.Caser
}

// Evaluate evaluates a parsed filter expression against a resolver.
func Evaluate(e *expr.Expr, resolve Resolver) (bool, error) {
	ev := &evaluator{resolve: resolve, lower: cases.Lower(language.Und)}
	return ev.eval(e)
}

func (ev *evaluator) eval(e *expr.Expr) (bool, error) {
	if e == nil {
		return true, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return ev.evalCall(kind.CallExpr)
	default:
		return false, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func (ev *evaluator) evalCall(call *expr.Expr_Call) (bool, error) {
	switch call.Function {
	case "_&&_", "AND", "FUZZY":
		return ev.evalAnd(call.Args)
	case "_||_", "OR":
		return ev.evalOr(call.Args)
	case "_!_", "NOT":
		return ev.evalNot(call.Args)
	case "_==_", "=":
		return ev.evalCompare(call.Args, "=")
	case "_!=_", "!=":
		return ev.evalCompare(call.Args, "!=")
	case "_<_", "<":
		return ev.evalCompare(call.Args, "<")
	case "_<=_", "<=":
		return ev.evalCompare(call.Args, "<=")
	case "_>_", ">":
		return ev.evalCompare(call.Args, ">")
	case "_>=_", ">=":
		return ev.evalCompare(call.Args, ">=")
	case ":":
		return ev.evalHas(call.Args)
	default:
		return false, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func (ev *evaluator) evalAnd(args []*expr.Expr) (bool, error) {
	if len(args) < 2 {
		return false, fmt.Errorf("AND requires at least 2 arguments")
	}
	for _, arg := range args {
		ok, err := ev.eval(arg)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (ev *evaluator) evalOr(args []*expr.Expr) (bool, error) {
	if len(args) < 2 {
		return false, fmt.Errorf("OR requires at least 2 arguments")
	}
	for _, arg := range args {
		ok, err := ev.eval(arg)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (ev *evaluator) evalNot(args []*expr.Expr) (bool, error) {
	if len(args) != 1 {
		return false, fmt.Errorf("NOT requires 1 argument")
	}
	ok, err := ev.eval(args[0])
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// evalHas implements the ":" operator as a case-insensitive substring test.
func (ev *evaluator) evalHas(args []*expr.Expr) (bool, error) {
	left, right, present, err := ev.operands(args)
	if err != nil || !present {
		return false, err
	}
	l, lok := left.(string)
	r, rok := right.(string)
	if !lok || !rok {
		return false, fmt.Errorf("':' requires string operands")
	}
	return strings.Contains(ev.lower.String(l), ev.lower.String(r)), nil
}

func (ev *evaluator) evalCompare(args []*expr.Expr, op string) (bool, error) {
	left, right, present, err := ev.operands(args)
	if err != nil || !present {
		return false, err
	}

	if l, ok := left.(string); ok && (op == "=" || op == "!=") {
		r, ok := right.(string)
		if !ok {
			return false, fmt.Errorf("type mismatch: string vs %T", right)
		}
		eq := ev.matchString(l, r)
		if op == "=" {
			return eq, nil
		}
		return !eq, nil
	}

	cmp, err := ev.compareValues(left, right)
	if err != nil {
		return false, err
	}

	switch op {
	case "=":
		return cmp == 0, nil
	case "!=":
		return cmp != 0, nil
	case "<":
		return cmp < 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	case ">=":
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("unsupported operator: %s", op)
	}
}

// operands resolves a binary (ident, constant) argument pair. present is false
// when the record has no value for the field.
func (ev *evaluator) operands(args []*expr.Expr) (left, right any, present bool, err error) {
	if len(args) != 2 {
		return nil, nil, false, fmt.Errorf("comparison requires 2 arguments")
	}

	field, err := extractFieldName(args[0])
	if err != nil {
		return nil, nil, false, err
	}

	left, ok := ev.resolve(field)
	if !ok {
		return nil, nil, false, fmt.Errorf("unknown field: %s", field)
	}

	right, err = extractValue(args[1])
	if err != nil {
		return nil, nil, false, err
	}
	return left, right, left != nil, nil
}

// matchString compares case-insensitively. A leading or trailing "*" in
// pattern matches any suffix or prefix.
func (ev *evaluator) matchString(value, pattern string) bool {
	v := ev.lower.String(value)
	p := ev.lower.String(pattern)
	prefix := strings.HasSuffix(p, "*")
	suffix := strings.HasPrefix(p, "*")
	p = strings.TrimSuffix(strings.TrimPrefix(p, "*"), "*")
	switch {
	case prefix && suffix:
		return strings.Contains(v, p)
	case prefix:
		return strings.HasPrefix(v, p)
	case suffix:
		return strings.HasSuffix(v, p)
	default:
		return v == p
	}
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.Name, nil
	default:
		return "", fmt.Errorf("expected identifier, got %T", kind)
	}
}

func extractValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	default:
		return nil, fmt.Errorf("expected constant, got %T", kind)
	}
}

func extractConstValue(c *expr.Constant) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("nil constant")
	}

	switch kind := c.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

func (ev *evaluator) compareValues(left, right any) (int, error) {
	switch l := left.(type) {
	case string:
		r, ok := right.(string)
		if !ok {
			return 0, fmt.Errorf("type mismatch: string vs %T", right)
		}
		return strings.Compare(ev.lower.String(l), ev.lower.String(r)), nil
	case int:
		return compareNumbers(float64(l), right)
	case int64:
		return compareNumbers(float64(l), right)
	case float64:
		return compareNumbers(l, right)
	default:
		return 0, fmt.Errorf("unsupported value type: %T", left)
	}
}

func compareNumbers(left float64, right any) (int, error) {
	r, ok := toFloat(right)
	if !ok {
		return 0, fmt.Errorf("type mismatch: number vs %T", right)
	}
	switch {
	case left < r:
		return -1, nil
	case left > r:
		return 1, nil
	default:
		return 0, nil
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
