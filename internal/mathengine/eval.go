package mathengine

import (
	"math"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/calcnote/internal/units"
	"github.com/zclconf/go-cty/cty"
)

type evaluator struct {
	eng      *Engine
	bindings Bindings
	// unitsOnly restricts symbol lookup to units, for conversion targets.
	unitsOnly bool
}

func (ev *evaluator) eval(expr hclsyntax.Expression) (cty.Value, error) {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		if e.Val.IsNull() {
			return cty.NilVal, fail(ErrUnsupported, "null is not a value")
		}
		return e.Val, nil
	case *hclsyntax.TemplateExpr:
		v, diags := e.Value(nil)
		if diags.HasErrors() {
			return cty.NilVal, fail(ErrUnsupported, "string templates are not supported")
		}
		return v, nil
	case *hclsyntax.TemplateWrapExpr:
		return ev.eval(e.Wrapped)
	case *hclsyntax.ParenthesesExpr:
		return ev.eval(e.Expression)
	case *hclsyntax.ScopeTraversalExpr:
		if len(e.Traversal) != 1 {
			return cty.NilVal, fail(ErrUnsupported, "attribute access is not supported")
		}
		return ev.lookup(e.Traversal.RootName())
	case *hclsyntax.UnaryOpExpr:
		return ev.unary(e)
	case *hclsyntax.BinaryOpExpr:
		return ev.binary(e)
	case *hclsyntax.ConditionalExpr:
		cond, err := ev.eval(e.Condition)
		if err != nil {
			return cty.NilVal, err
		}
		if !isBool(cond) {
			return cty.NilVal, fail(ErrUnsupported, "condition must be a boolean, got %s", typeName(cond))
		}
		if cond.True() {
			return ev.eval(e.TrueResult)
		}
		return ev.eval(e.FalseResult)
	case *hclsyntax.FunctionCallExpr:
		return ev.call(e)
	}
	return cty.NilVal, fail(ErrUnsupported, "unsupported expression")
}

func (ev *evaluator) lookup(name string) (cty.Value, error) {
	if !ev.unitsOnly {
		if v, ok := ev.bindings[name]; ok {
			return v, nil
		}
		if c, ok := constants[name]; ok {
			return NumberVal(c), nil
		}
	}
	if u, ok := ev.eng.units.Lookup(name); ok {
		return QuantityVal(units.Of(1, u)), nil
	}
	if s := ev.eng.suggest(name, ev.bindings); s != "" {
		return cty.NilVal, fail(ErrUndefinedSymbol, "undefined symbol %s (did you mean %s?)", name, s)
	}
	return cty.NilVal, fail(ErrUndefinedSymbol, "undefined symbol %s", name)
}

func (ev *evaluator) unary(e *hclsyntax.UnaryOpExpr) (cty.Value, error) {
	v, err := ev.eval(e.Val)
	if err != nil {
		return cty.NilVal, err
	}
	switch e.Op {
	case hclsyntax.OpNegate:
		if n, ok := AsNumber(v); ok {
			return NumberVal(-n), nil
		}
		if q, ok := AsQuantity(v); ok {
			return quantityResult(units.Scale(q, -1))
		}
		return cty.NilVal, fail(ErrUnsupported, "cannot negate a %s", typeName(v))
	case hclsyntax.OpLogicalNot:
		if isBool(v) {
			return v.Not(), nil
		}
		return cty.NilVal, fail(ErrUnsupported, "cannot apply ! to a %s", typeName(v))
	}
	return cty.NilVal, fail(ErrUnsupported, "unsupported operator")
}

func (ev *evaluator) binary(e *hclsyntax.BinaryOpExpr) (cty.Value, error) {
	l, err := ev.eval(e.LHS)
	if err != nil {
		return cty.NilVal, err
	}
	r, err := ev.eval(e.RHS)
	if err != nil {
		return cty.NilVal, err
	}

	switch e.Op {
	case hclsyntax.OpAdd, hclsyntax.OpSubtract, hclsyntax.OpMultiply, hclsyntax.OpDivide, hclsyntax.OpModulo:
		return arith(e.Op, l, r)
	case hclsyntax.OpEqual:
		eq, err := equal(l, r)
		return cty.BoolVal(eq), err
	case hclsyntax.OpNotEqual:
		eq, err := equal(l, r)
		return cty.BoolVal(!eq), err
	case hclsyntax.OpLessThan, hclsyntax.OpLessThanOrEqual, hclsyntax.OpGreaterThan, hclsyntax.OpGreaterThanOrEqual:
		c, err := compare(l, r)
		if err != nil {
			return cty.NilVal, err
		}
		switch e.Op {
		case hclsyntax.OpLessThan:
			return cty.BoolVal(c < 0), nil
		case hclsyntax.OpLessThanOrEqual:
			return cty.BoolVal(c <= 0), nil
		case hclsyntax.OpGreaterThan:
			return cty.BoolVal(c > 0), nil
		default:
			return cty.BoolVal(c >= 0), nil
		}
	case hclsyntax.OpLogicalAnd, hclsyntax.OpLogicalOr:
		if !isBool(l) || !isBool(r) {
			return cty.NilVal, fail(ErrUnsupported, "logical operators need booleans")
		}
		if e.Op == hclsyntax.OpLogicalAnd {
			return l.And(r), nil
		}
		return l.Or(r), nil
	}
	return cty.NilVal, fail(ErrUnsupported, "unsupported operator")
}

func arith(op *hclsyntax.Operation, l, r cty.Value) (cty.Value, error) {
	ln, lNum := AsNumber(l)
	rn, rNum := AsNumber(r)
	lq, lQty := AsQuantity(l)
	rq, rQty := AsQuantity(r)
	if (!lNum && !lQty) || (!rNum && !rQty) {
		return cty.NilVal, fail(ErrUnsupported, "cannot do arithmetic on %s and %s", typeName(l), typeName(r))
	}

	if lNum && rNum {
		switch op {
		case hclsyntax.OpAdd:
			return numberResult(ln + rn)
		case hclsyntax.OpSubtract:
			return numberResult(ln - rn)
		case hclsyntax.OpMultiply:
			return numberResult(ln * rn)
		case hclsyntax.OpDivide:
			if rn == 0 {
				return cty.NilVal, fail(ErrDivisionByZero, "division by zero")
			}
			return numberResult(ln / rn)
		default:
			if rn == 0 {
				return cty.NilVal, fail(ErrDivisionByZero, "division by zero")
			}
			return numberResult(math.Mod(ln, rn))
		}
	}

	switch op {
	case hclsyntax.OpAdd, hclsyntax.OpSubtract:
		if !lQty || !rQty {
			q := lq
			if !lQty {
				q = rq
			}
			return cty.NilVal, fail(ErrIncompatibleUnits, "cannot mix a plain number with %s", q.UnitString())
		}
		var (
			q   units.Quantity
			err error
		)
		if op == hclsyntax.OpAdd {
			q, err = units.Add(lq, rq)
		} else {
			q, err = units.Sub(lq, rq)
		}
		if err != nil {
			return cty.NilVal, fail(ErrIncompatibleUnits, "%v", err)
		}
		return quantityResult(q)
	case hclsyntax.OpMultiply:
		switch {
		case lNum:
			return quantityResult(units.Scale(rq, ln))
		case rNum:
			return quantityResult(units.Scale(lq, rn))
		}
		return quantityResult(units.Mul(lq, rq))
	case hclsyntax.OpDivide:
		if (rNum && rn == 0) || (rQty && rq.Value == 0) {
			return cty.NilVal, fail(ErrDivisionByZero, "division by zero")
		}
		switch {
		case lNum:
			return quantityResult(units.Scale(units.Inverse(rq), ln))
		case rNum:
			return quantityResult(units.Scale(lq, 1/rn))
		}
		return quantityResult(units.Div(lq, rq))
	default:
		if !lQty || !rQty {
			return cty.NilVal, fail(ErrIncompatibleUnits, "modulo needs two quantities of the same kind")
		}
		if rq.Value == 0 {
			return cty.NilVal, fail(ErrDivisionByZero, "division by zero")
		}
		aligned, err := units.Convert(rq, lq.Terms)
		if err != nil {
			return cty.NilVal, fail(ErrIncompatibleUnits, "%v", err)
		}
		return quantityResult(lq.Map(func(v float64) float64 { return math.Mod(v, aligned.Value) }))
	}
}

func equal(l, r cty.Value) (bool, error) {
	switch {
	case isBool(l) && isBool(r), isString(l) && isString(r):
		return l.Equals(r).True(), nil
	}
	_, lNum := AsNumber(l)
	_, lQty := AsQuantity(l)
	_, rNum := AsNumber(r)
	_, rQty := AsQuantity(r)
	if (lNum || lQty) && (rNum || rQty) {
		c, err := compare(l, r)
		return c == 0, err
	}
	return false, nil
}

func compare(l, r cty.Value) (int, error) {
	ln, lNum := AsNumber(l)
	rn, rNum := AsNumber(r)
	if lNum && rNum {
		switch {
		case ln < rn:
			return -1, nil
		case ln > rn:
			return 1, nil
		}
		return 0, nil
	}
	lq, lQty := AsQuantity(l)
	rq, rQty := AsQuantity(r)
	if lQty && rQty {
		c, err := units.Compare(lq, rq)
		if err != nil {
			return 0, fail(ErrIncompatibleUnits, "%v", err)
		}
		return c, nil
	}
	return 0, fail(ErrIncompatibleUnits, "cannot compare %s with %s", typeName(l), typeName(r))
}
