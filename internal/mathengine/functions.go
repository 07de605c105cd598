package mathengine

import (
	"fmt"
	"math"
	"sort"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/calcnote/internal/units"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
	"phi": math.Phi,
}

func numberFunc(f func(float64) float64, domain func(float64) bool) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "num", Type: cty.Number}},
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			x, _ := args[0].AsBigFloat().Float64()
			if domain != nil && !domain(x) {
				return cty.UnknownVal(cty.Number), fmt.Errorf("%s is outside the domain", FormatNumber(x, DefaultPrecision))
			}
			return numberResult(f(x))
		},
	})
}

var roundFunc = function.New(&function.Spec{
	Params:   []function.Parameter{{Name: "num", Type: cty.Number}},
	VarParam: &function.Parameter{Name: "digits", Type: cty.Number},
	Type:     function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		x, _ := args[0].AsBigFloat().Float64()
		digits := 0.0
		if len(args) > 1 {
			digits, _ = args[1].AsBigFloat().Float64()
		}
		return numberResult(roundTo(x, int(digits)))
	},
})

// logFunc is the natural logarithm with one argument and stdlib's log(num, base) with two.
var logFunc = function.New(&function.Spec{
	Params:   []function.Parameter{{Name: "num", Type: cty.Number}},
	VarParam: &function.Parameter{Name: "base", Type: cty.Number},
	Type:     function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		x, _ := args[0].AsBigFloat().Float64()
		if x <= 0 {
			return cty.UnknownVal(cty.Number), fmt.Errorf("logarithm of a non-positive number")
		}
		switch len(args) {
		case 1:
			return numberResult(math.Log(x))
		case 2:
			b, _ := args[1].AsBigFloat().Float64()
			if b <= 0 || b == 1 {
				return cty.UnknownVal(cty.Number), fmt.Errorf("invalid logarithm base")
			}
			return stdlib.LogFunc.Call(args)
		}
		return cty.UnknownVal(cty.Number), fmt.Errorf("log takes one or two arguments")
	},
})

var powFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "num", Type: cty.Number}, {Name: "power", Type: cty.Number}},
	Type:   function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		x, _ := args[0].AsBigFloat().Float64()
		y, _ := args[1].AsBigFloat().Float64()
		if x < 0 && y != math.Trunc(y) {
			return cty.UnknownVal(cty.Number), fmt.Errorf("fractional power of a negative number")
		}
		if x == 0 && y < 0 {
			return cty.UnknownVal(cty.Number), fail(ErrDivisionByZero, "division by zero")
		}
		return stdlib.PowFunc.Call(args)
	},
})

// functions available to expressions. Numeric work is delegated to cty's
// stdlib where it has an implementation.
var functions = map[string]function.Function{
	"abs":   stdlib.AbsoluteFunc,
	"ceil":  stdlib.CeilFunc,
	"floor": stdlib.FloorFunc,
	"min":   stdlib.MinFunc,
	"max":   stdlib.MaxFunc,
	"sign":  stdlib.SignumFunc,
	"pow":   powFunc,
	"log":   logFunc,
	"round": roundFunc,
	"sqrt":  numberFunc(math.Sqrt, func(x float64) bool { return x >= 0 }),
	"cbrt":  numberFunc(math.Cbrt, nil),
	"exp":   numberFunc(math.Exp, nil),
	"ln":    numberFunc(math.Log, func(x float64) bool { return x > 0 }),
	"log10": numberFunc(math.Log10, func(x float64) bool { return x > 0 }),
	"log2":  numberFunc(math.Log2, func(x float64) bool { return x > 0 }),
	"sin":   numberFunc(math.Sin, nil),
	"cos":   numberFunc(math.Cos, nil),
	"tan":   numberFunc(math.Tan, nil),
	"asin":  numberFunc(math.Asin, func(x float64) bool { return x >= -1 && x <= 1 }),
	"acos":  numberFunc(math.Acos, func(x float64) bool { return x >= -1 && x <= 1 }),
	"atan":  numberFunc(math.Atan, nil),
}

// FunctionNames lists the callable functions in sorted order.
func FunctionNames() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (ev *evaluator) call(e *hclsyntax.FunctionCallExpr) (cty.Value, error) {
	if e.ExpandFinal {
		return cty.NilVal, fail(ErrUnsupported, "argument expansion is not supported")
	}
	fn, ok := functions[e.Name]
	if !ok || ev.unitsOnly {
		return cty.NilVal, fail(ErrUndefinedSymbol, "undefined function %s", e.Name)
	}

	args := make([]cty.Value, len(e.Args))
	hasQuantity := false
	for i, a := range e.Args {
		v, err := ev.eval(a)
		if err != nil {
			return cty.NilVal, err
		}
		if _, ok := AsQuantity(v); ok {
			hasQuantity = true
		}
		args[i] = v
	}
	if hasQuantity {
		return callWithUnits(e.Name, args)
	}

	v, err := fn.Call(args)
	if err != nil {
		if evalErr, ok := err.(*EvaluationError); ok {
			return cty.NilVal, evalErr
		}
		return cty.NilVal, fail(ErrDomain, "invalid argument to %s: %v", e.Name, err)
	}
	if n, ok := AsNumber(v); ok {
		return NumberVal(n), nil
	}
	return v, nil
}

// callWithUnits handles the functions that accept quantities.
func callWithUnits(name string, args []cty.Value) (cty.Value, error) {
	first, ok := AsQuantity(args[0])
	if !ok {
		return cty.NilVal, fail(ErrUnsupported, "unexpected unit in argument to %s", name)
	}
	switch name {
	case "abs":
		return quantityResult(first.Map(math.Abs))
	case "ceil":
		return quantityResult(first.Map(math.Ceil))
	case "floor":
		return quantityResult(first.Map(math.Floor))
	case "round":
		digits := 0.0
		if len(args) > 1 {
			d, ok := AsNumber(args[1])
			if !ok {
				return cty.NilVal, fail(ErrUnsupported, "round: digits must be a number")
			}
			digits = d
		}
		return quantityResult(first.Map(func(x float64) float64 { return roundTo(x, int(digits)) }))
	case "sqrt":
		q, err := units.Sqrt(first)
		if err != nil {
			return cty.NilVal, fail(ErrIncompatibleUnits, "%v", err)
		}
		return quantityResult(q)
	case "pow":
		if len(args) != 2 {
			return cty.NilVal, fail(ErrUnsupported, "pow takes two arguments")
		}
		n, ok := AsNumber(args[1])
		if !ok || n != math.Trunc(n) {
			return cty.NilVal, fail(ErrUnsupported, "a unit can only be raised to an integer power")
		}
		return quantityResult(units.Pow(first, int(n)))
	case "min", "max":
		best := first
		for _, a := range args[1:] {
			q, ok := AsQuantity(a)
			if !ok {
				return cty.NilVal, fail(ErrIncompatibleUnits, "cannot mix plain numbers with %s in %s", first.UnitString(), name)
			}
			c, err := units.Compare(q, best)
			if err != nil {
				return cty.NilVal, fail(ErrIncompatibleUnits, "%v", err)
			}
			if (name == "min" && c < 0) || (name == "max" && c > 0) {
				best = q
			}
		}
		return quantityResult(best)
	case "sin", "cos", "tan":
		if !first.Dim().Equal(units.Dim(units.Angle, 1)) {
			return cty.NilVal, fail(ErrIncompatibleUnits, "function %s expects an angle, got %s", name, first.UnitString())
		}
		v, err := functions[name].Call([]cty.Value{NumberVal(first.Base())})
		if err != nil {
			return cty.NilVal, fail(ErrDomain, "invalid argument to %s: %v", name, err)
		}
		return v, nil
	}
	return cty.NilVal, fail(ErrUnsupported, "function %s does not accept units", name)
}

func roundTo(x float64, digits int) float64 {
	if digits <= 0 {
		return math.Round(x)
	}
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}
