package mathengine

import (
	"math"
	"reflect"

	"github.com/vk/calcnote/internal/units"
	"github.com/zclconf/go-cty/cty"
)

// Bindings maps variable names to previously computed values.
type Bindings map[string]cty.Value

// Clone returns a shallow copy of b.
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// QuantityType is the cty capsule type carrying a units.Quantity.
var QuantityType = cty.Capsule("quantity", reflect.TypeOf(units.Quantity{}))

// QuantityVal wraps q in a cty value.
func QuantityVal(q units.Quantity) cty.Value {
	return cty.CapsuleVal(QuantityType, &q)
}

// AsQuantity unwraps a value created by QuantityVal.
func AsQuantity(v cty.Value) (units.Quantity, bool) {
	if v.Type() == cty.NilType || !v.IsKnown() || v.IsNull() || !v.Type().Equals(QuantityType) {
		return units.Quantity{}, false
	}
	return *v.EncapsulatedValue().(*units.Quantity), true
}

// NumberVal returns f as a cty number. Negative zero becomes zero.
func NumberVal(f float64) cty.Value {
	if f == 0 {
		f = 0
	}
	return cty.NumberFloatVal(f)
}

// AsNumber returns the float64 held by a cty number.
func AsNumber(v cty.Value) (float64, bool) {
	if v.Type() == cty.NilType || !v.IsKnown() || v.IsNull() || !v.Type().Equals(cty.Number) {
		return 0, false
	}
	f, _ := v.AsBigFloat().Float64()
	return f, true
}

func isBool(v cty.Value) bool {
	return v.Type() != cty.NilType && v.IsKnown() && !v.IsNull() && v.Type().Equals(cty.Bool)
}

func isString(v cty.Value) bool {
	return v.Type() != cty.NilType && v.IsKnown() && !v.IsNull() && v.Type().Equals(cty.String)
}

// numberResult checks f before it enters cty, which cannot hold NaN.
func numberResult(f float64) (cty.Value, error) {
	if math.IsNaN(f) {
		return cty.NilVal, fail(ErrDomain, "result is not a number")
	}
	return NumberVal(f), nil
}

// quantityResult collapses quantities whose units cancelled into numbers.
func quantityResult(q units.Quantity) (cty.Value, error) {
	if n, ok := q.Dimensionless(); ok {
		return numberResult(n)
	}
	if math.IsNaN(q.Value) {
		return cty.NilVal, fail(ErrDomain, "result is not a number")
	}
	if q.Value == 0 {
		q.Value = 0
	}
	return QuantityVal(q), nil
}

func typeName(v cty.Value) string {
	if _, ok := AsQuantity(v); ok {
		return "quantity"
	}
	if v.Type() == cty.NilType || v.IsNull() {
		return "null"
	}
	return v.Type().FriendlyName()
}
