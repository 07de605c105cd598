package mathengine

import (
	"math"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Format renders a value the way the notebook displays results.
func (e *Engine) Format(v cty.Value) string {
	return Format(v, e.precision)
}

// Format renders v with the given number of significant digits.
func Format(v cty.Value, precision int) string {
	if n, ok := AsNumber(v); ok {
		return FormatNumber(n, precision)
	}
	if q, ok := AsQuantity(v); ok {
		num := FormatNumber(q.Value, precision)
		if u := q.UnitString(); u != "" {
			return num + " " + u
		}
		return num
	}
	switch {
	case isBool(v):
		return strconv.FormatBool(v.True())
	case isString(v):
		return strconv.Quote(v.AsString())
	}
	return ""
}

// FormatNumber rounds f to precision significant digits and prints it in
// fixed notation, switching to exponent notation for very small or very
// large magnitudes.
func FormatNumber(f float64, precision int) string {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'g', precision, 64), 64)
	if err != nil {
		r = f
	}
	exp := int(math.Floor(math.Log10(math.Abs(r))))
	if exp >= -3 && exp < 15 {
		return strconv.FormatFloat(r, 'f', -1, 64)
	}

	s := strconv.FormatFloat(r, 'e', -1, 64)
	mantissa, power, _ := strings.Cut(s, "e")
	sign, digits := power[:1], strings.TrimLeft(power[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}
