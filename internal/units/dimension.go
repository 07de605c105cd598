package units

import (
	"sort"
	"strconv"
	"strings"
)

// Base dimension names used by the built-in units. Custom base units add
// their own name.
const (
	Length      = "length"
	Mass        = "mass"
	Time        = "time"
	Current     = "current"
	Temperature = "temperature"
	Amount      = "amount"
	Angle       = "angle"
	Information = "information"
	Currency    = "currency"
)

// Dimension maps a base dimension name to its exponent. Zero exponents are
// never stored.
type Dimension map[string]int

// Dim builds a Dimension from name/exponent pairs.
func Dim(pairs ...any) Dimension {
	d := Dimension{}
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		exp, _ := pairs[i+1].(int)
		if name != "" && exp != 0 {
			d[name] += exp
		}
	}
	return d
}

// Equal reports whether both dimensions have the same exponents.
func (d Dimension) Equal(o Dimension) bool {
	for k, v := range d {
		if v != 0 && o[k] != v {
			return false
		}
	}
	for k, v := range o {
		if v != 0 && d[k] != v {
			return false
		}
	}
	return true
}

// IsZero reports whether the dimension is dimensionless.
func (d Dimension) IsZero() bool {
	for _, v := range d {
		if v != 0 {
			return false
		}
	}
	return true
}

// Combine returns d + o*scale without mutating either operand.
func (d Dimension) Combine(o Dimension, scale int) Dimension {
	out := make(Dimension, len(d)+len(o))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range o {
		out[k] += v * scale
		if out[k] == 0 {
			delete(out, k)
		}
	}
	return out
}

// Scale multiplies every exponent by n.
func (d Dimension) Scale(n int) Dimension {
	out := make(Dimension, len(d))
	if n == 0 {
		return out
	}
	for k, v := range d {
		out[k] = v * n
	}
	return out
}

func (d Dimension) String() string {
	if d.IsZero() {
		return "dimensionless"
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		if d[k] != 1 {
			b.WriteByte('^')
			b.WriteString(strconv.Itoa(d[k]))
		}
	}
	return b.String()
}
