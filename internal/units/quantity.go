package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Term is one unit raised to an integer power inside a compound unit.
type Term struct {
	Unit  *Unit
	Power int
}

// Quantity is a magnitude expressed in the (possibly compound) unit it was
// written in.
type Quantity struct {
	Value float64
	Terms []Term
}

// Of returns value expressed in a single unit.
func Of(value float64, u *Unit) Quantity {
	return Quantity{Value: value, Terms: []Term{{Unit: u, Power: 1}}}
}

// Dim returns the dimension of q.
func (q Quantity) Dim() Dimension {
	return dimOf(q.Terms)
}

// Base returns the magnitude of q in SI base units.
func (q Quantity) Base() float64 {
	if u, ok := affineUnit(q.Terms); ok {
		return (q.Value + u.Offset) * u.Factor
	}
	return q.Value * termsFactor(q.Terms)
}

// Dimensionless returns the plain number q represents when its unit terms
// cancel out.
func (q Quantity) Dimensionless() (float64, bool) {
	if !q.Dim().IsZero() {
		return 0, false
	}
	return q.Value * termsFactor(q.Terms), true
}

// Map applies f to the magnitude and keeps the unit.
func (q Quantity) Map(f func(float64) float64) Quantity {
	return Quantity{Value: f(q.Value), Terms: cloneTerms(q.Terms)}
}

// UnitString renders the unit terms, e.g. "km / h" or "m^2".
func (q Quantity) UnitString() string {
	return UnitString(q.Terms)
}

// Convert expresses q in the target unit terms.
func Convert(q Quantity, target []Term) (Quantity, error) {
	if !q.Dim().Equal(dimOf(target)) {
		return Quantity{}, fmt.Errorf("%w: cannot convert %s to %s", ErrIncompatible, q.UnitString(), UnitString(target))
	}
	return Quantity{Value: fromBase(q.Base(), target), Terms: cloneTerms(target)}, nil
}

// Add returns a + b expressed in the unit of a.
func Add(a, b Quantity) (Quantity, error) {
	rhs, err := alignTo(a, b)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: a.Value + rhs, Terms: cloneTerms(a.Terms)}, nil
}

// Sub returns a - b expressed in the unit of a.
func Sub(a, b Quantity) (Quantity, error) {
	rhs, err := alignTo(a, b)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: a.Value - rhs, Terms: cloneTerms(a.Terms)}, nil
}

// Compare orders two quantities of the same dimension.
func Compare(a, b Quantity) (int, error) {
	if !a.Dim().Equal(b.Dim()) {
		return 0, fmt.Errorf("%w: cannot compare %s with %s", ErrIncompatible, a.UnitString(), b.UnitString())
	}
	x, y := a.Base(), b.Base()
	switch {
	case x < y:
		return -1, nil
	case x > y:
		return 1, nil
	default:
		return 0, nil
	}
}

// Mul multiplies two quantities, merging terms that use the same unit.
func Mul(a, b Quantity) Quantity {
	terms := cloneTerms(a.Terms)
	for _, t := range b.Terms {
		terms = mergeTerm(terms, t)
	}
	return Quantity{Value: a.Value * b.Value, Terms: terms}
}

// Div divides a by b. The caller rejects a zero divisor.
func Div(a, b Quantity) Quantity {
	return Mul(a, Inverse(b))
}

// Inverse returns 1/q.
func Inverse(q Quantity) Quantity {
	terms := make([]Term, len(q.Terms))
	for i, t := range q.Terms {
		terms[i] = Term{Unit: t.Unit, Power: -t.Power}
	}
	return Quantity{Value: 1 / q.Value, Terms: terms}
}

// Scale multiplies the magnitude by f.
func Scale(q Quantity, f float64) Quantity {
	return Quantity{Value: q.Value * f, Terms: cloneTerms(q.Terms)}
}

// Pow raises q to an integer power.
func Pow(q Quantity, n int) Quantity {
	if n == 0 {
		return Quantity{Value: 1}
	}
	terms := make([]Term, len(q.Terms))
	for i, t := range q.Terms {
		terms[i] = Term{Unit: t.Unit, Power: t.Power * n}
	}
	return Quantity{Value: math.Pow(q.Value, float64(n)), Terms: terms}
}

// Sqrt takes the square root of a quantity whose unit powers are all even.
func Sqrt(q Quantity) (Quantity, error) {
	terms := make([]Term, len(q.Terms))
	for i, t := range q.Terms {
		if t.Power%2 != 0 {
			return Quantity{}, fmt.Errorf("%w: cannot take the square root of %s", ErrIncompatible, q.UnitString())
		}
		terms[i] = Term{Unit: t.Unit, Power: t.Power / 2}
	}
	return Quantity{Value: math.Sqrt(q.Value), Terms: terms}, nil
}

// UnitString renders unit terms with positive powers first and the rest as a
// denominator.
func UnitString(terms []Term) string {
	var num, den []string
	for _, t := range terms {
		switch {
		case t.Power > 0:
			num = append(num, termString(t.Unit.Name, t.Power))
		case t.Power < 0:
			den = append(den, termString(t.Unit.Name, -t.Power))
		}
	}
	switch {
	case len(den) == 0:
		return strings.Join(num, " ")
	case len(num) == 0:
		parts := make([]string, 0, len(terms))
		for _, t := range terms {
			parts = append(parts, t.Unit.Name+"^"+strconv.Itoa(t.Power))
		}
		return strings.Join(parts, " ")
	case len(den) == 1:
		return strings.Join(num, " ") + " / " + den[0]
	default:
		return strings.Join(num, " ") + " / (" + strings.Join(den, " ") + ")"
	}
}

func termString(name string, power int) string {
	if power == 1 {
		return name
	}
	return name + "^" + strconv.Itoa(power)
}

func alignTo(a, b Quantity) (float64, error) {
	if sameTerms(a.Terms, b.Terms) {
		return b.Value, nil
	}
	conv, err := Convert(b, a.Terms)
	if err != nil {
		return 0, err
	}
	return conv.Value, nil
}

func dimOf(terms []Term) Dimension {
	d := Dimension{}
	for _, t := range terms {
		d = d.Combine(t.Unit.Dim, t.Power)
	}
	return d
}

func termsFactor(terms []Term) float64 {
	f := 1.0
	for _, t := range terms {
		f *= math.Pow(t.Unit.Factor, float64(t.Power))
	}
	return f
}

// affineUnit returns the unit when terms is a lone offset unit such as degC;
// only then does the offset take part in conversions.
func affineUnit(terms []Term) (*Unit, bool) {
	if len(terms) == 1 && terms[0].Power == 1 && terms[0].Unit.Offset != 0 {
		return terms[0].Unit, true
	}
	return nil, false
}

func fromBase(base float64, terms []Term) float64 {
	if u, ok := affineUnit(terms); ok {
		return base/u.Factor - u.Offset
	}
	return base / termsFactor(terms)
}

func sameTerms(a, b []Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Unit.Name != b[i].Unit.Name || a[i].Power != b[i].Power {
			return false
		}
	}
	return true
}

func mergeTerm(terms []Term, t Term) []Term {
	for i := range terms {
		if terms[i].Unit.Name != t.Unit.Name {
			continue
		}
		terms[i].Power += t.Power
		if terms[i].Power == 0 {
			return append(terms[:i], terms[i+1:]...)
		}
		return terms
	}
	return append(terms, t)
}

func cloneTerms(terms []Term) []Term {
	if terms == nil {
		return nil
	}
	return append([]Term(nil), terms...)
}
