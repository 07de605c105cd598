package mathengine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/calcnote/internal/units"
	"github.com/zclconf/go-cty/cty"
)

// DefaultPrecision is the number of significant digits results are shown with.
const DefaultPrecision = 14

// Engine evaluates expressions. It is safe for concurrent use; its only
// mutable state is the unit registry, which grows through DefineUnit.
type Engine struct {
	units     *units.Registry
	precision int
}

// Option configures an Engine.
type Option func(*Engine)

// WithPrecision sets the significant digits used by Engine.Format.
func WithPrecision(p int) Option {
	return func(e *Engine) {
		if p > 0 {
			e.precision = p
		}
	}
}

// WithRegistry makes the engine use an existing unit registry.
func WithRegistry(r *units.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.units = r
		}
	}
}

// New creates an engine with the built-in units, constants and functions.
func New(opts ...Option) *Engine {
	e := &Engine{units: units.NewRegistry(), precision: DefaultPrecision}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Precision returns the significant digits used by Format.
func (e *Engine) Precision() int {
	return e.precision
}

// Generation changes every time the set of known units grows.
func (e *Engine) Generation() uint64 {
	return e.units.Generation()
}

// Units lists the names of all registered units.
func (e *Engine) Units() []string {
	return e.units.Names()
}

// Evaluate computes expr against bindings. Any failure is an *EvaluationError.
func (e *Engine) Evaluate(expr string, bindings Bindings) (cty.Value, error) {
	return e.evaluate(expr, &evaluator{eng: e, bindings: bindings})
}

func (e *Engine) evaluate(expr string, ev *evaluator) (val cty.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			val = cty.NilVal
			err = &EvaluationError{Expr: expr, Message: fmt.Sprintf("Evaluation failed: %v", r), Err: ErrDomain}
		}
	}()

	if strings.TrimSpace(expr) == "" {
		return cty.NilVal, &EvaluationError{Expr: expr, Message: "Empty expression", Err: ErrSyntax}
	}
	src, err := Normalize(expr)
	if err != nil {
		return cty.NilVal, wrap(expr, err)
	}
	parsed, diags := hclsyntax.ParseExpression([]byte(src), "expr", hcl.InitialPos)
	if diags.HasErrors() {
		return cty.NilVal, &EvaluationError{Expr: expr, Message: diagMessage(diags), Err: ErrSyntax}
	}
	val, err = ev.eval(parsed)
	if err != nil {
		return cty.NilVal, wrap(expr, err)
	}
	return val, nil
}

// Convert expresses a quantity in the unit written as target, e.g. "km/h".
func (e *Engine) Convert(v cty.Value, target string) (cty.Value, error) {
	terms, err := e.parseUnit(target)
	if err != nil {
		return cty.NilVal, err
	}
	q, ok := AsQuantity(v)
	if !ok {
		return cty.NilVal, &EvaluationError{
			Expr:    target,
			Message: fmt.Sprintf("Cannot convert a %s to %s", typeName(v), units.UnitString(terms)),
			Err:     ErrIncompatibleUnits,
		}
	}
	out, err := units.Convert(q, terms)
	if err != nil {
		return cty.NilVal, wrap(target, err)
	}
	return QuantityVal(out), nil
}

func (e *Engine) parseUnit(target string) ([]units.Term, error) {
	v, err := e.evaluate(target, &evaluator{eng: e, unitsOnly: true})
	if err != nil {
		return nil, err
	}
	q, ok := AsQuantity(v)
	if !ok || math.Abs(q.Value-1) > 1e-12 {
		return nil, &EvaluationError{Expr: target, Message: fmt.Sprintf("%q is not a unit", strings.TrimSpace(target)), Err: ErrSyntax}
	}
	return q.Terms, nil
}

// DefineUnit adds a unit. An empty definition creates a new base unit;
// otherwise the definition is evaluated, e.g. DefineUnit("EUR", "1.08 USD").
func (e *Engine) DefineUnit(name, definition string) error {
	if strings.TrimSpace(definition) == "" {
		_, err := e.units.DefineBase(name)
		return err
	}
	v, err := e.Evaluate(definition, nil)
	if err != nil {
		return fmt.Errorf("defining %s: %w", name, err)
	}
	q, ok := AsQuantity(v)
	if !ok {
		return fmt.Errorf("defining %s: %w: %q has no unit", name, units.ErrInvalidUnit, definition)
	}
	_, err = e.units.Define(name, q.Base(), q.Dim())
	return err
}

// suggest returns the closest known name to a misspelt symbol, if any is close.
func (e *Engine) suggest(name string, bindings Bindings) string {
	if len(name) < 3 {
		return ""
	}
	candidates := e.units.Names()
	for k := range bindings {
		candidates = append(candidates, k)
	}
	for k := range constants {
		candidates = append(candidates, k)
	}
	for k := range functions {
		candidates = append(candidates, k)
	}

	limit := 2
	if len(name) < 5 {
		limit = 1
	}
	best, bestDist := "", limit+1
	for _, c := range candidates {
		d := levenshtein.Distance(name, c, nil)
		if d < bestDist || (d == bestDist && c < best) {
			best, bestDist = c, d
		}
	}
	if bestDist > limit {
		return ""
	}
	return best
}

func diagMessage(diags hcl.Diagnostics) string {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		if d.Detail == "" {
			return d.Summary
		}
		return d.Summary + ": " + d.Detail
	}
	return diags.Error()
}

// IsEvaluationError reports whether err came from evaluating user input.
func IsEvaluationError(err error) bool {
	var evalErr *EvaluationError
	return errors.As(err, &evalErr)
}
