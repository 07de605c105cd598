package mathengine

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/vk/calcnote/internal/units"
)

var (
	// ErrSyntax marks input that cannot be parsed.
	ErrSyntax = errors.New("syntax error")
	// ErrUndefinedSymbol marks a reference to an unknown variable, unit or function.
	ErrUndefinedSymbol = errors.New("undefined symbol")
	// ErrIncompatibleUnits marks arithmetic or conversion across dimensions.
	ErrIncompatibleUnits = units.ErrIncompatible
	// ErrDivisionByZero marks a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrDomain marks a value outside a function's domain.
	ErrDomain = errors.New("domain error")
	// ErrUnsupported marks valid HCL that the calculator does not evaluate.
	ErrUnsupported = errors.New("unsupported expression")
)

// EvaluationError is the only error kind the engine returns for user input.
// Message is meant for display; Err is one of the sentinel errors above.
type EvaluationError struct {
	Expr    string
	Message string
	Err     error
}

func (e *EvaluationError) Error() string {
	return e.Message
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func fail(kind error, format string, args ...any) error {
	return &EvaluationError{Message: sentence(fmt.Sprintf(format, args...)), Err: kind}
}

// sentence capitalizes the first letter of a display message.
func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// wrap turns any error into an EvaluationError for expr, keeping an existing
// classification.
func wrap(expr string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		return evalErr
	}
	kind := ErrDomain
	if errors.Is(err, units.ErrIncompatible) {
		kind = ErrIncompatibleUnits
	}
	return &EvaluationError{Expr: expr, Message: sentence(err.Error()), Err: kind}
}
