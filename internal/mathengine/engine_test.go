package mathengine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/calcnote/internal/mathengine"
	"github.com/vk/calcnote/internal/units"
)

func TestEngine_Evaluate(t *testing.T) {
	eng := mathengine.New()
	testCases := []struct {
		expr string
		want string
	}{
		{expr: "1 + 2", want: "3"},
		{expr: "2^3^2", want: "512"},
		{expr: "-2^2", want: "-4"},
		{expr: "(1 + 1)^2", want: "4"},
		{expr: "0.1 + 0.2", want: "0.3"},
		{expr: "10 / 4", want: "2.5"},
		{expr: "7 % 3", want: "1"},
		{expr: "sqrt(16)", want: "4"},
		{expr: "abs(-3)", want: "3"},
		{expr: "round(2.567, 2)", want: "2.57"},
		{expr: "max(1, 5, 3)", want: "5"},
		{expr: "log(100, 10)", want: "2"},
		{expr: "ln(e)", want: "1"},
		{expr: "2 pi", want: "6.2831853071796"},
		{expr: "100 KB", want: "100 KB"},
		{expr: "5 km + 300 m", want: "5.3 km"},
		{expr: "2 * 3 m", want: "6 m"},
		{expr: "10 m / 2 s", want: "5 m / s"},
		{expr: "20 km / 4 km", want: "5"},
		{expr: "sqrt(9 m^2)", want: "3 m"},
		{expr: "3 > 2", want: "true"},
		{expr: "1 km == 1000 m", want: "true"},
		{expr: "true ? 1 : 2", want: "1"},
		{expr: `"abc"`, want: `"abc"`},
	}

	for _, tc := range testCases {
		t.Run(tc.expr, func(t *testing.T) {
			v, err := eng.Evaluate(tc.expr, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, eng.Format(v))
		})
	}
}

func TestEngine_Evaluate_Errors(t *testing.T) {
	eng := mathengine.New()
	testCases := []struct {
		expr string
		kind error
	}{
		{expr: "1 / 0", kind: mathengine.ErrDivisionByZero},
		{expr: "5 m / 0 s", kind: mathengine.ErrDivisionByZero},
		{expr: "foo + 1", kind: mathengine.ErrUndefinedSymbol},
		{expr: "nosuchfn(2)", kind: mathengine.ErrUndefinedSymbol},
		{expr: "5 km + 3 kg", kind: mathengine.ErrIncompatibleUnits},
		{expr: "5 km + 3", kind: mathengine.ErrIncompatibleUnits},
		{expr: "1 +", kind: mathengine.ErrSyntax},
		{expr: "   ", kind: mathengine.ErrSyntax},
		{expr: "sqrt(-1)", kind: mathengine.ErrDomain},
		{expr: "ln(0)", kind: mathengine.ErrDomain},
		{expr: "(-8)^0.5", kind: mathengine.ErrDomain},
	}

	for _, tc := range testCases {
		t.Run(tc.expr, func(t *testing.T) {
			_, err := eng.Evaluate(tc.expr, nil)
			require.Error(t, err)

			var evalErr *mathengine.EvaluationError
			require.ErrorAs(t, err, &evalErr)
			assert.Equal(t, tc.expr, evalErr.Expr)
			assert.NotEmpty(t, evalErr.Message)
			assert.True(t, errors.Is(err, tc.kind), "expected %v, got %v", tc.kind, err)
		})
	}
}

func TestEngine_Bindings(t *testing.T) {
	// --- Arrange ---
	eng := mathengine.New()
	distance, err := eng.Evaluate("5 km + 300 m", nil)
	require.NoError(t, err)
	bindings := mathengine.Bindings{"distance": distance}

	// --- Act ---
	speed, err := eng.Evaluate("distance / 15 min", bindings)
	require.NoError(t, err)
	converted, err := eng.Convert(speed, "km/h")
	require.NoError(t, err)

	// --- Assert ---
	assert.Equal(t, "21.2 km / h", eng.Format(converted))

	_, err = eng.Evaluate("distanse * 2", bindings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean distance")
}

func TestEngine_Convert(t *testing.T) {
	eng := mathengine.New()
	testCases := []struct {
		expr   string
		target string
		want   string
	}{
		{expr: "72 degF", target: "degC", want: "22.222222222222 degC"},
		{expr: "50000 KB", target: "MB", want: "50 MB"},
		{expr: "10 m/s", target: "km/h", want: "36 km / h"},
		{expr: "1 mi", target: "km", want: "1.609344 km"},
		{expr: "1 KiB", target: "B", want: "1024 B"},
		{expr: "2 h", target: "min", want: "120 min"},
	}

	for _, tc := range testCases {
		t.Run(tc.expr+" to "+tc.target, func(t *testing.T) {
			v, err := eng.Evaluate(tc.expr, nil)
			require.NoError(t, err)
			got, err := eng.Convert(v, tc.target)
			require.NoError(t, err)
			assert.Equal(t, tc.want, eng.Format(got))
		})
	}
}

func TestEngine_Convert_Errors(t *testing.T) {
	eng := mathengine.New()
	length, err := eng.Evaluate("3 m", nil)
	require.NoError(t, err)
	plain, err := eng.Evaluate("3", nil)
	require.NoError(t, err)

	_, err = eng.Convert(length, "kg")
	assert.ErrorIs(t, err, mathengine.ErrIncompatibleUnits)

	_, err = eng.Convert(plain, "m")
	assert.ErrorIs(t, err, mathengine.ErrIncompatibleUnits)

	_, err = eng.Convert(length, "parsecs")
	assert.ErrorIs(t, err, mathengine.ErrUndefinedSymbol)

	_, err = eng.Convert(length, "2 m")
	assert.ErrorIs(t, err, mathengine.ErrSyntax)
}

func TestEngine_DefineUnit(t *testing.T) {
	// --- Arrange ---
	eng := mathengine.New()
	before := eng.Generation()

	_, err := eng.Evaluate("10 EUR", nil)
	require.ErrorIs(t, err, mathengine.ErrUndefinedSymbol)

	// --- Act ---
	require.NoError(t, eng.DefineUnit("EUR", "1.1 USD"))
	require.NoError(t, eng.DefineUnit("widget", ""))

	// --- Assert ---
	assert.Equal(t, before+2, eng.Generation())

	v, err := eng.Evaluate("10 EUR", nil)
	require.NoError(t, err)
	usd, err := eng.Convert(v, "USD")
	require.NoError(t, err)
	assert.Equal(t, "11 USD", eng.Format(usd))

	v, err = eng.Evaluate("3 widget * 2", nil)
	require.NoError(t, err)
	assert.Equal(t, "6 widget", eng.Format(v))

	assert.ErrorIs(t, eng.DefineUnit("m", "2 ft"), units.ErrUnitExists)
	assert.ErrorIs(t, eng.DefineUnit("bad", "42"), units.ErrInvalidUnit)
	assert.Equal(t, before+2, eng.Generation())
}

func TestEngine_WithPrecision(t *testing.T) {
	eng := mathengine.New(mathengine.WithPrecision(4))
	v, err := eng.Evaluate("pi", nil)
	require.NoError(t, err)
	assert.Equal(t, "3.142", eng.Format(v))
	assert.Equal(t, 4, eng.Precision())
}
