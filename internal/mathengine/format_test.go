package mathengine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/calcnote/internal/mathengine"
	"github.com/zclconf/go-cty/cty"
)

func TestFormatNumber(t *testing.T) {
	testCases := []struct {
		name      string
		in        float64
		precision int
		want      string
	}{
		{name: "float noise is rounded away", in: 0.1 + 0.2, precision: 14, want: "0.3"},
		{name: "repeating decimal", in: 1.0 / 3, precision: 14, want: "0.33333333333333"},
		{name: "integer", in: 50000, precision: 14, want: "50000"},
		{name: "small fixed", in: 0.001, precision: 14, want: "0.001"},
		{name: "small exponent", in: 0.00001234, precision: 14, want: "1.234e-5"},
		{name: "large exponent", in: 1e21, precision: 14, want: "1e+21"},
		{name: "largest fixed", in: 2.5e14, precision: 14, want: "250000000000000"},
		{name: "negative zero", in: math.Copysign(0, -1), precision: 14, want: "0"},
		{name: "infinity", in: math.Inf(1), precision: 14, want: "Infinity"},
		{name: "negative infinity", in: math.Inf(-1), precision: 14, want: "-Infinity"},
		{name: "custom precision", in: 3.14159, precision: 3, want: "3.14"},
		{name: "default precision", in: 2.0 / 3, precision: 0, want: "0.66666666666667"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, mathengine.FormatNumber(tc.in, tc.precision))
		})
	}
}

func TestFormat_Values(t *testing.T) {
	assert.Equal(t, "true", mathengine.Format(cty.True, 14))
	assert.Equal(t, `"hi"`, mathengine.Format(cty.StringVal("hi"), 14))
	assert.Equal(t, "42", mathengine.Format(cty.NumberIntVal(42), 14))
}
