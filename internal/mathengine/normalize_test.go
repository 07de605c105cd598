package mathengine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/calcnote/internal/mathengine"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "1 + 2", want: "1 + 2"},
		{in: "100 KB", want: "(100 * KB)"},
		{in: "5 km/h", want: "(5 * km) / h"},
		{in: "2^3^2", want: "pow(2, pow(3, 2))"},
		{in: "-2^2", want: "-pow(2, 2)"},
		{in: "2^-1", want: "pow(2, -1)"},
		{in: "(1 + 1)^2", want: "pow((1 + 1), 2)"},
		{in: "5 m^2", want: "(5 * pow(m, 2))"},
		{in: "2(3 + 4)", want: "2 * (3 + 4)"},
		{in: ".5 + 1", want: "0.5 + 1"},
		{in: "a-b", want: "a - b"},
		{in: "max(1,2)", want: "max(1, 2)"},
		{in: "+3", want: "3"},
		{in: "x >= 2 && y != 3", want: "x >= 2 && y != 3"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := mathengine.Normalize(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	for _, in := range []string{"2^", "^2", "3 $ 4", `"open`, "2^(3"} {
		t.Run(in, func(t *testing.T) {
			_, err := mathengine.Normalize(in)
			require.Error(t, err)
			require.True(t, errors.Is(err, mathengine.ErrSyntax), "got %v", err)
		})
	}
}
