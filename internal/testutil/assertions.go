package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Row returns rendered line n (1-based) without its leading padding. It
// fails the test when the line is missing.
func Row(t *testing.T, result *HarnessResult, n int) string {
	t.Helper()
	prefix := fmt.Sprintf("%d │ ", n)
	for _, line := range strings.Split(result.Output, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, prefix) {
			return trimmed
		}
	}
	require.Failf(t, "line not rendered", "line %d not found in output:\n%s", n, result.Output)
	return ""
}

// AssertLineResult checks that rendered line n shows want as its result.
func AssertLineResult(t *testing.T, result *HarnessResult, n int, want string) {
	t.Helper()
	row := Row(t, result, n)
	require.True(t,
		strings.HasSuffix(row, "  "+want),
		"expected line %d to end with result %q, got %q", n, want, row,
	)
}

// AssertOutputContains checks the rendered output, including error rows.
func AssertOutputContains(t *testing.T, result *HarnessResult, want string) {
	t.Helper()
	require.True(t,
		strings.Contains(result.Output, want),
		"expected output to contain %q, got:\n%s", want, result.Output,
	)
}
