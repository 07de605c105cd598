package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/calcnote/internal/testutil"
)

// TestNotebook_UnitArithmetic runs the data-size walkthrough end to end.
func TestNotebook_UnitArithmetic(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		testutil.NotebookFile: `users = 500
dataPerUser = 100 KB
totalData = users * dataPerUser
totalData to MB
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertLineResult(t, result, 1, "500")
	testutil.AssertLineResult(t, result, 2, "100 KB")
	testutil.AssertLineResult(t, result, 3, "50000 KB")
	testutil.AssertLineResult(t, result, 4, "50 MB")
}

func TestNotebook_ConversionsAndSpeed(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		testutil.NotebookFile: `temperature = 72 degF to degC
distance = 5 km + 300 m
speed = distance / 15 min
speed to km/h
`,
	}

	result := testutil.RunIntegrationTest(t, files)

	require.NoError(t, result.Err)
	testutil.AssertLineResult(t, result, 1, "22.222222222222 degC")
	testutil.AssertLineResult(t, result, 2, "5.3 km")
	testutil.AssertLineResult(t, result, 4, "21.2 km / h")
}

func TestNotebook_CommentsAndErrors(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		testutil.NotebookFile: `// note
5 + 5
x = 1/0
y = x + 1
# another note
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Equal(t, "1 │ // note", testutil.Row(t, result, 1))
	testutil.AssertLineResult(t, result, 2, "10")
	testutil.AssertLineResult(t, result, 3, "Error")
	testutil.AssertOutputContains(t, result, "Division by zero")
	testutil.AssertLineResult(t, result, 4, "Error")
	require.Equal(t, "5 │ # another note", testutil.Row(t, result, 5))
}

func TestNotebook_UndefinedSymbolSuggestion(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		testutil.NotebookFile: "distance = 10 km\ndistanse * 2\n",
	}

	result := testutil.RunIntegrationTest(t, files)

	require.NoError(t, result.Err)
	testutil.AssertLineResult(t, result, 2, "Error")
	testutil.AssertOutputContains(t, result, "did you mean")
}

func TestNotebook_EmptyFile(t *testing.T) {
	t.Parallel()

	result := testutil.RunIntegrationTest(t, map[string]string{testutil.NotebookFile: ""})

	require.NoError(t, result.Err)
	require.Equal(t, "1 │ ", testutil.Row(t, result, 1))
	require.NotContains(t, result.Output, "Welcome", "an empty file is not replaced by the seed")
}
