package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/calcnote/internal/testutil"
)

// TestConfig_CustomUnitsAndPrecision validates that units declared in the
// configuration file are usable and that precision applies to results.
func TestConfig_CustomUnitsAndPrecision(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		testutil.ConfigFile: `
precision = 5

unit "widget" {}

unit "crate" {
  definition = "12 widget"
}
`,
		testutil.NotebookFile: `3 crate to widget
pi
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertLineResult(t, result, 1, "36 widget")
	testutil.AssertLineResult(t, result, 2, "3.1416")
}

func TestConfig_InvalidFileIsRejected(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		hcl     string
		wantErr string
	}{
		{
			name:    "syntax error",
			hcl:     `precision = `,
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "precision out of range",
			hcl:     `precision = 99`,
			wantErr: "precision",
		},
		{
			name: "unknown storage kind",
			hcl: `
storage {
  kind = "s3"
}
`,
			wantErr: "s3",
		},
		{
			name: "unit redefines a builtin",
			hcl: `
unit "m" {
  definition = "2 ft"
}
`,
			wantErr: `failed to define unit "m"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			files := map[string]string{
				testutil.ConfigFile:   tc.hcl,
				testutil.NotebookFile: "1",
			}

			result := testutil.RunIntegrationTest(t, files)

			require.Error(t, result.Err)
			require.Contains(t, result.Err.Error(), tc.wantErr)
		})
	}
}
