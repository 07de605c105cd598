package integration_tests

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vk/calcnote/internal/cli"
)

// Test for: displays help
func TestCLI_DisplaysHelp_WhenHelpFlagIsGiven(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	outW := &bytes.Buffer{}

	// --- Act ---
	appConfig, shouldExit, err := cli.Parse([]string{"-help"}, outW)

	// --- Assert ---
	if err != nil {
		t.Fatalf("cli.Parse() returned an unexpected error: %v", err)
	}

	if !shouldExit {
		t.Fatal("cli.Parse() should have indicated an exit, but it did not")
	}

	for _, want := range []string{"Usage:", "-mode", "-store", "-no-currency"} {
		if !strings.Contains(outW.String(), want) {
			t.Errorf("expected output to contain %q, but got:\n%s", want, outW.String())
		}
	}

	if appConfig != nil {
		t.Errorf("expected a nil Config when displaying help, but got a non-nil config")
	}
}
