package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/require"
)

func TestRun_StartupError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A configuration file with a syntax error fails while the app is built.
	invalidHCL := `
		unit "widget" {
			definition = "2 m"
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "calcnote.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(invalidHCL), 0600), "failed to set up test file")

	args := []string{"-config", cfgPath, "-mode", "eval", "-no-currency", filepath.Join(tempDir, "in.calc")}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should fail when the configuration file is invalid")
	require.Contains(t, runErr.Error(), "startup failed")
	require.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_EvalFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "trip.calc")
	require.NoError(t, os.WriteFile(input, []byte("distance = 5 km + 300 m\nspeed = distance / 15 min\nspeed to km/h\n"), 0600))
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-no-currency", input})

	// --- Assert ---
	require.NoError(t, err)
	text := color.ClearCode(out.String())
	require.Contains(t, text, "5.3 km")
	require.Contains(t, text, "21.2 km / h")
}
