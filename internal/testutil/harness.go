package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/require"
	"github.com/vk/calcnote/internal/app"
)

// Names of the files the harness looks for in the test's file map.
const (
	NotebookFile = "notebook.calc"
	ConfigFile   = "calcnote.hcl"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// Output is the rendered notebook with color codes removed.
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// RunIntegrationTest evaluates NotebookFile from files in eval mode with
// currency downloads disabled, using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithConfig(context.Background(), t, files, app.Config{NoCurrency: true})
}

// RunIntegrationTestWithConfig is RunIntegrationTest with a caller-provided
// context and base configuration. Mode, paths and logging are filled in by
// the harness.
func RunIntegrationTestWithConfig(ctx context.Context, t *testing.T, files map[string]string, base app.Config) *HarnessResult {
	t.Helper()

	// 1. Create a temporary root directory for the test.
	tmpDir := t.TempDir()

	// 2. Write all files to the temporary directory.
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	// 3. Point the app at the written files.
	base.Mode = app.ModeEval
	base.InputPath = filepath.Join(tmpDir, NotebookFile)
	if _, ok := files[ConfigFile]; ok {
		base.ConfigPath = filepath.Join(tmpDir, ConfigFile)
	}
	base.LogLevel = "debug"
	base.LogFormat = "text"

	logBuffer := &SafeBuffer{}
	outBuffer := &SafeBuffer{}

	result := func(a *app.App, err error) *HarnessResult {
		if os.Getenv("CALCNOTE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
		return &HarnessResult{
			Output:    color.ClearCode(outBuffer.String()),
			LogOutput: logBuffer.String(),
			Err:       err,
			App:       a,
		}
	}

	cfg, err := app.NewConfig(base)
	if err != nil {
		return result(nil, fmt.Errorf("invalid configuration: %w", err))
	}

	testApp, err := app.NewApp(outBuffer, logBuffer, cfg)
	if err != nil {
		return result(nil, err)
	}
	t.Cleanup(func() { testApp.Close() })

	return result(testApp, testApp.Run(ctx))
}
