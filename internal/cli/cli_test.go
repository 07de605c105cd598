package cli_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vk/calcnote/internal/app"
	"github.com/vk/calcnote/internal/cli"
	"github.com/vk/calcnote/internal/currency"
	"github.com/vk/calcnote/internal/mathengine"
)

// defaults returns the configuration produced by no flags at all, with
// overrides applied.
func defaults(override func(c *app.Config)) *app.Config {
	c := &app.Config{
		Mode:            app.ModeTUI,
		Store:           "memory",
		HostNamespace:   "/",
		Port:            8080,
		CurrencyURL:     currency.DefaultURL,
		CurrencyTimeout: 10 * time.Second,
		Precision:       mathengine.DefaultPrecision,
		LogFormat:       "text",
		LogLevel:        "info",
		Explicit:        map[string]bool{},
	}
	if override != nil {
		override(c)
	}
	return c
}

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErr      bool
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name:           "No arguments starts the terminal UI",
			args:           []string{},
			expectedConfig: defaults(nil),
		},
		{
			name: "Positional file implies eval mode",
			args: []string{"budget.calc"},
			expectedConfig: defaults(func(c *app.Config) {
				c.Mode = app.ModeEval
				c.InputPath = "budget.calc"
			}),
		},
		{
			name: "Happy Path with all flags",
			args: []string{
				"-mode", "serve",
				"--store=file",
				"--store-path=/tmp/notes.yaml",
				"--port=9090",
				"--no-currency",
				"--precision=6",
				"--log-level=debug",
				"--log-format=json",
				"--log-file=/tmp/calcnote.log",
			},
			expectedConfig: defaults(func(c *app.Config) {
				c.Mode = app.ModeServe
				c.Store = "file"
				c.StorePath = "/tmp/notes.yaml"
				c.Port = 9090
				c.NoCurrency = true
				c.Precision = 6
				c.LogLevel = "debug"
				c.LogFormat = "json"
				c.LogFile = "/tmp/calcnote.log"
				c.Explicit = map[string]bool{
					"mode": true, "store": true, "store-path": true, "port": true, "no-currency": true,
					"precision": true, "log-level": true, "log-format": true, "log-file": true,
				}
			}),
		},
		{
			name: "Host store flags",
			args: []string{"-store", "host", "-host-url", "http://localhost:3000", "-host-namespace", "/widgets", "-widget-id", "w1"},
			expectedConfig: defaults(func(c *app.Config) {
				c.Store = "host"
				c.HostURL = "http://localhost:3000"
				c.HostNamespace = "/widgets"
				c.WidgetID = "w1"
				c.Explicit = map[string]bool{"store": true, "host-url": true, "host-namespace": true, "widget-id": true}
			}),
		},
		{
			name:       "Help flag triggers clean exit",
			args:       []string{"-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "Expected help text to be printed")
			},
		},
		{
			name:      "Invalid log level returns an error",
			args:      []string{"--log-level=foo"},
			expectErr: true,
		},
		{
			name:      "Invalid log format returns an error",
			args:      []string{"--log-format=yaml"},
			expectErr: true,
		},
		{
			name:      "Invalid mode returns an error",
			args:      []string{"-mode", "gui"},
			expectErr: true,
		},
		{
			name:      "File store needs a path",
			args:      []string{"-store", "file"},
			expectErr: true,
		},
		{
			name:      "Precision out of range",
			args:      []string{"-precision", "40"},
			expectErr: true,
		},
		{
			name:      "Two input files",
			args:      []string{"a.calc", "b.calc"},
			expectErr: true,
		},
		{
			name:      "Unknown flag",
			args:      []string{"-workers", "4"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			out := &bytes.Buffer{}

			// --- Act ---
			appConfig, shouldExit, err := cli.Parse(tc.args, out)

			// --- Assert ---
			if tc.expectErr {
				require.Error(t, err)
				exitErr, isExitError := err.(*cli.ExitError)
				require.True(t, isExitError, "Expected error to be of type ExitError")
				require.Equal(t, 2, exitErr.Code)
				return
			}
			require.NoError(t, err)

			require.Equal(t, tc.expectExit, shouldExit)

			if tc.expectedConfig != nil {
				if diff := cmp.Diff(tc.expectedConfig, appConfig); diff != "" {
					t.Errorf("Config mismatch (-want +got):\n%s", diff)
				}
			}

			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
		})
	}
}
