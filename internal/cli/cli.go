package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vk/calcnote/internal/app"
	"github.com/vk/calcnote/internal/currency"
	"github.com/vk/calcnote/internal/mathengine"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("calcnote", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
calcnote - A line-by-line calculator notebook with units and conversions.

Usage:
  calcnote [options] [FILE]

Arguments:
  FILE
    A text file with one expression per line. Implies -mode eval.

Options:
`)
		flagSet.PrintDefaults()
	}

	modeFlag := flagSet.String("mode", "", "Run mode. Options: 'tui', 'eval', 'serve'. Defaults to 'eval' with FILE, else 'tui'.")
	configFlag := flagSet.String("config", "", "Path to an HCL configuration file.")
	storeFlag := flagSet.String("store", "memory", "Where lines are kept. Options: 'memory', 'file', 'host'.")
	storePathFlag := flagSet.String("store-path", "", "YAML file used by the 'file' store.")
	hostURLFlag := flagSet.String("host-url", "", "Socket.IO URL of the host used by the 'host' store.")
	hostNSFlag := flagSet.String("host-namespace", "/", "Socket.IO namespace on the host.")
	widgetFlag := flagSet.String("widget-id", "", "Widget identifier sent to the host. Random when empty.")
	portFlag := flagSet.Int("port", 8080, "Port for the HTTP API in serve mode.")
	currencyURLFlag := flagSet.String("currency-url", currency.DefaultURL, "URL of the currency rate feed.")
	currencyTimeoutFlag := flagSet.Duration("currency-timeout", 10*time.Second, "Timeout for the currency rate download.")
	noCurrencyFlag := flagSet.Bool("no-currency", false, "Do not download currency rates.")
	precisionFlag := flagSet.Int("precision", mathengine.DefaultPrecision, "Significant digits in results (1-17).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFileFlag := flagSet.String("log-file", "", "Write logs to this file. In tui mode logs are dropped otherwise.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	explicit := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	input := ""
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "expected at most one input file"}
	}
	if flagSet.NArg() == 1 {
		input = flagSet.Arg(0)
	}

	mode := strings.ToLower(*modeFlag)
	if mode == "" {
		mode = app.ModeTUI
		if input != "" {
			mode = app.ModeEval
		}
	}
	slog.Debug("Run mode determined.", "mode", mode, "input", input)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Mode:            mode,
		ConfigPath:      *configFlag,
		InputPath:       input,
		Store:           strings.ToLower(*storeFlag),
		StorePath:       *storePathFlag,
		HostURL:         *hostURLFlag,
		HostNamespace:   *hostNSFlag,
		WidgetID:        *widgetFlag,
		Port:            *portFlag,
		CurrencyURL:     *currencyURLFlag,
		CurrencyTimeout: *currencyTimeoutFlag,
		NoCurrency:      *noCurrencyFlag,
		Precision:       *precisionFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		LogFile:         *logFileFlag,
		Explicit:        explicit,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
