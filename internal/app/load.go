package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vk/calcnote/internal/config"
	"github.com/vk/calcnote/internal/ctxlog"
	"github.com/vk/calcnote/internal/currency"
	"github.com/vk/calcnote/internal/mathengine"
)

// loadConfigFile merges the optional HCL file into the app config.
func loadConfigFile(ctx context.Context, cfg *Config) error {
	logger := ctxlog.FromContext(ctx)
	if cfg.ConfigPath == "" {
		logger.Debug("No configuration file given.")
		return nil
	}
	logger.Debug("Loading configuration file...", "path", cfg.ConfigPath)

	file, err := config.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Merge(file); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", cfg.ConfigPath, err)
	}
	logger.Debug("Configuration file merged.", "units", len(file.Units), "seed_lines", len(file.Seed))
	return nil
}

// newEngine builds the expression engine and registers custom units in
// file order, so later units may refer to earlier ones.
func newEngine(ctx context.Context, cfg *Config) (*mathengine.Engine, error) {
	logger := ctxlog.FromContext(ctx)
	eng := mathengine.New(mathengine.WithPrecision(cfg.Precision))
	for _, u := range cfg.Units {
		if err := eng.DefineUnit(u.Name, u.Definition); err != nil {
			return nil, fmt.Errorf("failed to define unit %q: %w", u.Name, err)
		}
		logger.Debug("Custom unit defined.", "name", u.Name, "definition", u.Definition)
	}
	return eng, nil
}

// newRateClient returns nil when currency rates are disabled.
func newRateClient(cfg *Config) *currency.Client {
	if cfg.NoCurrency {
		return nil
	}
	return currency.New(currency.Options{URL: cfg.CurrencyURL, Timeout: cfg.CurrencyTimeout})
}

// readLines reads a text file as notebook inputs. An empty file is one
// empty line.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	text := strings.TrimRight(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	return strings.Split(text, "\n"), nil
}
