package app

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/vk/calcnote/internal/config"
	"github.com/vk/calcnote/internal/mathengine"
)

// Run modes.
const (
	ModeTUI   = "tui"
	ModeEval  = "eval"
	ModeServe = "serve"
)

// Modes lists every run mode.
var Modes = []string{ModeTUI, ModeEval, ModeServe}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Mode       string
	ConfigPath string // optional HCL file
	InputPath  string // text file evaluated in eval mode

	Store         string
	StorePath     string
	HostURL       string
	HostNamespace string
	WidgetID      string

	Port int

	CurrencyURL     string
	CurrencyTimeout time.Duration
	NoCurrency      bool

	Precision int
	Seed      []string
	Units     []*config.Unit

	LogFormat string
	LogLevel  string
	LogFile   string

	// Explicit holds the flag names the user set. Values from the
	// configuration file never override them.
	Explicit map[string]bool
}

// NewConfig fills defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Mode == "" {
		cfg.Mode = ModeTUI
	}
	if !slices.Contains(Modes, cfg.Mode) {
		return nil, fmt.Errorf("invalid mode %q: must be one of %v", cfg.Mode, Modes)
	}
	if cfg.Mode == ModeEval && cfg.InputPath == "" {
		return nil, errors.New("eval mode requires an input file")
	}
	if cfg.Store == "" {
		cfg.Store = "memory"
	}
	if cfg.Precision == 0 {
		cfg.Precision = mathengine.DefaultPrecision
	}
	if cfg.Explicit == nil {
		cfg.Explicit = map[string]bool{}
	}
	// With a configuration file, validation waits for Merge.
	if cfg.ConfigPath == "" {
		if err := cfg.validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if !slices.Contains(config.StorageKinds, c.Store) {
		return fmt.Errorf("invalid store %q: must be one of %v", c.Store, config.StorageKinds)
	}
	if c.Store == "file" && c.StorePath == "" {
		return errors.New("file store requires a store path")
	}
	if c.Store == "host" && c.HostURL == "" {
		return errors.New("host store requires a host URL")
	}
	if c.Precision < 1 || c.Precision > 17 {
		return fmt.Errorf("precision must be between 1 and 17, got %d", c.Precision)
	}
	if c.Mode == ModeServe && (c.Port < 1 || c.Port > 65535) {
		return fmt.Errorf("serve mode requires a port between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Merge copies values from a configuration file into c, skipping anything
// set explicitly on the command line, and validates the result.
func (c *Config) Merge(f *config.File) error {
	if f == nil {
		return nil
	}
	if f.Precision != nil && !c.Explicit["precision"] {
		c.Precision = *f.Precision
	}
	if len(f.Seed) > 0 {
		c.Seed = f.Seed
	}
	c.Units = append(c.Units, f.Units...)

	if cur := f.Currency; cur != nil {
		if cur.Enabled != nil && !*cur.Enabled && !c.Explicit["no-currency"] {
			c.NoCurrency = true
		}
		if cur.URL != "" && !c.Explicit["currency-url"] {
			c.CurrencyURL = cur.URL
		}
		if cur.TimeoutDuration > 0 && !c.Explicit["currency-timeout"] {
			c.CurrencyTimeout = cur.TimeoutDuration
		}
	}

	if s := f.Storage; s != nil {
		if s.Kind != "" && !c.Explicit["store"] {
			c.Store = s.Kind
		}
		if s.Path != "" && !c.Explicit["store-path"] {
			c.StorePath = s.Path
		}
		if s.HostURL != "" && !c.Explicit["host-url"] {
			c.HostURL = s.HostURL
		}
		if s.Namespace != "" && !c.Explicit["host-namespace"] {
			c.HostNamespace = s.Namespace
		}
		if s.WidgetID != "" && !c.Explicit["widget-id"] {
			c.WidgetID = s.WidgetID
		}
	}
	return c.validate()
}
