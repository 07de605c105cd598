package config

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/calcnote/internal/ctxlog"
	"github.com/vk/calcnote/internal/fsutil"
	"github.com/vk/calcnote/internal/units"
)

// StorageKinds lists the accepted values of storage.kind.
var StorageKinds = []string{"memory", "file", "host"}

// Load parses and validates the configuration at path. A directory is
// searched for .hcl files, which are merged in lexical order.
func Load(ctx context.Context, path string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Config loader started.", "path", path)

	paths, err := fsutil.FindFiles(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find configuration files in %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	var merged File
	for _, p := range paths {
		hclFile, diags := parser.ParseHCLFile(p)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", p, diags)
		}

		var f File
		diags = gohcl.DecodeBody(hclFile.Body, nil, &f)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", p, diags)
		}
		merged.merge(&f)
		logger.Debug("Config file decoded.", "file", p)
	}

	if err := merged.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	logger.Debug("Config loaded.", "files", len(paths), "units", len(merged.Units), "seed_lines", len(merged.Seed))
	return &merged, nil
}

// merge folds o into f. Later files win for single values; units accumulate.
func (f *File) merge(o *File) {
	if o.Precision != nil {
		f.Precision = o.Precision
	}
	if len(o.Seed) > 0 {
		f.Seed = o.Seed
	}
	f.Units = append(f.Units, o.Units...)
	if o.Currency != nil {
		f.Currency = o.Currency
	}
	if o.Storage != nil {
		f.Storage = o.Storage
	}
}

func (f *File) validate() error {
	if f.Precision != nil && (*f.Precision < 1 || *f.Precision > 17) {
		return fmt.Errorf("precision must be between 1 and 17, got %d", *f.Precision)
	}

	seen := make(map[string]bool, len(f.Units))
	for _, u := range f.Units {
		if !units.ValidName(u.Name) {
			return fmt.Errorf("unit %q: not a valid name", u.Name)
		}
		if seen[u.Name] {
			return fmt.Errorf("unit %q: defined more than once", u.Name)
		}
		seen[u.Name] = true
	}

	if f.Currency != nil && f.Currency.Timeout != "" {
		d, err := time.ParseDuration(f.Currency.Timeout)
		if err != nil {
			return fmt.Errorf("currency timeout: %w", err)
		}
		f.Currency.TimeoutDuration = d
	}

	if f.Storage != nil && f.Storage.Kind != "" {
		if !slices.Contains(StorageKinds, f.Storage.Kind) {
			return fmt.Errorf("storage kind %q: must be one of memory, file, host", f.Storage.Kind)
		}
	}
	return nil
}
