// Package session wires a notebook to its engine, its storage bridge and
// the background autosaver, and runs the startup flow: connect, load or
// seed, evaluate, subscribe.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/calcnote/internal/autosave"
	"github.com/vk/calcnote/internal/bridge"
	"github.com/vk/calcnote/internal/ctxlog"
	"github.com/vk/calcnote/internal/currency"
	"github.com/vk/calcnote/internal/mathengine"
	"github.com/vk/calcnote/internal/notebook"
)

// DefaultSeed is shown when the bridge has nothing stored.
var DefaultSeed = []string{
	"// Welcome! Type math, units and conversions; results update as you type.",
	"users = 500",
	"dataPerUser = 100 KB",
	"totalData = users * dataPerUser",
	"totalData to MB",
	"temperature = 72 degF to degC",
	"distance = 5 km + 300 m",
	"speed = distance / 15 min",
	"speed to km/h",
}

// RateSource provides currency rates relative to USD.
type RateSource interface {
	Fetch(ctx context.Context) (map[string]float64, error)
}

// Options configures Open.
type Options struct {
	Bridge bridge.Bridge
	Engine *mathengine.Engine
	// Seed replaces DefaultSeed when set.
	Seed []string
	// Rates is optional; without it FetchRates is a no-op.
	Rates RateSource
}

// Session is one open notebook and the resources behind it.
type Session struct {
	nb     *notebook.Notebook
	engine *mathengine.Engine
	bridge bridge.Bridge
	saver  *autosave.Autosaver
	rates  RateSource
}

// Open connects the bridge, restores or seeds the lines, evaluates them and
// starts autosaving. Load failures fall back to the seed.
func Open(ctx context.Context, opts Options) (*Session, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("session.Open called")

	if opts.Bridge == nil {
		return nil, errors.New("session: a bridge is required")
	}
	if opts.Engine == nil {
		opts.Engine = mathengine.New()
	}
	seed := opts.Seed
	if len(seed) == 0 {
		seed = DefaultSeed
	}

	if err := opts.Bridge.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	lines := notebook.Inputs(seed...)
	snap, err := opts.Bridge.Load(ctx)
	switch {
	case err != nil:
		logger.Warn("Failed to load stored lines, using seed.", "error", err)
	case snap == nil || len(snap.Lines) == 0:
		logger.Debug("Nothing stored, using seed.", "lines", len(lines))
	default:
		lines = snap.Lines
		logger.Debug("Restored stored lines.", "lines", len(lines))
	}

	nb := notebook.New(opts.Engine, lines, notebook.WithLogger(logger))

	saver := autosave.New(opts.Bridge)
	saver.Start(context.WithoutCancel(ctx))
	nb.OnChange(saver.Submit)

	logger.Info("📒 Notebook ready", "lines", nb.Len())
	return &Session{
		nb:     nb,
		engine: opts.Engine,
		bridge: opts.Bridge,
		saver:  saver,
		rates:  opts.Rates,
	}, nil
}

// Notebook returns the live notebook.
func (s *Session) Notebook() *notebook.Notebook {
	return s.nb
}

// Engine returns the expression engine shared with the notebook.
func (s *Session) Engine() *mathengine.Engine {
	return s.engine
}

// LoadRates downloads currency rates and registers them as units without
// re-evaluating the notebook. It returns the number of units registered.
func (s *Session) LoadRates(ctx context.Context) (int, error) {
	if s.rates == nil {
		return 0, nil
	}
	rates, err := s.rates.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	return currency.Register(ctx, s.engine, rates)
}

// FetchRates runs LoadRates and re-evaluates the notebook. It is meant to
// run in the background; callers log the error and carry on.
func (s *Session) FetchRates(ctx context.Context) error {
	if s.rates == nil {
		return nil
	}
	n, err := s.LoadRates(ctx)
	if n > 0 {
		s.nb.Refresh()
	}
	return err
}

// Close writes any pending snapshot and disconnects the bridge.
func (s *Session) Close(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("session.Close called")

	var errs []error
	if err := s.saver.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to flush autosave: %w", err))
	}
	if err := s.bridge.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}
	return errors.Join(errs...)
}
