package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vk/calcnote/internal/ctxlog"
	"github.com/vk/calcnote/internal/inmemorybridge"
	"github.com/vk/calcnote/internal/notebook"
	"github.com/vk/calcnote/internal/render"
	"github.com/vk/calcnote/internal/tui"
	"golang.org/x/sync/errgroup"
)

// Run executes the configured mode until it finishes or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "mode", a.config.Mode)

	var err error
	switch a.config.Mode {
	case ModeEval:
		err = a.runEval(ctx)
	case ModeServe:
		err = a.runServe(ctx)
	default:
		err = a.runTUI(ctx)
	}

	a.logger.Debug("App.Run method finished.", "error", err)
	return err
}

// runEval evaluates a text file once and prints the result.
func (a *App) runEval(ctx context.Context) error {
	inputs, err := readLines(a.config.InputPath)
	if err != nil {
		return err
	}
	b := inmemorybridge.New(&notebook.Snapshot{Lines: notebook.Inputs(inputs...)})

	s, err := a.openSession(ctx, b)
	if err != nil {
		return err
	}
	defer a.closeSession(ctx, s)

	if err := s.FetchRates(ctx); err != nil {
		a.logger.Warn("Currency rates unavailable.", "error", err)
	}
	return render.Lines(a.outW, s.Notebook().Lines(), render.Options{Errors: true})
}

// runTUI runs the interactive editor on the configured store.
func (a *App) runTUI(ctx context.Context) error {
	b, err := newBridge(a.config)
	if err != nil {
		return err
	}
	s, err := a.openSession(ctx, b)
	if err != nil {
		return err
	}
	defer a.closeSession(ctx, s)

	opts := []tui.Option{tui.WithLogger(a.logger)}
	if a.rates != nil {
		opts = append(opts, tui.WithRateLoader(ctx, s.LoadRates))
	}
	program := tea.NewProgram(
		tui.New(s.Notebook(), opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(a.outW),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}

// runServe exposes the notebook over HTTP. The server, the currency
// download and the shutdown watcher run as one errgroup.
func (a *App) runServe(ctx context.Context) error {
	b, err := newBridge(a.config)
	if err != nil {
		return err
	}
	s, err := a.openSession(ctx, b)
	if err != nil {
		return err
	}
	defer a.closeSession(ctx, s)

	g, gctx := errgroup.WithContext(ctx)
	a.startServer(gctx, g, s)
	g.Go(func() error {
		if err := s.FetchRates(gctx); err != nil {
			a.logger.Warn("Currency rates unavailable.", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.closeServer(ctx)
	})
	return g.Wait()
}
