package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/calcnote/internal/bridge"
	"github.com/vk/calcnote/internal/ctxlog"
	"github.com/vk/calcnote/internal/currency"
	"github.com/vk/calcnote/internal/mathengine"
	"github.com/vk/calcnote/internal/session"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	logCloser  io.Closer
	config     *Config
	engine     *mathengine.Engine
	rates      *currency.Client
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Results go to outW;
// logs go to errW, a log file, or nowhere in terminal UI mode.
func NewApp(outW, errW io.Writer, cfg *Config) (*App, error) {
	logW, logCloser, err := logOutput(cfg, errW)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:      outW,
		logger:    logger,
		logCloser: logCloser,
		config:    cfg,
	}
	if err := loadConfigFile(ctx, cfg); err != nil {
		a.Close()
		return nil, err
	}

	eng, err := newEngine(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.engine = eng
	a.rates = newRateClient(cfg)
	logger.Debug("App initialized.", "mode", cfg.Mode, "store", cfg.Store, "currency", a.rates != nil)
	return a, nil
}

// Engine returns the application's expression engine. This is primarily
// for testing.
func (a *App) Engine() *mathengine.Engine {
	return a.engine
}

// Close releases resources that outlive a single Run.
func (a *App) Close() error {
	var errs []error
	if a.rates != nil {
		errs = append(errs, a.rates.Close())
	}
	if a.logCloser != nil {
		errs = append(errs, a.logCloser.Close())
	}
	return errors.Join(errs...)
}

func (a *App) openSession(ctx context.Context, b bridge.Bridge) (*session.Session, error) {
	opts := session.Options{
		Bridge: b,
		Engine: a.engine,
		Seed:   a.config.Seed,
	}
	if a.rates != nil {
		opts.Rates = a.rates
	}
	return session.Open(ctx, opts)
}

func (a *App) closeSession(ctx context.Context, s *session.Session) {
	if err := s.Close(context.WithoutCancel(ctx)); err != nil {
		a.logger.Warn("Failed to close session cleanly.", "error", err)
	}
}
