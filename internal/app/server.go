package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/vk/calcnote/internal/ctxlog"
	"github.com/vk/calcnote/internal/notebook"
	"github.com/vk/calcnote/internal/render"
	"github.com/vk/calcnote/internal/session"
	"golang.org/x/sync/errgroup"
)

type linesResponse struct {
	Lines []notebook.Line `json:"lines"`
	Focus int             `json:"focus"`
}

type addLineRequest struct {
	At    *int   `json:"at,omitempty"`
	Input string `json:"input"`
}

type addLineResponse struct {
	Index int           `json:"index"`
	Line  notebook.Line `json:"line"`
}

type setLineRequest struct {
	Input string `json:"input"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// api serves one session over HTTP.
type api struct {
	ctx     context.Context
	session *session.Session
}

// routes builds the HTTP API for s. ctx carries the logger.
func routes(ctx context.Context, s *session.Session) http.Handler {
	h := &api{ctx: ctx, session: s}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /lines", h.listLines)
	mux.HandleFunc("POST /lines", h.addLine)
	mux.HandleFunc("PUT /lines/{index}", h.setLine)
	mux.HandleFunc("DELETE /lines/{index}", h.removeLine)
	mux.HandleFunc("POST /refresh", h.refresh)
	mux.HandleFunc("GET /help", h.help)
	return mux
}

func (h *api) health(w http.ResponseWriter, r *http.Request) {
	ctxlog.FromContext(h.ctx).Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (h *api) listLines(w http.ResponseWriter, r *http.Request) {
	nb := h.session.Notebook()
	writeJSON(w, http.StatusOK, linesResponse{Lines: nb.Lines(), Focus: nb.Focus()})
}

func (h *api) addLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if !h.decode(w, r, &req) {
		return
	}
	nb := h.session.Notebook()
	at := nb.Len()
	if req.At != nil {
		at = *req.At
	}
	i := nb.AddLine(at)
	if req.Input != "" {
		nb.SetInput(i, req.Input)
	}
	line, _ := nb.Line(i)
	ctxlog.FromContext(h.ctx).Debug("Line added over HTTP.", "index", i)
	writeJSON(w, http.StatusCreated, addLineResponse{Index: i, Line: line})
}

func (h *api) setLine(w http.ResponseWriter, r *http.Request) {
	i, ok := h.index(w, r)
	if !ok {
		return
	}
	var req setLineRequest
	if !h.decode(w, r, &req) {
		return
	}
	nb := h.session.Notebook()
	if !nb.SetInput(i, req.Input) {
		notFound(w, i)
		return
	}
	line, ok := nb.Line(i)
	if !ok {
		notFound(w, i)
		return
	}
	writeJSON(w, http.StatusOK, line)
}

func (h *api) removeLine(w http.ResponseWriter, r *http.Request) {
	i, ok := h.index(w, r)
	if !ok {
		return
	}
	nb := h.session.Notebook()
	if !nb.RemoveLine(i) {
		if _, ok := nb.Line(i); !ok {
			notFound(w, i)
			return
		}
		writeJSON(w, http.StatusConflict, errorResponse{Error: "the last line cannot be removed"})
		return
	}
	writeJSON(w, http.StatusOK, linesResponse{Lines: nb.Lines(), Focus: nb.Focus()})
}

func (h *api) refresh(w http.ResponseWriter, r *http.Request) {
	nb := h.session.Notebook()
	if _, err := h.session.LoadRates(r.Context()); err != nil {
		ctxlog.FromContext(h.ctx).Warn("Currency rates unavailable.", "error", err)
	}
	nb.Refresh()
	writeJSON(w, http.StatusOK, linesResponse{Lines: nb.Lines(), Focus: nb.Focus()})
}

func (h *api) help(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, render.Topics())
}

// index parses the {index} path value. Range checks are left to the
// notebook operation so a concurrent delete cannot slip in between.
func (h *api) index(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "line index must be an integer"})
		return 0, false
	}
	return i, true
}

func notFound(w http.ResponseWriter, i int) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("no line at index %d", i)})
}

func (h *api) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// startServer runs the HTTP API inside g.
func (a *App) startServer(ctx context.Context, g *errgroup.Group, s *session.Session) {
	a.logger.Debug("Configuring HTTP API server.")
	addr := fmt.Sprintf(":%d", a.config.Port)
	a.httpServer = &http.Server{
		Addr:    addr,
		Handler: routes(ctx, s),
	}

	g.Go(func() error {
		a.logger.Info("🌐 HTTP API starting", "address", fmt.Sprintf("http://localhost%s/lines", addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP API server failed: %w", err)
		}
		return nil
	})
}

func (a *App) closeServer(ctx context.Context) error {
	a.logger.Debug("Closing HTTP API server...")
	if a.httpServer == nil {
		a.logger.Debug("HTTP API server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	a.logger.Info("🌐 Shutting down HTTP API server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP API server shutdown failed", "error", err)
		return err
	}
	a.logger.Debug("HTTP API server shut down gracefully.")
	return nil
}
