// Package notebook holds the ordered lines of a calculator notebook and
// keeps every line's result consistent with the lines above it.
package notebook

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/vk/calcnote/internal/mathengine"
	"github.com/zclconf/go-cty/cty"
)

// Evaluator is the expression capability the notebook drives.
type Evaluator interface {
	Evaluate(expr string, bindings mathengine.Bindings) (cty.Value, error)
	Convert(v cty.Value, unit string) (cty.Value, error)
	Format(v cty.Value) string
}

// Option configures a Notebook.
type Option func(*Notebook)

// WithLogger sets the logger used for evaluation debug output.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notebook) {
		if l != nil {
			n.logger = l
		}
	}
}

// Notebook is the line store and evaluation driver. All methods are safe
// for concurrent use.
type Notebook struct {
	mu     sync.Mutex
	eval   Evaluator
	logger *slog.Logger

	lines []Line
	// scopes[i] holds the bindings visible to line i; scopes[len(lines)] is
	// the scope after the last line. Scopes are never mutated in place.
	scopes []mathengine.Bindings
	focus  int
	// revision increases with every change and stamps the snapshots sent to
	// listeners.
	revision uint64

	listeners []func(Snapshot)
}

// New creates a notebook from lines and evaluates it. An empty lines slice
// yields a single blank line.
func New(eval Evaluator, lines []Line, opts ...Option) *Notebook {
	n := &Notebook{eval: eval, logger: slog.Default()}
	for _, opt := range opts {
		opt(n)
	}
	n.reset(lines)
	n.replayLocked()
	return n
}

// OnChange registers fn to be called with a snapshot whenever an operation
// changes at least one line.
func (n *Notebook) OnChange(fn func(Snapshot)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

// Len returns the number of lines.
func (n *Notebook) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.lines)
}

// Lines returns a copy of all lines.
func (n *Notebook) Lines() []Line {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.lines)
}

// Line returns line i.
func (n *Notebook) Line(i int) (Line, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if i < 0 || i >= len(n.lines) {
		return Line{}, false
	}
	return n.lines[i], true
}

// Snapshot returns the persisted form of the notebook.
func (n *Notebook) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Snapshot{Lines: slices.Clone(n.lines), Revision: n.revision}
}

// Focus returns the index of the focused line.
func (n *Notebook) Focus() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.focus
}

// SetFocus moves focus to i, clamped to the existing lines.
func (n *Notebook) SetFocus(i int) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.focus = max(0, min(i, len(n.lines)-1))
	return n.focus
}

// BindingsAt returns a copy of the bindings visible to line i. Passing
// Len() returns the bindings after the last line.
func (n *Notebook) BindingsAt(i int) mathengine.Bindings {
	n.mu.Lock()
	defer n.mu.Unlock()
	if i < 0 || i >= len(n.scopes) {
		return mathengine.Bindings{}
	}
	return n.scopes[i].Clone()
}

// SetInput replaces the text of line i and re-evaluates from there.
func (n *Notebook) SetInput(i int, text string) bool {
	return n.mutate(func() bool {
		if i < 0 || i >= len(n.lines) {
			return false
		}
		n.lines[i].Input = text
		n.cascadeLocked(i)
		return true
	})
}

// EvaluateLine re-evaluates line i and every line below it.
func (n *Notebook) EvaluateLine(i int) bool {
	return n.mutate(func() bool {
		if i < 0 || i >= len(n.lines) {
			return false
		}
		n.cascadeLocked(i)
		return true
	})
}

// AddLine inserts a blank line at index at, or appends when at is out of
// range, focuses it and returns its index.
func (n *Notebook) AddLine(at int) int {
	var idx int
	n.mutate(func() bool {
		if at < 0 || at > len(n.lines) {
			at = len(n.lines)
		}
		n.lines = slices.Insert(n.lines, at, Line{})
		n.focus = at
		idx = at
		n.replayLocked()
		return true
	})
	return idx
}

// InsertAfter adds a blank line below line i.
func (n *Notebook) InsertAfter(i int) int {
	return n.AddLine(i + 1)
}

// RemoveLine deletes line i. The last remaining line cannot be removed.
func (n *Notebook) RemoveLine(i int) bool {
	return n.mutate(func() bool {
		if len(n.lines) <= 1 || i < 0 || i >= len(n.lines) {
			return false
		}
		n.lines = slices.Delete(n.lines, i, i+1)
		n.focus = min(i, len(n.lines)-1)
		n.replayLocked()
		return true
	})
}

// Load replaces every line, focuses the first one and evaluates all of them.
func (n *Notebook) Load(lines []Line) {
	n.mutate(func() bool {
		n.reset(lines)
		n.replayLocked()
		return true
	})
}

// Replay evaluates every line from an empty binding table.
func (n *Notebook) Replay() {
	n.mutate(func() bool {
		n.replayLocked()
		return true
	})
}

// Refresh re-evaluates everything after the evaluator learned new symbols,
// such as currency units.
func (n *Notebook) Refresh() {
	n.logger.Debug("Refreshing notebook after capability change.")
	n.Replay()
}

// mutate runs op under the lock and notifies listeners if any line changed.
// Listeners run outside the lock, so concurrent mutations may deliver their
// snapshots out of order; Snapshot.Revision tells them apart.
func (n *Notebook) mutate(op func() bool) bool {
	n.mu.Lock()
	before := slices.Clone(n.lines)
	ok := op()
	changed := !slices.Equal(before, n.lines)
	var (
		snap      Snapshot
		listeners []func(Snapshot)
	)
	if changed {
		n.revision++
		snap = Snapshot{Lines: slices.Clone(n.lines), Revision: n.revision}
		listeners = slices.Clone(n.listeners)
	}
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
	return ok
}

func (n *Notebook) reset(lines []Line) {
	n.lines = append(make([]Line, 0, max(1, len(lines))), lines...)
	if len(n.lines) == 0 {
		n.lines = append(n.lines, Line{})
	}
	n.focus = 0
}

func (n *Notebook) replayLocked() {
	n.scopes = make([]mathengine.Bindings, len(n.lines)+1)
	n.scopes[0] = mathengine.Bindings{}
	n.cascadeLocked(0)
}

// cascadeLocked evaluates line start against its scope checkpoint, then every
// line after it.
func (n *Notebook) cascadeLocked(start int) {
	if len(n.scopes) != len(n.lines)+1 {
		n.replayLocked()
		return
	}
	for i := start; i < len(n.lines); i++ {
		scope := n.scopes[i]
		out := evaluateInput(n.eval, n.lines[i].Input, scope)
		n.lines[i] = out.line
		if out.bound {
			scope = scope.Clone()
			scope[out.name] = out.value
		}
		n.scopes[i+1] = scope
		if out.line.HasError {
			n.logger.Debug("Line evaluated with error.", "line", i+1, "input", out.line.Input, "error", out.line.ErrorMessage)
		}
	}
}
