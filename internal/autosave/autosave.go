// Package autosave writes notebook snapshots in the background.
//
// Submissions never block the caller. A single worker goroutine saves the
// most recent snapshot; snapshots submitted while a save is in flight
// replace each other, so only the latest one is written next. Snapshots
// carrying a revision older than one already submitted are dropped. Save
// failures are logged and otherwise ignored.
package autosave

import (
	"context"
	"sync"

	"github.com/vk/calcnote/internal/ctxlog"
	"github.com/vk/calcnote/internal/notebook"
)

// Saver is the part of bridge.Bridge the autosaver needs.
type Saver interface {
	Save(ctx context.Context, snap notebook.Snapshot) error
}

// Autosaver owns the background save worker.
type Autosaver struct {
	saver Saver

	mu       sync.Mutex
	pending  *notebook.Snapshot
	revision uint64
	saved    int
	failed   int
	stale    int
	started  bool

	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates an autosaver. Call Start to run the worker.
func New(saver Saver) *Autosaver {
	return &Autosaver{
		saver: saver,
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start runs the worker until ctx is cancelled or Close is called. The
// context's logger is used for all worker output.
func (a *Autosaver) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return
	}
	a.started = true
	go a.worker(ctx)
}

// Submit queues snap for saving, replacing any snapshot not yet written.
// A snapshot whose revision is older than the newest one submitted is
// ignored; revision zero is always accepted.
func (a *Autosaver) Submit(snap notebook.Snapshot) {
	clone := snap.Clone()
	a.mu.Lock()
	if clone.Revision != 0 && clone.Revision <= a.revision {
		a.stale++
		a.mu.Unlock()
		return
	}
	a.revision = max(a.revision, clone.Revision)
	a.pending = &clone
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Close stops the worker after it wrote the pending snapshot, or when ctx
// expires, whichever comes first.
func (a *Autosaver) Close(ctx context.Context) error {
	a.stopOnce.Do(func() { close(a.stop) })
	a.mu.Lock()
	started := a.started
	a.mu.Unlock()
	if !started {
		return nil
	}
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the number of successful and failed saves.
func (a *Autosaver) Stats() (saved, failed int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saved, a.failed
}

// Dropped returns the number of submissions ignored as out of date.
func (a *Autosaver) Dropped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stale
}

func (a *Autosaver) worker(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Autosave worker started.")
	defer close(a.done)

	for {
		select {
		case <-a.wake:
			a.flush(ctx)
		case <-a.stop:
			a.flush(context.WithoutCancel(ctx))
			logger.Debug("Autosave worker stopped.")
			return
		case <-ctx.Done():
			a.flush(context.WithoutCancel(ctx))
			logger.Debug("Autosave worker cancelled.")
			return
		}
	}
}

func (a *Autosaver) flush(ctx context.Context) {
	a.mu.Lock()
	snap := a.pending
	a.pending = nil
	a.mu.Unlock()
	if snap == nil {
		return
	}

	err := a.saver.Save(ctx, *snap)

	a.mu.Lock()
	if err != nil {
		a.failed++
	} else {
		a.saved++
	}
	a.mu.Unlock()

	if err != nil {
		ctxlog.FromContext(ctx).Warn("Autosave failed.", "error", err, "lines", len(snap.Lines))
		return
	}
	ctxlog.FromContext(ctx).Debug("Autosave succeeded.", "lines", len(snap.Lines))
}
