package autosave_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/calcnote/internal/autosave"
	"github.com/vk/calcnote/internal/ctxlog"
	"github.com/vk/calcnote/internal/mathengine"
	"github.com/vk/calcnote/internal/notebook"
	"github.com/vk/calcnote/internal/testutil"
)

// recordingSaver records saved snapshots and can hold the first save until
// released.
type recordingSaver struct {
	mu      sync.Mutex
	saved   []notebook.Snapshot
	err     error
	started chan struct{}
	release chan struct{}
}

func (r *recordingSaver) Save(_ context.Context, snap notebook.Snapshot) error {
	if r.started != nil {
		r.started <- struct{}{}
		<-r.release
		r.started = nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, snap)
	return nil
}

func (r *recordingSaver) inputs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, s := range r.saved {
		out = append(out, s.Lines[0].Input)
	}
	return out
}

func snapshot(input string) notebook.Snapshot {
	return notebook.Snapshot{Lines: notebook.Inputs(input)}
}

func TestAutosaver_LatestWins(t *testing.T) {
	// --- Arrange ---
	saver := &recordingSaver{started: make(chan struct{}), release: make(chan struct{})}
	a := autosave.New(saver)
	a.Start(context.Background())

	// --- Act ---
	a.Submit(snapshot("first"))
	<-saver.started // first save is now in flight

	a.Submit(snapshot("second"))
	a.Submit(snapshot("third"))
	close(saver.release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Close(ctx))

	// --- Assert ---
	assert.Equal(t, []string{"first", "third"}, saver.inputs())
	saved, failed := a.Stats()
	assert.Equal(t, 2, saved)
	assert.Zero(t, failed)
}

func TestAutosaver_FailuresAreLogged(t *testing.T) {
	// --- Arrange ---
	logs := &testutil.SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	saver := &recordingSaver{err: errors.New("host unreachable")}
	a := autosave.New(saver)
	a.Start(ctx)

	// --- Act ---
	a.Submit(snapshot("x = 1"))
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Close(closeCtx))

	// --- Assert ---
	_, failed := a.Stats()
	assert.Equal(t, 1, failed)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "host unreachable")
}

func TestAutosaver_CloseWithoutStart(t *testing.T) {
	a := autosave.New(&recordingSaver{})
	a.Submit(snapshot("never written"))
	assert.NoError(t, a.Close(context.Background()))
}

func TestAutosaver_SubmitCopiesSnapshot(t *testing.T) {
	saver := &recordingSaver{}
	a := autosave.New(saver)

	snap := snapshot("original")
	a.Submit(snap)
	snap.Lines[0].Input = "mutated"

	a.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Close(ctx))

	assert.Equal(t, []string{"original"}, saver.inputs())
}

func TestAutosaver_IgnoresOlderRevision(t *testing.T) {
	saver := &recordingSaver{}
	a := autosave.New(saver)

	a.Submit(notebook.Snapshot{Lines: notebook.Inputs("newer"), Revision: 2})
	a.Submit(notebook.Snapshot{Lines: notebook.Inputs("older"), Revision: 1})

	a.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Close(ctx))

	assert.Equal(t, []string{"newer"}, saver.inputs())
	assert.Equal(t, 1, a.Dropped())
}

func TestAutosaver_ConcurrentEditsSaveLatest(t *testing.T) {
	// --- Arrange ---
	saver := &recordingSaver{}
	a := autosave.New(saver)
	a.Start(context.Background())

	nb := notebook.New(mathengine.New(), notebook.Inputs("0"))
	entered := make(chan struct{})
	release := make(chan struct{})
	nb.OnChange(func(s notebook.Snapshot) {
		if s.Lines[0].Input == "1" {
			close(entered)
			<-release
		}
		a.Submit(s)
	})

	// --- Act ---
	done := make(chan struct{})
	go func() {
		nb.SetInput(0, "1")
		close(done)
	}()
	<-entered // the first edit is applied but not yet delivered
	nb.SetInput(0, "2")
	close(release)
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Close(ctx))

	// --- Assert ---
	line, _ := nb.Line(0)
	require.Equal(t, "2", line.Input)
	assert.Equal(t, []string{"2"}, saver.inputs())
	assert.Equal(t, 1, a.Dropped())
}
