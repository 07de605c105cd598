package inmemorybridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/calcnote/internal/bridge"
	"github.com/vk/calcnote/internal/notebook"
)

func TestLoadAndSave(t *testing.T) {
	b := New(nil)
	ctx := context.Background()

	// Nothing can happen before Connect
	_, err := b.Load(ctx)
	assert.ErrorIs(t, err, bridge.ErrNotConnected)
	assert.ErrorIs(t, b.Save(ctx, notebook.Snapshot{}), bridge.ErrNotConnected)

	require.NoError(t, b.Connect(ctx))

	// Empty store loads as nil
	snap, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	// Save and load back
	want := notebook.Snapshot{Lines: []notebook.Line{{Input: "a = 1", Result: "1"}}}
	require.NoError(t, b.Save(ctx, want))
	snap, err = b.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, want, *snap)
	assert.Equal(t, 1, b.Saves())

	// Close disconnects but keeps data
	require.NoError(t, b.Close(ctx))
	_, err = b.Load(ctx)
	assert.ErrorIs(t, err, bridge.ErrNotConnected)
	assert.Equal(t, want, *b.Stored())
}

func TestSnapshotsAreCopied(t *testing.T) {
	ctx := context.Background()
	initial := &notebook.Snapshot{Lines: notebook.Inputs("x = 2")}
	b := New(initial)
	require.NoError(t, b.Connect(ctx))

	// Mutating the caller's slice must not leak into the store
	initial.Lines[0].Input = "changed"
	snap, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x = 2", snap.Lines[0].Input)

	snap.Lines[0].Input = "also changed"
	again, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x = 2", again.Lines[0].Input)
}

func TestInjectedErrors(t *testing.T) {
	ctx := context.Background()
	b := New(nil)
	require.NoError(t, b.Connect(ctx))

	b.LoadErr = errors.New("load failed")
	b.SaveErr = errors.New("save failed")

	_, err := b.Load(ctx)
	assert.EqualError(t, err, "load failed")
	assert.EqualError(t, b.Save(ctx, notebook.Snapshot{}), "save failed")
	assert.Zero(t, b.Saves())
}

func TestConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	b := New(nil)
	require.NoError(t, b.Connect(ctx))

	var wg sync.WaitGroup
	numGoroutines := 50
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap := notebook.Snapshot{Lines: notebook.Inputs(fmt.Sprintf("n = %d", i))}
			assert.NoError(t, b.Save(ctx, snap))
			_, err := b.Load(ctx)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, numGoroutines, b.Saves())
}
