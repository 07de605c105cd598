package inmemorybridge

import (
	"context"
	"sync"

	"github.com/vk/calcnote/internal/bridge"
	"github.com/vk/calcnote/internal/ctxlog"
	"github.com/vk/calcnote/internal/notebook"
)

// Bridge is an in-memory implementation of bridge.Bridge guarded by a mutex.
type Bridge struct {
	mu        sync.Mutex
	connected bool
	stored    *notebook.Snapshot
	saves     int

	// LoadErr and SaveErr, when set, are returned by Load and Save.
	LoadErr error
	SaveErr error
}

// New creates an empty bridge. Pass a snapshot to simulate previously
// stored lines.
func New(initial *notebook.Snapshot) *Bridge {
	b := &Bridge{}
	if initial != nil {
		snap := initial.Clone()
		b.stored = &snap
	}
	return b
}

var _ bridge.Bridge = (*Bridge)(nil)

// Connect marks the bridge as connected.
func (b *Bridge) Connect(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("inmemorybridge.Bridge.Connect called")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = true
	return nil
}

// Load returns a copy of the stored snapshot, or nil if nothing was saved.
func (b *Bridge) Load(ctx context.Context) (*notebook.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return nil, bridge.ErrNotConnected
	}
	if b.LoadErr != nil {
		return nil, b.LoadErr
	}
	if b.stored == nil {
		return nil, nil
	}
	snap := b.stored.Clone()
	return &snap, nil
}

// Save stores a copy of snap.
func (b *Bridge) Save(ctx context.Context, snap notebook.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return bridge.ErrNotConnected
	}
	if b.SaveErr != nil {
		return b.SaveErr
	}
	stored := snap.Clone()
	b.stored = &stored
	b.saves++
	return nil
}

// Close disconnects the bridge. Stored data is kept.
func (b *Bridge) Close(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("inmemorybridge.Bridge.Close called")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = false
	return nil
}

// Saves returns how many snapshots were saved successfully.
func (b *Bridge) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

// Stored returns a copy of the last saved snapshot, or nil.
func (b *Bridge) Stored() *notebook.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stored == nil {
		return nil
	}
	snap := b.stored.Clone()
	return &snap
}
