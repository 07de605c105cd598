// Package bridge defines the interface through which a notebook loads and
// saves its lines.
//
// # Why Bridge Exists
//
// The notebook never knows where its lines live. A bridge may be a host
// application reached over socket.io, a YAML file on disk, or plain memory
// in tests. The session wires one implementation in at startup and the
// autosaver pushes every change through it.
//
// # Lifecycle and Usage
//
// A bridge is:
//  1. **Connected** once at startup, before anything else is called
//  2. **Loaded** once to restore previously saved lines
//  3. **Saved** after every change, fire-and-forget from the notebook's view
//  4. **Closed** when the session ends
//
// Snapshots are stored verbatim. There is no versioning or migration.
package bridge

import (
	"context"
	"errors"

	"github.com/vk/calcnote/internal/notebook"
)

// ErrNotConnected is returned by Load and Save before Connect succeeded or
// after Close.
var ErrNotConnected = errors.New("bridge not connected")

// Bridge is the persistence interface for notebook snapshots.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. Save is called from the
// autosaver goroutine while the session may still be loading or closing.
type Bridge interface {
	// Connect establishes the connection to the storage backend.
	Connect(ctx context.Context) error
	// Load returns the stored snapshot, or nil when nothing was stored yet.
	Load(ctx context.Context) (*notebook.Snapshot, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap notebook.Snapshot) error
	// Close releases the connection. Further calls return ErrNotConnected.
	Close(ctx context.Context) error
}
