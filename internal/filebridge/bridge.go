// Package filebridge stores notebook snapshots as a YAML document on disk.
// A missing file means nothing has been stored yet. Saves write a temporary
// file next to the target and rename it into place.
package filebridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vk/calcnote/internal/bridge"
	"github.com/vk/calcnote/internal/ctxlog"
	"github.com/vk/calcnote/internal/notebook"
	"gopkg.in/yaml.v3"
)

// Bridge implements bridge.Bridge on top of a single YAML file.
type Bridge struct {
	path string

	mu        sync.Mutex
	connected bool
}

// New returns a bridge for the file at path.
func New(path string) *Bridge {
	return &Bridge{path: path}
}

var _ bridge.Bridge = (*Bridge)(nil)

// Path returns the file the bridge reads and writes.
func (b *Bridge) Path() string {
	return b.path
}

// Connect makes sure the directory holding the file exists.
func (b *Bridge) Connect(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if b.path == "" {
		return errors.New("filebridge: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", b.path, err)
	}

	b.mu.Lock()
	b.connected = true
	b.mu.Unlock()
	logger.Debug("File bridge connected.", "path", b.path)
	return nil
}

// Load reads and decodes the file. It returns nil when the file does not
// exist or is empty.
func (b *Bridge) Load(ctx context.Context) (*notebook.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return nil, bridge.ErrNotConnected
	}

	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", b.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var snap notebook.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", b.path, err)
	}
	return &snap, nil
}

// Save encodes snap and atomically replaces the file.
func (b *Bridge) Save(ctx context.Context, snap notebook.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return bridge.ErrNotConnected
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), "."+filepath.Base(b.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", b.path, err)
	}
	ctxlog.FromContext(ctx).Debug("Snapshot written.", "path", b.path, "lines", len(snap.Lines))
	return nil
}

// Close disconnects the bridge.
func (b *Bridge) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = false
	return nil
}
