// Package hostbridge persists notebook snapshots in a host application
// reached over socket.io.
//
// The protocol is three events on the configured namespace:
//
//	client -> host  getData {widgetId}
//	host -> client  data    {lines}
//	client -> host  setData {widgetId, lines}
//
// setData is not acknowledged; a failed write is only visible in the host.
package hostbridge

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vk/calcnote/internal/bridge"
	"github.com/vk/calcnote/internal/ctxlog"
	"github.com/vk/calcnote/internal/notebook"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const defaultTimeout = 10 * time.Second

// Options configures the host connection.
type Options struct {
	URL                string
	Namespace          string
	WidgetID           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

type getDataPayload struct {
	WidgetID string `json:"widgetId"`
}

type dataPayload struct {
	Lines []notebook.Line `json:"lines"`
}

type setDataPayload struct {
	WidgetID string          `json:"widgetId"`
	Lines    []notebook.Line `json:"lines"`
}

// Bridge implements bridge.Bridge over a socket.io client.
type Bridge struct {
	opts Options

	mu sync.Mutex
	io *socket.Socket
}

// New validates opts and returns an unconnected bridge. A widget id is
// generated when none is configured.
func New(opts Options) (*Bridge, error) {
	if opts.URL == "" {
		return nil, errors.New("hostbridge: host URL is required")
	}
	if opts.WidgetID == "" {
		opts.WidgetID = uuid.NewString()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Bridge{opts: opts}, nil
}

var _ bridge.Bridge = (*Bridge)(nil)

// WidgetID returns the identifier the host stores this notebook under.
func (b *Bridge) WidgetID() string {
	return b.opts.WidgetID
}

// Connect opens the socket and waits for the host to accept it.
func (b *Bridge) Connect(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("bridge", "host", "url", b.opts.URL, "widgetId", b.opts.WidgetID)
	logger.Info("Connecting to host...")

	parsedURL, err := url.Parse(b.opts.URL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if b.opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(b.opts.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("EVENT HANDLER: 'connect' event fired")
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		logger.Debug("EVENT HANDLER: 'connect_error' event fired", "error", err)
		select {
		case connectChan <- err:
		default:
		}
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(b.opts.Timeout):
		io.Disconnect()
		return fmt.Errorf("timed out after %s waiting for socket.io connection", b.opts.Timeout)
	}

	b.mu.Lock()
	b.io = io
	b.mu.Unlock()
	logger.Info("Connected to host", "sid", io.Id())
	return nil
}

// Load asks the host for the stored lines and waits for its reply.
func (b *Bridge) Load(ctx context.Context) (*notebook.Snapshot, error) {
	io, err := b.socket()
	if err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)

	replies := make(chan []any, 1)
	io.Once(types.EventName("data"), func(args ...any) {
		select {
		case replies <- args:
		default:
		}
	})
	if err := io.Emit("getData", getDataPayload{WidgetID: b.opts.WidgetID}); err != nil {
		return nil, fmt.Errorf("failed to emit getData: %w", err)
	}
	logger.Debug("Requested stored lines from host.", "widgetId", b.opts.WidgetID)

	select {
	case args := <-replies:
		return decodeData(args)
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled while waiting for host data: %w", ctx.Err())
	case <-time.After(b.opts.Timeout):
		return nil, fmt.Errorf("timed out after %s waiting for host data", b.opts.Timeout)
	}
}

// Save sends the snapshot to the host without waiting for confirmation.
func (b *Bridge) Save(ctx context.Context, snap notebook.Snapshot) error {
	io, err := b.socket()
	if err != nil {
		return err
	}
	lines := snap.Lines
	if lines == nil {
		lines = []notebook.Line{}
	}
	if err := io.Emit("setData", setDataPayload{WidgetID: b.opts.WidgetID, Lines: lines}); err != nil {
		return fmt.Errorf("failed to emit setData: %w", err)
	}
	return nil
}

// Close disconnects from the host.
func (b *Bridge) Close(ctx context.Context) error {
	b.mu.Lock()
	io := b.io
	b.io = nil
	b.mu.Unlock()
	if io == nil {
		return nil
	}
	ctxlog.FromContext(ctx).Info("Disconnecting from host", "sid", io.Id())
	io.Disconnect()
	return nil
}

func (b *Bridge) socket() (*socket.Socket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.io == nil {
		return nil, bridge.ErrNotConnected
	}
	return b.io, nil
}

// decodeData turns the arguments of a "data" event into a snapshot. A
// missing payload or a null lines field means nothing is stored.
func decodeData(args []any) (*notebook.Snapshot, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	raw, err := json.Marshal(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode host data: %w", err)
	}
	var payload dataPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode host data: %w", err)
	}
	if payload.Lines == nil {
		return nil, nil
	}
	return &notebook.Snapshot{Lines: payload.Lines}, nil
}
