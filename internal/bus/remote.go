package bus

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/blazra/regtree/internal/logging"
	"github.com/blazra/regtree/internal/protocol"
	"github.com/blazra/regtree/internal/version"
)

const (
	// DefaultTimeout bounds a single request/response exchange
	DefaultTimeout = 2 * time.Second

	// DefaultMaxRetries is the number of retries after a retryable failure
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the initial delay between retries
	DefaultRetryDelay = 100 * time.Millisecond

	// DefaultMaxRetryDelay caps the exponential backoff delay
	DefaultMaxRetryDelay = 2 * time.Second
)

// RemoteBus talks to a register server over a WebSocket connection. The
// connection is opened lazily and reopened after transport failures.
type RemoteBus struct {
	// URL is the server endpoint, e.g. "ws://192.168.1.20:7420/ws"
	URL string

	// Timeout bounds each exchange when the context has no earlier deadline
	Timeout time.Duration

	// MaxRetries is the maximum number of retries for retryable failures
	MaxRetries int

	// RetryDelay is the initial retry delay
	RetryDelay time.Duration

	// MaxRetryDelay caps the retry delay
	MaxRetryDelay time.Duration

	// Dialer opens the WebSocket connection
	Dialer *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// NewRemoteBus creates a RemoteBus with default settings. No connection is
// made until the first transfer.
func NewRemoteBus(url string) *RemoteBus {
	return &RemoteBus{
		URL:           url,
		Timeout:       DefaultTimeout,
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
		Dialer: &websocket.Dialer{
			HandshakeTimeout: DefaultTimeout,
		},
	}
}

// DialRemote creates a RemoteBus and connects it immediately.
func DialRemote(ctx context.Context, url string) (*RemoteBus, error) {
	b := NewRemoteBus(url)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.connect(ctx); err != nil {
		return nil, ClassifyTransportError(fmt.Errorf("dial %s: %w", url, err), 0)
	}
	return b, nil
}

// Read fetches one register.
func (b *RemoteBus) Read(ctx context.Context, address uint32) (uint16, error) {
	resp, err := b.do(ctx, protocol.NewReadRequest(address))
	if err != nil {
		return 0, err
	}
	return resp.Value, nil
}

// Write stores one register.
func (b *RemoteBus) Write(ctx context.Context, address uint32, value uint16) error {
	_, err := b.do(ctx, protocol.NewWriteRequest(address, value))
	return err
}

// Info returns the number of registers the server exposes.
func (b *RemoteBus) Info(ctx context.Context) (int, error) {
	resp, err := b.do(ctx, protocol.NewInfoRequest())
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// Close closes the connection. Later transfers fail with ErrTypeClosed.
func (b *RemoteBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	if b.conn == nil {
		return nil
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = b.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	err := b.conn.Close()
	b.conn = nil
	logging.LogConnection(b.URL, "closed")
	return err
}

func (b *RemoteBus) newBackOff(ctx context.Context) backoff.BackOff {
	if b.MaxRetries <= 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = b.RetryDelay
	eb.MaxInterval = b.MaxRetryDelay
	eb.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(b.MaxRetries)), ctx)
}

// do runs req with retries and returns the matching successful response.
func (b *RemoteBus) do(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	var resp *protocol.Response
	op := func() error {
		r, err := b.exchange(ctx, req)
		if err != nil {
			if IsRetryable(err) && ctx.Err() == nil {
				logging.Debug("Retrying bus request",
					zap.Stringer("request", req),
					zap.Error(err),
				)
				return err
			}
			return backoff.Permanent(err)
		}
		resp = r
		return nil
	}

	if err := backoff.Retry(op, b.newBackOff(ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}

// exchange sends req once and waits for its response.
func (b *RemoteBus) exchange(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, NewClosedError(req.Address)
	}
	if b.conn == nil {
		if err := b.connect(ctx); err != nil {
			return nil, ClassifyTransportError(err, req.Address)
		}
	}

	deadline := time.Now().Add(b.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	_ = b.conn.SetWriteDeadline(deadline)
	if err := b.conn.WriteJSON(req); err != nil {
		b.drop()
		return nil, ClassifyTransportError(err, req.Address)
	}

	_ = b.conn.SetReadDeadline(deadline)
	for {
		var resp protocol.Response
		if err := b.conn.ReadJSON(&resp); err != nil {
			b.drop()
			return nil, ClassifyTransportError(err, req.Address)
		}
		if resp.ID != req.ID {
			// Answer to an earlier attempt that timed out
			logging.Debug("Discarding stale response", zap.Uint32("id", resp.ID))
			continue
		}
		if resp.Failed() {
			return nil, remoteError(&resp)
		}
		return &resp, nil
	}
}

func (b *RemoteBus) connect(ctx context.Context) error {
	header := http.Header{"User-Agent": []string{version.UserAgent()}}
	conn, resp, err := b.Dialer.DialContext(ctx, b.URL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		logging.LogConnection(b.URL, "dial_failed")
		return err
	}
	b.conn = conn
	logging.LogConnection(b.URL, "connected")
	return nil
}

func (b *RemoteBus) drop() {
	if b.conn != nil {
		_ = b.conn.Close()
		b.conn = nil
		logging.LogConnection(b.URL, "dropped")
	}
}
