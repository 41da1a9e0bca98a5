// Package socketio implements the push channel over a Socket.IO server, speaking the
// Engine.IO websocket transport directly. Engine.IO 3 (Socket.IO 2.x servers such as Insight)
// is the default; Engine.IO 4 is available through WithEngineIOVersion.
package socketio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gabapcia/insightwatch/internal/pkg/logger"
	"github.com/gabapcia/insightwatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/insightwatch/internal/pkg/x/chflow"
	"github.com/gabapcia/insightwatch/internal/subscription"

	"github.com/gorilla/websocket"
)

var (
	// ErrNotConnected is returned by Send when there is no live session.
	ErrNotConnected = errors.New("socket.io: not connected")

	// ErrAlreadyOpen is returned by Open while a previous Open is still running.
	ErrAlreadyOpen = errors.New("socket.io: already open")

	// ErrReconnectFailed is delivered on the error event once reconnection gives up.
	ErrReconnectFailed = errors.New("socket.io: reconnection failed")

	// ErrServer wraps error packets sent by the server.
	ErrServer = errors.New("socket.io: server error")

	// ErrSessionClosed is the drop reason when the server ends the session.
	ErrSessionClosed = errors.New("socket.io: session closed by server")
)

// Events the server is not allowed to emit.
var reservedEvents = []string{
	subscription.ChannelConnect,
	subscription.ChannelDisconnect,
	subscription.ChannelError,
}

type config struct {
	version          int
	dialer           *websocket.Dialer
	header           http.Header
	reconnect        bool
	retry            retry.Retry
	outboundBuffer   int
	handshakeTimeout time.Duration
	writeTimeout     time.Duration
}

// Option configures the client.
type Option func(*config)

// WithEngineIOVersion selects the Engine.IO protocol revision (3 or 4).
// Default: 3.
func WithEngineIOVersion(v int) Option {
	return func(c *config) {
		c.version = v
	}
}

// WithDialer replaces the websocket dialer.
// Default: websocket.DefaultDialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *config) {
		c.dialer = d
	}
}

// WithHeader sets extra headers sent on the websocket upgrade request.
func WithHeader(h http.Header) Option {
	return func(c *config) {
		c.header = h
	}
}

// WithReconnect enables or disables reconnection after a dropped session.
// Default: enabled.
func WithReconnect(enabled bool) Option {
	return func(c *config) {
		c.reconnect = enabled
	}
}

// WithRetry sets the policy used to reconnect after a drop.
// Default: 10 attempts, exponential backoff from 1 second up to 30 seconds.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// WithOutboundBuffer sets how many outbound frames may wait for the writer.
// Default: 16.
func WithOutboundBuffer(n int) Option {
	return func(c *config) {
		c.outboundBuffer = n
	}
}

// WithHandshakeTimeout bounds the wait for the Engine.IO open packet.
// Default: 10 seconds.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *config) {
		c.handshakeTimeout = d
	}
}

type client struct {
	url string
	cfg config

	mu       sync.Mutex
	handlers map[string][]subscription.Handler
	sess     *session
	cancel   context.CancelFunc
	done     chan struct{}
	firing   int // handlers currently running on the reader
}

var _ subscription.Channel = (*client)(nil)

// NewClient returns a channel for the Socket.IO server at serverURL (http, https, ws or wss).
// Nothing is dialed until Open.
func NewClient(serverURL string, opts ...Option) (*client, error) {
	cfg := config{
		version:          3,
		dialer:           websocket.DefaultDialer,
		reconnect:        true,
		outboundBuffer:   16,
		handshakeTimeout: 10 * time.Second,
		writeTimeout:     10 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.retry == nil {
		cfg.retry = retry.New(
			retry.WithAttempts(10),
			retry.WithDelay(time.Second),
			retry.WithMaxDelay(30*time.Second),
		)
	}

	u, err := socketURL(serverURL, cfg.version)
	if err != nil {
		return nil, err
	}

	return &client{
		url:      u,
		cfg:      cfg,
		handlers: make(map[string][]subscription.Handler),
	}, nil
}

// Open dials the server and starts the session in the background. The connect event fires
// once the server acknowledges the default namespace.
//
// Cancelling ctx ends the session like Close does.
func (c *client) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil && c.done != nil {
		select {
		case <-c.done:
		default:
			c.mu.Unlock()
			return ErrAlreadyOpen
		}
	}

	ctx = logger.Derive(ctx, "socket_url", c.url)
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.mu.Unlock()

	sess, err := c.dial(runCtx)
	if err != nil {
		cancel()
		close(done)
		return err
	}

	go c.run(runCtx, done, sess)

	return nil
}

// Close ends the session and stops reconnection without firing disconnect. It waits for the
// reader to stop unless a handler is running, since handlers run on the reader. Called from a
// handler, Close returns at once and the reader stops after the handler returns.
func (c *client) Close() error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	reentrant := c.firing > 0
	c.cancel = nil
	c.mu.Unlock()

	if cancel == nil {
		return nil
	}

	cancel()
	if !reentrant {
		<-done
	}

	return nil
}

func (c *client) On(event string, h subscription.Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handlers[event] = append(c.handlers[event], h)
}

func (c *client) Off(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.handlers, event)
}

func (c *client) Listeners(event string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.handlers[event])
}

// Send queues an event for the writer. It fails with ErrNotConnected when there is no live
// session or the session ends before the frame is queued.
func (c *client) Send(event string, payload any) error {
	frame, err := encodeEvent(event, payload)
	if err != nil {
		return fmt.Errorf("encode %q: %w", event, err)
	}

	c.mu.Lock()
	s := c.sess
	c.mu.Unlock()

	if s == nil {
		return ErrNotConnected
	}

	if !chflow.Send(s.ctx, s.out, frame) {
		return ErrNotConnected
	}

	return nil
}

// run serves sessions until ctx is done or reconnection gives up.
func (c *client) run(ctx context.Context, done chan struct{}, sess *session) {
	defer close(done)

	for {
		reason := c.serve(ctx, sess)
		if ctx.Err() != nil {
			return
		}

		logger.Warn(ctx, "socket.io session dropped", "sid", sess.id, "error", reason)

		quoted, _ := json.Marshal(reason.Error())
		c.fire(subscription.ChannelDisconnect, subscription.Message{Data: quoted})

		if !c.cfg.reconnect || ctx.Err() != nil {
			return
		}

		next, err := c.redial(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Error(ctx, "socket.io reconnection failed", "error", err)
				c.fire(subscription.ChannelError, subscription.Message{Err: fmt.Errorf("%w: %w", ErrReconnectFailed, err)})
			}
			return
		}

		logger.Info(ctx, "socket.io session restored", "sid", next.id)
		sess = next
	}
}

func (c *client) redial(ctx context.Context) (*session, error) {
	var sess *session
	err := c.cfg.retry.Execute(ctx, func() error {
		s, err := c.dial(ctx)
		if err != nil {
			logger.Debug(ctx, "socket.io reconnect attempt failed", "error", err)
			return err
		}

		sess = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sess, nil
}

func (c *client) setSession(s *session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sess = s
}

// clearSession forgets s unless a newer Open already replaced it.
func (c *client) clearSession(s *session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess == s {
		c.sess = nil
	}
}

// fire calls the handlers of event in registration order.
func (c *client) fire(event string, msg subscription.Message) {
	c.mu.Lock()
	handlers := slices.Clone(c.handlers[event])
	c.firing++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.firing--
		c.mu.Unlock()
	}()

	for _, h := range handlers {
		h(msg)
	}
}
