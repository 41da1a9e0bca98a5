// Package relay republishes local events to an external broker so other processes can consume
// the notification stream.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gabapcia/insightwatch/internal/eventhub"
	"github.com/gabapcia/insightwatch/internal/pkg/logger"
	"github.com/gabapcia/insightwatch/internal/pkg/x/chflow"
)

// ErrServiceAlreadyStarted is returned if Start is called more than once.
var ErrServiceAlreadyStarted = errors.New("relay already started")

// Publisher delivers an encoded event to a broker topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Source is where events are observed. *eventhub.Hub satisfies it.
type Source interface {
	On(name string, fn eventhub.Listener)
}

// Service forwards the events it is attached to onto a Publisher.
type Service interface {
	// Start launches the publishing worker. Events observed before Start are dropped.
	//
	// Returns ErrServiceAlreadyStarted if the relay is already running.
	Start(ctx context.Context) error

	// Attach registers a listener on src for each event; its payloads are published to the
	// topic named after the event.
	Attach(src Source, events ...string)

	// Close stops the worker. Queued events that were not published yet are dropped.
	// It is safe to call Close even if the relay was never started.
	Close()
}

// envelope is one queued event.
type envelope struct {
	topic   string
	payload any
}

type closeFunc func()

type service struct {
	mu        sync.Mutex
	isStarted bool
	closeFunc closeFunc
	ctx       context.Context // worker context, nil while stopped

	queue     chan envelope
	publisher Publisher
	cfg       config
}

var _ Service = new(service)

func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go s.run(ctx, done)

	s.ctx = ctx
	s.closeFunc = func() {
		cancel()
		<-done
	}
	s.isStarted = true
	return nil
}

func (s *service) Attach(src Source, events ...string) {
	for _, event := range events {
		src.On(event, func(payload any) {
			s.enqueue(event, payload)
		})
	}
}

func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}

	s.closeFunc = nil
	s.ctx = nil
	s.isStarted = false
}

// enqueue never blocks the emitter: a full queue drops the event.
func (s *service) enqueue(topic string, payload any) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	if ctx == nil {
		return
	}

	if !chflow.TrySend(ctx, s.queue, envelope{topic: topic, payload: payload}) {
		logger.Warn(ctx, "relay queue full, event dropped", "topic", topic)
	}
}

func (s *service) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		env, ok := chflow.Receive(ctx, s.queue)
		if !ok {
			return
		}

		s.publish(ctx, env)
	}
}

func (s *service) publish(ctx context.Context, env envelope) {
	payload, err := encode(env.payload)
	if err != nil {
		logger.Error(ctx, "relay failed to encode event", "topic", env.topic, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, env.topic, payload); err != nil {
		logger.Error(ctx, "relay failed to publish event", "topic", env.topic, "error", err)
	}
}

// encode renders a payload as JSON. Errors become {"error": "<message>"}.
func encode(payload any) ([]byte, error) {
	if err, ok := payload.(error); ok {
		return json.Marshal(map[string]string{"error": err.Error()})
	}

	return json.Marshal(payload)
}

type config struct {
	buffer         int
	publishTimeout time.Duration
}

// Option configures the relay.
type Option func(*config)

// WithBuffer sets how many events may wait for the worker.
// Default: 256.
func WithBuffer(n int) Option {
	return func(c *config) {
		c.buffer = n
	}
}

// WithPublishTimeout bounds a single Publish call.
// Default: 5 seconds.
func WithPublishTimeout(d time.Duration) Option {
	return func(c *config) {
		c.publishTimeout = d
	}
}

// New creates a relay publishing to p.
func New(p Publisher, opts ...Option) *service {
	cfg := config{
		buffer:         256,
		publishTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		queue:     make(chan envelope, cfg.buffer),
		publisher: p,
		cfg:       cfg,
	}
}
