// Package subscription implements the engine that turns the Insight push channel into local
// events: it owns the channel lifecycle, normalizes announcements, fetches detail records when
// asked to and publishes everything on an eventhub.Hub.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gabapcia/insightwatch/internal/eventhub"
	"github.com/gabapcia/insightwatch/internal/message"
	"github.com/gabapcia/insightwatch/internal/pkg/logger"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyActive is returned by Activate while a connection epoch is running.
	ErrAlreadyActive = errors.New("subscription already active")

	// ErrChannel wraps errors reported by the push channel.
	ErrChannel = errors.New("channel error")

	// ErrFetch wraps detail fetch failures.
	ErrFetch = errors.New("detail fetch failed")

	// ErrIntegrityViolation is emitted when a detail record does not match its announcement.
	ErrIntegrityViolation = errors.New("integrity violation")

	// ErrFetcherRequired is returned by Activate when a detailed mode is requested without a
	// DetailFetcher.
	ErrFetcherRequired = errors.New("detail fetcher required for detailed mode")
)

// Service is the subscription engine.
type Service interface {
	// Activate starts a connection epoch with the given subscriptions, or
	// DefaultSubscriptions when none is given. Channel failures are emitted as error events
	// and never returned.
	Activate(ctx context.Context, subs ...Subscriptions) error

	// Disconnect detaches the channel handlers, closes the channel and emits disconnected.
	// In-flight detail fetches keep running. It may be called from a hub listener.
	Disconnect() error

	// Close disconnects, waits for in-flight detail fetches and removes every hub listener.
	// Fetches started by an Activate that overlaps Close are waited for as well.
	Close() error

	// State returns the current lifecycle state.
	State() State

	// Subscriptions returns the configuration of the current epoch, if any.
	Subscriptions() (Subscriptions, bool)

	// Events returns the hub local events are emitted on.
	Events() *eventhub.Hub

	// Wait blocks until every in-flight detail fetch has been emitted.
	Wait()
}

// epoch is the state of one Activate call, shared by the handlers it registers.
type epoch struct {
	id     uuid.UUID
	ctx    context.Context
	subs   Subscriptions
	events []string
}

type service struct {
	mu    sync.Mutex
	state State
	epoch *epoch

	channel Channel
	fetcher DetailFetcher
	hub     *eventhub.Hub

	addressValidator message.AddressValidator
	addressFanout    bool
	strictAddresses  bool

	inflight int        // tracked detail fetches, guarded by mu
	idle     *sync.Cond // signalled on mu when inflight drops to zero
	metrics  instruments
}

var _ Service = (*service)(nil)

func (s *service) Activate(ctx context.Context, subs ...Subscriptions) error {
	cfg := DefaultSubscriptions()
	if len(subs) > 0 {
		cfg = subs[0]
	}

	if !cfg.Block.valid() || !cfg.Tx.valid() {
		return fmt.Errorf("%w: block=%d tx=%d", ErrInvalidMode, cfg.Block, cfg.Tx)
	}

	if s.fetcher == nil && (cfg.Block == ModeDetailed || cfg.Tx == ModeDetailed) {
		return ErrFetcherRequired
	}

	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	ep := &epoch{
		id:   id,
		subs: cfg,
		ctx: logger.Derive(context.WithoutCancel(ctx),
			"subscription.epoch", id.String(),
			"subscription.block", cfg.Block.String(),
			"subscription.tx", cfg.Tx.String(),
		),
	}

	s.mu.Lock()

	if s.state == StateConnecting || s.state == StateConnected {
		s.mu.Unlock()
		return ErrAlreadyActive
	}

	prev := s.epoch
	if prev != nil {
		s.detach(prev)
	}

	s.epoch = ep
	s.state = StateConnecting
	s.mu.Unlock()

	// The channel may still be retrying the previous epoch's connection.
	if prev != nil {
		if err := s.channel.Close(); err != nil {
			logger.Warn(prev.ctx, "failed to close previous channel", "error", err)
		}
	}

	s.mu.Lock()
	if s.epoch != ep {
		s.mu.Unlock()
		return nil
	}
	s.attach(ep)
	s.mu.Unlock()

	logger.Info(ep.ctx, "activating subscriptions")

	if err := s.channel.Open(ctx); err != nil {
		s.mu.Lock()
		if s.epoch == ep {
			s.state = StateDisconnected
		}
		s.mu.Unlock()

		s.emitError(ep.ctx, fmt.Errorf("%w: %w", ErrChannel, err))
	}

	return nil
}

// attach registers exactly one handler per channel event the epoch needs.
func (s *service) attach(ep *epoch) {
	handlers := map[string]Handler{
		ChannelConnect:    func(Message) { s.onConnect(ep) },
		ChannelDisconnect: func(msg Message) { s.onDisconnect(ep, msg) },
		ChannelError:      func(msg Message) { s.onChannelError(ep, msg) },
	}
	if ep.subs.Block.Enabled() {
		handlers[ChannelBlock] = func(msg Message) { s.onBlock(ep, msg) }
	}
	if ep.subs.Tx.Enabled() {
		handlers[ChannelTx] = func(msg Message) { s.onTx(ep, msg) }
	}

	for _, event := range []string{ChannelConnect, ChannelDisconnect, ChannelError, ChannelBlock, ChannelTx} {
		h, ok := handlers[event]
		if !ok {
			continue
		}

		s.channel.On(event, h)
		ep.events = append(ep.events, event)
	}
}

func (s *service) detach(ep *epoch) {
	for _, event := range ep.events {
		s.channel.Off(event)
	}
}

func (s *service) Disconnect() error {
	s.mu.Lock()
	ep := s.epoch
	if ep == nil {
		s.mu.Unlock()
		return nil
	}

	s.detach(ep)
	s.epoch = nil
	s.state = StateIdle
	s.mu.Unlock()

	err := s.channel.Close()

	logger.Info(ep.ctx, "subscriptions disconnected")
	s.emit(ep.ctx, EventDisconnected, "client disconnect")

	if err != nil {
		return fmt.Errorf("%w: %w", ErrChannel, err)
	}

	return nil
}

func (s *service) Close() error {
	err := s.Disconnect()
	s.Wait()
	s.hub.Clear()
	return err
}

func (s *service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *service) Subscriptions() (Subscriptions, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch == nil {
		return Subscriptions{}, false
	}
	return s.epoch.subs, true
}

func (s *service) Events() *eventhub.Hub {
	return s.hub
}

func (s *service) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.inflight > 0 {
		s.idle.Wait()
	}
}

type config struct {
	hub              *eventhub.Hub
	addressValidator message.AddressValidator
	addressFanout    bool
	strictAddresses  bool
}

// Option configures the engine.
type Option func(*config)

// WithHub emits local events on hub instead of a new one.
func WithHub(hub *eventhub.Hub) Option {
	return func(c *config) {
		c.hub = hub
	}
}

// WithAddressValidator sets the collaborator used to check output addresses.
func WithAddressValidator(v message.AddressValidator) Option {
	return func(c *config) {
		c.addressValidator = v
	}
}

// WithAddressFanout emits one event per output address for every transaction, followed by a
// tx:vout summary. Invalid addresses are reported as errors and left out.
func WithAddressFanout(enabled bool) Option {
	return func(c *config) {
		c.addressFanout = enabled
	}
}

// WithStrictAddresses rejects a whole transaction announcement when one of its addresses is
// invalid. It needs an address validator.
func WithStrictAddresses(enabled bool) Option {
	return func(c *config) {
		c.strictAddresses = enabled
	}
}

// New returns an idle engine reading channel. fetcher may be nil when no detailed mode is used.
func New(channel Channel, fetcher DetailFetcher, opts ...Option) *service {
	cfg := config{
		hub: nil,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.hub == nil {
		cfg.hub = eventhub.New()
	}

	s := &service{
		state:            StateIdle,
		channel:          channel,
		fetcher:          fetcher,
		hub:              cfg.hub,
		addressValidator: cfg.addressValidator,
		addressFanout:    cfg.addressFanout,
		strictAddresses:  cfg.strictAddresses,
		metrics:          newInstruments(),
	}
	s.idle = sync.NewCond(&s.mu)

	return s
}
