// Package eventhub implements a per-instance publish/subscribe registry of named events.
//
// Listeners for a name are called in registration order, synchronously, on the goroutine that
// calls Emit. A panicking listener does not stop delivery: the panic is reported as an "error"
// event carrying a *ListenerError.
package eventhub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gabapcia/insightwatch/internal/pkg/logger"
)

// EventError is the name under which listener failures are reported.
const EventError = "error"

// ErrListenerPanic is wrapped by every *ListenerError.
var ErrListenerPanic = errors.New("listener panicked")

// Listener receives the payload of an emitted event.
type Listener func(payload any)

// ListenerError describes a listener that panicked while handling an event.
type ListenerError struct {
	Event string // name of the event being delivered
	Value any    // value recovered from the panic
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("%s: event %q: %v", ErrListenerPanic, e.Event, e.Value)
}

func (e *ListenerError) Unwrap() error {
	return ErrListenerPanic
}

// Hub is a registry of listeners keyed by event name. The zero value is not usable; use New.
type Hub struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

// New returns an empty Hub.
func New() *Hub {
	return &Hub{listeners: make(map[string][]Listener)}
}

// On appends fn to the listeners of name.
func (h *Hub) On(name string, fn Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.listeners[name] = append(h.listeners[name], fn)
}

// Off removes every listener of name.
func (h *Hub) Off(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.listeners, name)
}

// Clear removes every listener.
func (h *Hub) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clear(h.listeners)
}

// Listeners returns the number of listeners registered for name.
func (h *Hub) Listeners(name string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.listeners[name])
}

// Emit calls every listener currently registered for name with payload and reports whether
// there was at least one. Listeners run outside the registry lock and may use the Hub.
func (h *Hub) Emit(name string, payload any) bool {
	h.mu.RLock()
	listeners := append([]Listener(nil), h.listeners[name]...)
	h.mu.RUnlock()

	for _, fn := range listeners {
		h.call(name, fn, payload)
	}

	return len(listeners) > 0
}

func (h *Hub) call(name string, fn Listener, payload any) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		if name == EventError {
			logger.Error(context.Background(), "error listener panicked",
				"event.name", name,
				"panic", r,
			)
			return
		}

		h.Emit(EventError, &ListenerError{Event: name, Value: r})
	}()

	fn(payload)
}
