package subscription

import (
	"sync"

	"github.com/gabapcia/insightwatch/internal/eventhub"
)

type recorded struct {
	Name    string
	Payload any
}

// recorder collects hub emissions for the given event names, in order.
type recorder struct {
	mu     sync.Mutex
	events []recorded
}

func record(hub *eventhub.Hub, names ...string) *recorder {
	r := &recorder{}
	for _, name := range names {
		hub.On(name, func(payload any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, recorded{Name: name, Payload: payload})
		})
	}
	return r
}

func (r *recorder) All() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]recorded(nil), r.events...)
}

func (r *recorder) Named(name string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	var payloads []any
	for _, e := range r.events {
		if e.Name == name {
			payloads = append(payloads, e.Payload)
		}
	}
	return payloads
}

func (r *recorder) Errors() []error {
	var errs []error
	for _, p := range r.Named(EventError) {
		errs = append(errs, p.(error))
	}
	return errs
}
