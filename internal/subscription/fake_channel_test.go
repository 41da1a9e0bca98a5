package subscription

import (
	"context"
	"encoding/json"
	"sync"
)

type sentEvent struct {
	Event   string
	Payload any
}

// fakeChannel is an in-memory Channel. fire delivers events synchronously, like a single
// reader goroutine would.
type fakeChannel struct {
	mu       sync.Mutex
	handlers map[string][]Handler
	sent     []sentEvent

	openErr       error
	sendErr       error
	closeErr      error
	connectOnOpen bool

	opens  int
	closes int
}

var _ Channel = (*fakeChannel)(nil)

func newFakeChannel() *fakeChannel {
	return &fakeChannel{handlers: make(map[string][]Handler)}
}

func (c *fakeChannel) Open(ctx context.Context) error {
	c.mu.Lock()
	c.opens++
	err, connect := c.openErr, c.connectOnOpen
	c.mu.Unlock()

	if err != nil {
		return err
	}
	if connect {
		c.fire(ChannelConnect, "")
	}
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closes++
	return c.closeErr
}

func (c *fakeChannel) On(event string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handlers[event] = append(c.handlers[event], h)
}

func (c *fakeChannel) Off(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.handlers, event)
}

func (c *fakeChannel) Listeners(event string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.handlers[event])
}

func (c *fakeChannel) Send(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, sentEvent{Event: event, Payload: payload})
	return nil
}

func (c *fakeChannel) Sent() []sentEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]sentEvent(nil), c.sent...)
}

func (c *fakeChannel) fire(event string, data string) {
	c.fireMessage(event, Message{Data: json.RawMessage(data)})
}

func (c *fakeChannel) fireMessage(event string, msg Message) {
	c.mu.Lock()
	handlers := append([]Handler(nil), c.handlers[event]...)
	c.mu.Unlock()

	for _, h := range handlers {
		h(msg)
	}
}
