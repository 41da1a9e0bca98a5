package relay

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gabapcia/insightwatch/internal/eventhub"
	"github.com/gabapcia/insightwatch/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Init("error")
}

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "publish was not called")
	}
}

func signalOnPublish(ch chan<- struct{}) func(context.Context, string, []byte) {
	return func(context.Context, string, []byte) { ch <- struct{}{} }
}

func TestService_Start(t *testing.T) {
	t.Run("returns an error when already started", func(t *testing.T) {
		r := New(NewPublisherMock(t))
		require.NoError(t, r.Start(t.Context()))
		defer r.Close()

		assert.ErrorIs(t, r.Start(t.Context()), ErrServiceAlreadyStarted)
	})

	t.Run("can start again after close", func(t *testing.T) {
		r := New(NewPublisherMock(t))
		require.NoError(t, r.Start(t.Context()))
		r.Close()

		require.NoError(t, r.Start(t.Context()))
		r.Close()
	})

	t.Run("close without start is safe", func(t *testing.T) {
		r := New(NewPublisherMock(t))

		assert.NotPanics(t, r.Close)
	})
}

func TestService_Publish(t *testing.T) {
	t.Run("publishes attached events as json", func(t *testing.T) {
		published := make(chan struct{}, 2)
		pub := NewPublisherMock(t)
		pub.EXPECT().Publish(mock.Anything, "block", []byte(`"00000000deadbeef"`)).Run(signalOnPublish(published)).Return(nil).Once()
		pub.EXPECT().Publish(mock.Anything, "tx:vout", []byte(`{"txid":"ab","vout":[]}`)).Run(signalOnPublish(published)).Return(nil).Once()

		hub := eventhub.New()
		r := New(pub)
		r.Attach(hub, "block", "tx:vout")
		require.NoError(t, r.Start(t.Context()))
		defer r.Close()

		hub.Emit("block", "00000000deadbeef")
		waitSignal(t, published)
		hub.Emit("tx:vout", map[string]any{"txid": "ab", "vout": []any{}})
		waitSignal(t, published)
	})

	t.Run("encodes errors as an error object", func(t *testing.T) {
		published := make(chan struct{}, 1)
		pub := NewPublisherMock(t)
		pub.EXPECT().Publish(mock.Anything, "error", []byte(`{"error":"fetch failed: boom"}`)).Run(signalOnPublish(published)).Return(nil).Once()

		hub := eventhub.New()
		r := New(pub)
		r.Attach(hub, "error")
		require.NoError(t, r.Start(t.Context()))
		defer r.Close()

		hub.Emit("error", fmt.Errorf("fetch failed: %s", "boom"))

		waitSignal(t, published)
	})

	t.Run("ignores events that are not attached", func(t *testing.T) {
		published := make(chan struct{}, 1)
		pub := NewPublisherMock(t)
		pub.EXPECT().Publish(mock.Anything, "block", mock.Anything).Run(signalOnPublish(published)).Return(nil).Once()

		hub := eventhub.New()
		r := New(pub)
		r.Attach(hub, "block")
		require.NoError(t, r.Start(t.Context()))
		defer r.Close()

		hub.Emit("tx", "ignored")
		hub.Emit("block", "hash")

		waitSignal(t, published)
	})

	t.Run("drops events observed while stopped", func(t *testing.T) {
		published := make(chan struct{}, 1)
		pub := NewPublisherMock(t)
		pub.EXPECT().Publish(mock.Anything, "block", []byte(`"after"`)).Run(signalOnPublish(published)).Return(nil).Once()

		hub := eventhub.New()
		r := New(pub)
		r.Attach(hub, "block")

		hub.Emit("block", "before")
		require.NoError(t, r.Start(t.Context()))
		defer r.Close()
		hub.Emit("block", "after")

		waitSignal(t, published)
	})

	t.Run("keeps going after a publish failure", func(t *testing.T) {
		published := make(chan struct{}, 2)
		pub := NewPublisherMock(t)
		pub.EXPECT().Publish(mock.Anything, "block", []byte(`"first"`)).Run(signalOnPublish(published)).Return(assert.AnError).Once()
		pub.EXPECT().Publish(mock.Anything, "block", []byte(`"second"`)).Run(signalOnPublish(published)).Return(nil).Once()

		hub := eventhub.New()
		r := New(pub)
		r.Attach(hub, "block")
		require.NoError(t, r.Start(t.Context()))
		defer r.Close()

		hub.Emit("block", "first")
		waitSignal(t, published)
		hub.Emit("block", "second")
		waitSignal(t, published)
	})

	t.Run("skips payloads that cannot be encoded", func(t *testing.T) {
		published := make(chan struct{}, 1)
		pub := NewPublisherMock(t)
		pub.EXPECT().Publish(mock.Anything, "block", []byte(`"ok"`)).Run(signalOnPublish(published)).Return(nil).Once()

		hub := eventhub.New()
		r := New(pub)
		r.Attach(hub, "block")
		require.NoError(t, r.Start(t.Context()))
		defer r.Close()

		hub.Emit("block", make(chan int))
		hub.Emit("block", "ok")

		waitSignal(t, published)
	})

	t.Run("drops events without blocking when the queue is full", func(t *testing.T) {
		picked := make(chan struct{}, 1)
		release := make(chan struct{})
		published := make(chan struct{}, 1)
		pub := NewPublisherMock(t)
		pub.EXPECT().Publish(mock.Anything, "block", []byte(`"a"`)).Run(func(context.Context, string, []byte) {
			picked <- struct{}{}
			<-release
		}).Return(nil).Once()
		pub.EXPECT().Publish(mock.Anything, "block", []byte(`"b"`)).Run(signalOnPublish(published)).Return(nil).Once()

		hub := eventhub.New()
		r := New(pub, WithBuffer(1))
		r.Attach(hub, "block")
		require.NoError(t, r.Start(t.Context()))
		defer r.Close()

		hub.Emit("block", "a")
		waitSignal(t, picked)

		emitted := make(chan struct{})
		go func() {
			hub.Emit("block", "b")
			hub.Emit("block", "c")
			close(emitted)
		}()
		waitSignal(t, emitted)

		close(release)
		waitSignal(t, published)
	})

	t.Run("stops publishing after close", func(t *testing.T) {
		hub := eventhub.New()
		r := New(NewPublisherMock(t))
		r.Attach(hub, "block")
		require.NoError(t, r.Start(t.Context()))
		r.Close()

		assert.True(t, hub.Emit("block", "late"))
	})
}

func TestNew(t *testing.T) {
	pub := NewPublisherMock(t)

	r := New(pub, WithBuffer(8), WithPublishTimeout(time.Second))

	assert.Same(t, pub, r.publisher)
	assert.Equal(t, 8, cap(r.queue))
	assert.Equal(t, time.Second, r.cfg.publishTimeout)
}
