package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct{ calls int }

func (l *recordingLogger) Error(string, ...any) { l.calls++ }
func (l *recordingLogger) Info(string, ...any)  { l.calls++ }
func (l *recordingLogger) Debug(string, ...any) { l.calls++ }
func (l *recordingLogger) Warn(string, ...any)  { l.calls++ }

func TestNewClient(t *testing.T) {
	t.Run("uses default configuration when no options are provided", func(t *testing.T) {
		client := NewClient()

		assert.NotNil(t, client, "NewClient should return a non-nil client")
		assert.Equal(t, 5*time.Second, client.HTTPClient.Timeout, "default HTTP timeout should be 5s")
		assert.Equal(t, 1*time.Second, client.RetryWaitMin, "default RetryWaitMin should be 1s")
		assert.Equal(t, 5*time.Second, client.RetryWaitMax, "default RetryWaitMax should be 5s")
		assert.Equal(t, 2, client.RetryMax, "default RetryMax should be 2")
		assert.Nil(t, client.Logger, "logging should be disabled by default")
	})

	t.Run("applies provided options correctly", func(t *testing.T) {
		l := &recordingLogger{}
		client := NewClient(
			WithTimeout(10*time.Second),
			WithRetryWaitMin(200*time.Millisecond),
			WithRetryWaitMax(10*time.Second),
			WithRetryMax(5),
			WithLogger(l),
		)

		assert.Equal(t, 10*time.Second, client.HTTPClient.Timeout)
		assert.Equal(t, 200*time.Millisecond, client.RetryWaitMin)
		assert.Equal(t, 10*time.Second, client.RetryWaitMax)
		assert.Equal(t, 5, client.RetryMax)
		assert.Equal(t, l, client.Logger)
	})
}

func TestClient_ExhaustedRetries(t *testing.T) {
	t.Run("returns the last response once retries are exhausted", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			calls.Add(1)
			w.WriteHeader(nethttp.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(
			WithRetryMax(1),
			WithRetryWaitMin(time.Millisecond),
			WithRetryWaitMax(time.Millisecond),
		)

		res, err := client.Get(server.URL)
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, nethttp.StatusServiceUnavailable, res.StatusCode)
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestOptions(t *testing.T) {
	cfg := &config{}

	for _, opt := range []Option{
		WithTimeout(3 * time.Second),
		WithRetryWaitMin(time.Millisecond),
		WithRetryWaitMax(2 * time.Millisecond),
		WithRetryMax(9),
	} {
		require.NotNil(t, opt)
		opt(cfg)
	}

	assert.Equal(t, 3*time.Second, cfg.timeout)
	assert.Equal(t, time.Millisecond, cfg.retryWaitMin)
	assert.Equal(t, 2*time.Millisecond, cfg.retryWaitMax)
	assert.Equal(t, 9, cfg.retryMax)
}
