package logger

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// resetLogger resets the global logger state for testing
func resetLogger() {
	baseLogger = nil
	initBaseLoggerOnce = sync.Once{}
}

func TestInit(t *testing.T) {
	t.Run("successful initialization with valid level", func(t *testing.T) {
		resetLogger()
		err := Init("info")
		require.NoError(t, err)
		assert.NotNil(t, baseLogger)
	})

	t.Run("error with invalid level", func(t *testing.T) {
		resetLogger()
		err := Init("invalid")
		assert.Error(t, err)
		assert.Nil(t, baseLogger)
	})

	t.Run("init only once", func(t *testing.T) {
		resetLogger()

		require.NoError(t, Init("debug"))
		first := baseLogger

		require.NoError(t, Init("error"))
		assert.Equal(t, first, baseLogger, "Init() should only initialize once")
	})
}

func TestUninitialized(t *testing.T) {
	resetLogger()

	assert.NotPanics(t, func() {
		Info(t.Context(), "before init", "key", "value")
		_ = Sync()
	})
}

func TestDerive(t *testing.T) {
	resetLogger()
	require.NoError(t, Init("debug"))

	t.Run("derive context with key-value pairs", func(t *testing.T) {
		derivedCtx := Derive(t.Context(), "connection.epoch", "0190")

		l, ok := derivedCtx.Value(ctxKey).(*zap.SugaredLogger)
		assert.True(t, ok)
		assert.NotNil(t, l)
	})

	t.Run("derive twice keeps a logger in the context", func(t *testing.T) {
		ctx := Derive(Derive(t.Context(), "a", 1), "b", 2)

		l, ok := ctx.Value(ctxKey).(*zap.SugaredLogger)
		assert.True(t, ok)
		assert.NotNil(t, l)
	})
}

func TestDeriveFromCtx(t *testing.T) {
	resetLogger()
	require.NoError(t, Init("debug"))

	t.Run("context without logger", func(t *testing.T) {
		assert.NotNil(t, deriveFromCtx(t.Context(), "key", "value"))
	})

	t.Run("context with a valid span", func(t *testing.T) {
		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
		ctx := trace.ContextWithSpanContext(t.Context(), sc)

		assert.NotNil(t, deriveFromCtx(ctx))
	})
}

func TestLevels(t *testing.T) {
	resetLogger()
	require.NoError(t, Init("debug"))
	ctx := Derive(t.Context(), "context", "derived")

	assert.NotPanics(t, func() {
		Debug(ctx, "debug message", "key", "value")
		Info(ctx, "info message", "key", "value")
		Warn(ctx, "warn message", "key", "value")
		Error(ctx, "error message", "key", "value")
	})

	assert.Panics(t, func() {
		Panic(ctx, "panic message")
	})
}

func TestLeveled(t *testing.T) {
	resetLogger()
	require.NoError(t, Init("debug"))

	l := Leveled(t.Context())
	assert.NotPanics(t, func() {
		l.Debug("performing request", "method", "GET")
		l.Info("request done")
		l.Warn("retrying", "attempt", 1)
		l.Error("giving up", "error", "boom")
	})
}

func TestFatal(t *testing.T) {
	if os.Getenv("TEST_FATAL_SUBPROCESS") == "1" {
		_ = Init("debug")
		Fatal(context.Background(), "fatal error for test", "key", "value")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal")
	cmd.Env = append(os.Environ(), "TEST_FATAL_SUBPROCESS=1")

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	exitErr, ok := err.(*exec.ExitError)
	require.True(t, ok, "the subprocess should exit with a non-zero status")
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, stdout.String(), `"level":"fatal"`)
}
