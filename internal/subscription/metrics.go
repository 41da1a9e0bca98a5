package subscription

import (
	"context"
	"time"

	"github.com/gabapcia/insightwatch/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationScope = "github.com/gabapcia/insightwatch/internal/subscription"

// knownEvents keeps the event attribute bounded: per-address events are counted as "address".
var knownEvents = map[string]bool{
	EventConnected:    true,
	EventDisconnected: true,
	EventError:        true,
	EventBlock:        true,
	EventBlockDetails: true,
	EventTx:           true,
	EventTxDetails:    true,
	EventTxVout:       true,
}

type instruments struct {
	tracer        trace.Tracer
	eventsEmitted metric.Int64Counter
	fetchDuration metric.Float64Histogram
}

// newInstruments binds to the global providers, which are no-ops until telemetry.Init runs.
func newInstruments() instruments {
	meter := otel.Meter(instrumentationScope)

	eventsEmitted, err := meter.Int64Counter("insightwatch.events.emitted",
		metric.WithDescription("Local events emitted by the subscription engine."),
	)
	if err != nil {
		logger.Warn(context.Background(), "failed to create events counter", "error", err)
	}

	fetchDuration, err := meter.Float64Histogram("insightwatch.detail_fetch.duration",
		metric.WithDescription("Duration of detail fetches."),
		metric.WithUnit("s"),
	)
	if err != nil {
		logger.Warn(context.Background(), "failed to create fetch histogram", "error", err)
	}

	return instruments{
		tracer:        otel.Tracer(instrumentationScope),
		eventsEmitted: eventsEmitted,
		fetchDuration: fetchDuration,
	}
}

func (i instruments) countEvent(ctx context.Context, event string) {
	if i.eventsEmitted == nil {
		return
	}

	if !knownEvents[event] {
		event = "address"
	}
	i.eventsEmitted.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
}

func (i instruments) recordFetch(ctx context.Context, kind string, start time.Time, err error) {
	if i.fetchDuration == nil {
		return
	}

	i.fetchDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("error", err != nil),
	))
}
