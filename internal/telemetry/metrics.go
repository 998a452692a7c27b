package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "lindo.shell"

const (
	OpKey        = attribute.Key("lindo.op")
	TransportKey = attribute.Key("lindo.transport")
	ReasonKey    = attribute.Key("lindo.reason")
)

// Gauges are read when metrics are collected.
type Gauges struct {
	OpenGames   func() int64
	Subscribers func() int64
	Windows     func() int64
}

// ShellMetrics are the instruments of the shell host.
type ShellMetrics struct {
	Commits         metric.Int64Counter
	PatchesApplied  metric.Int64Counter
	PatchesRejected metric.Int64Counter
	Detached        metric.Int64Counter
	Connections     metric.Int64UpDownCounter
	ContextWait     metric.Float64Histogram

	meter metric.Meter
}

// NewShellMetrics creates the instruments on meter.
func NewShellMetrics(meter metric.Meter) (*ShellMetrics, error) {
	var err error
	m := &ShellMetrics{meter: meter}

	m.Commits, err = meter.Int64Counter("lindo.state.commits",
		metric.WithDescription("Commits emitted by the root store"),
		metric.WithUnit("{commits}"),
	)
	if err != nil {
		return nil, err
	}
	m.PatchesApplied, err = meter.Int64Counter("lindo.state.patches.applied",
		metric.WithDescription("Patches accepted from render surfaces"),
		metric.WithUnit("{patches}"),
	)
	if err != nil {
		return nil, err
	}
	m.PatchesRejected, err = meter.Int64Counter("lindo.state.patches.rejected",
		metric.WithDescription("Patch batches rejected from render surfaces"),
		metric.WithUnit("{batches}"),
	)
	if err != nil {
		return nil, err
	}
	m.Detached, err = meter.Int64Counter("lindo.surface.detached",
		metric.WithDescription("Surfaces detached from the patch stream"),
		metric.WithUnit("{surfaces}"),
	)
	if err != nil {
		return nil, err
	}
	m.Connections, err = meter.Int64UpDownCounter("lindo.surface.connections",
		metric.WithDescription("Open patch stream connections"),
		metric.WithUnit("{connections}"),
	)
	if err != nil {
		return nil, err
	}
	m.ContextWait, err = meter.Float64Histogram("lindo.context.wait",
		metric.WithDescription("Time a context request waited for the host"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ObserveGauges registers callbacks for the gauges.
func (m *ShellMetrics) ObserveGauges(g Gauges) error {
	games, err := m.meter.Int64ObservableGauge("lindo.games.open",
		metric.WithDescription("Open game tabs"), metric.WithUnit("{games}"))
	if err != nil {
		return err
	}
	subs, err := m.meter.Int64ObservableGauge("lindo.surface.subscribers",
		metric.WithDescription("Attached subscriptions"), metric.WithUnit("{subscriptions}"))
	if err != nil {
		return err
	}
	wins, err := m.meter.Int64ObservableGauge("lindo.windows.open",
		metric.WithDescription("Open game windows"), metric.WithUnit("{windows}"))
	if err != nil {
		return err
	}
	_, err = m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		if g.OpenGames != nil {
			o.ObserveInt64(games, g.OpenGames())
		}
		if g.Subscribers != nil {
			o.ObserveInt64(subs, g.Subscribers())
		}
		if g.Windows != nil {
			o.ObserveInt64(wins, g.Windows())
		}
		return nil
	}, games, subs, wins)
	return err
}

// StartSpan starts a span on the global tracer. It is a no-op span unless
// tracing is enabled.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, oteltrace.WithAttributes(attrs...))
}
