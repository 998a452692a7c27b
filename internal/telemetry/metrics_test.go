package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, r *metric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := r.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestShellMetrics(t *testing.T) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewShellMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.ObserveGauges(Gauges{OpenGames: func() int64 { return 3 }}); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	m.Commits.Add(ctx, 2)
	m.PatchesRejected.Add(ctx, 1)

	got := collect(t, reader)
	sum, ok := got["lindo.state.commits"].(metricdata.Sum[int64])
	if !ok || len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 2 {
		t.Fatalf("commits: %+v", got["lindo.state.commits"])
	}
	gauge, ok := got["lindo.games.open"].(metricdata.Gauge[int64])
	if !ok || len(gauge.DataPoints) != 1 || gauge.DataPoints[0].Value != 3 {
		t.Fatalf("games gauge: %+v", got["lindo.games.open"])
	}
}

func TestProviderWithoutExporters(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{ServiceName: "lindo-test", SamplingRatio: 1})
	if err != nil {
		t.Fatal(err)
	}
	if p.Metrics == nil || p.TracerProvider != nil || p.MeterProvider != nil {
		t.Fatalf("unexpected provider: %+v", p)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
}
