package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Config is the OpenTelemetry section of the shell configuration.
type Config struct {
	ServiceName    string  `json:",default=lindo-shell"`
	ServiceVersion string  `json:",default=dev"`
	Environment    string  `json:",default=development"`
	CollectorURL   string  `json:",optional"`
	EnableTracing  bool    `json:",optional"`
	EnableMetrics  bool    `json:",optional"`
	SamplingRatio  float64 `json:",default=1"`
}

// Provider owns the SDK providers. With tracing and metrics disabled the
// global no-op providers stay in place and Metrics still works.
type Provider struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Metrics        *ShellMetrics
	config         Config
}

// NewProvider sets up exporters for the enabled signals and registers them
// globally.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	p := &Provider{config: config}
	if config.EnableTracing {
		p.TracerProvider, err = initTracing(ctx, res, config)
		if err != nil {
			return nil, fmt.Errorf("failed to init tracing: %w", err)
		}
		otel.SetTracerProvider(p.TracerProvider)
	}
	if config.EnableMetrics {
		p.MeterProvider, err = initMetrics(ctx, res, config)
		if err != nil {
			return nil, fmt.Errorf("failed to init metrics: %w", err)
		}
		otel.SetMeterProvider(p.MeterProvider)
	}
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	p.Metrics, err = NewShellMetrics(otel.Meter(instrumentationName))
	if err != nil {
		return nil, fmt.Errorf("failed to create shell metrics: %w", err)
	}
	return p, nil
}

func initTracing(ctx context.Context, res *resource.Resource, config Config) (*trace.TracerProvider, error) {
	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(config.CollectorURL),
		otlptracehttp.WithURLPath("/v1/traces"),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	return trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exp,
			trace.WithBatchTimeout(5*time.Second),
			trace.WithMaxExportBatchSize(512),
		),
		trace.WithSampler(trace.TraceIDRatioBased(config.SamplingRatio)),
	), nil
}

func initMetrics(ctx context.Context, res *resource.Resource, config Config) (*metric.MeterProvider, error) {
	exp, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(config.CollectorURL),
		otlpmetrichttp.WithURLPath("/v1/metrics"),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exp, metric.WithInterval(30*time.Second))),
	), nil
}

// HTTPMiddleware traces incoming requests.
func (p *Provider) HTTPMiddleware(next http.HandlerFunc) http.HandlerFunc {
	if p == nil || p.TracerProvider == nil {
		return next
	}
	h := otelhttp.NewHandler(next, p.config.ServiceName+"-http")
	return h.ServeHTTP
}

// Shutdown flushes and stops the SDK providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown TracerProvider: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown MeterProvider: %w", err))
		}
	}
	return errors.Join(errs...)
}
