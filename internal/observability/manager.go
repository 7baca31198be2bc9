package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Manager owns the tracer and meter providers and the exporters behind them.
// A nil or disabled Manager hands out no-op tracers and a Metrics value that
// records nothing.
type Manager struct {
	settings       Settings
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	shutdown       []func(context.Context) error
}

// NewManager sets up tracing and metrics. Nothing is started when telemetry
// is disabled.
func NewManager(ctx context.Context, s Settings) (*Manager, error) {
	m := &Manager{settings: s}
	if !s.Enabled {
		return m, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(s.ServiceName),
		semconv.ServiceVersion(s.ServiceVersion),
		attribute.String("service.instance.id", s.ServiceInstance),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := m.initTracing(ctx, res); err != nil {
		_ = m.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := m.initMetrics(ctx, res); err != nil {
		_ = m.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return m, nil
}

func (m *Manager) initTracing(ctx context.Context, res *resource.Resource) error {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(m.settings.SampleRate))),
	}

	exporter, err := newSpanExporter(ctx, m.settings)
	if err != nil {
		return err
	}
	// Without an exporter spans are still sampled so trace ids propagate.
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	m.tracerProvider = tp
	m.shutdown = append(m.shutdown, tp.Shutdown)
	return nil
}

func (m *Manager) initMetrics(ctx context.Context, res *resource.Resource) error {
	readers, closers, err := newMetricReaders(ctx, m.settings)
	m.shutdown = append(m.shutdown, closers...)
	if err != nil {
		return err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)

	m.meterProvider = mp
	// Flush readers before the prometheus listener goes away.
	m.shutdown = append([]func(context.Context) error{mp.Shutdown}, m.shutdown...)

	m.metrics, err = NewMetrics(mp.Meter(m.settings.ServiceName), m.settings.Metrics)
	return err
}

// GetMetrics returns the metrics instance. It is never nil.
func (m *Manager) GetMetrics() *Metrics {
	if m == nil || m.metrics == nil {
		return &Metrics{}
	}
	return m.metrics
}

// HTTPMiddleware wraps a handler with otelhttp spans and request metrics
func (m *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if m == nil || !m.settings.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}
	return otelhttp.NewMiddleware(
		m.settings.ServiceName,
		otelhttp.WithTracerProvider(m.tracerProvider),
		otelhttp.WithMeterProvider(m.meterProvider),
	)
}

// Tracer returns a named tracer, a no-op one when telemetry is off
func (m *Manager) Tracer(name string) trace.Tracer {
	if m == nil || m.tracerProvider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return m.tracerProvider.Tracer(name)
}

// Shutdown flushes and stops every provider and exporter. It keeps going
// after a failure and returns all errors joined.
func (m *Manager) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, fn := range m.shutdown {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	m.shutdown = nil
	return errors.Join(errs...)
}
