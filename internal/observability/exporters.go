package observability

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newSpanExporter picks the console exporter, then OTLP. It returns nil when
// neither is configured.
func newSpanExporter(ctx context.Context, s Settings) (sdktrace.SpanExporter, error) {
	switch {
	case s.Console:
		var opts []stdouttrace.Option
		if s.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		return stdouttrace.New(opts...)
	case s.OTLP.Enabled:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(s.OTLP.Endpoint)}
		if s.OTLP.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(s.OTLP.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(s.OTLP.Headers))
		}
		exporter, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		return exporter, nil
	}
	return nil, nil
}

// newMetricReaders builds one reader per configured sink. The returned
// closers stop anything the readers started outside the meter provider.
func newMetricReaders(ctx context.Context, s Settings) ([]sdkmetric.Reader, []func(context.Context) error, error) {
	var (
		readers []sdkmetric.Reader
		closers []func(context.Context) error
	)
	periodic := func(exp sdkmetric.Exporter) sdkmetric.Reader {
		return sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(s.CollectionInterval))
	}

	if s.Console {
		exp, err := stdoutmetric.New()
		if err != nil {
			return nil, closers, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, periodic(exp))
	}

	if s.OTLP.Enabled {
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpointURL(s.OTLP.Endpoint)}
		if s.OTLP.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		if len(s.OTLP.Headers) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(s.OTLP.Headers))
		}
		exp, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, closers, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		readers = append(readers, periodic(exp))
	}

	if s.Prometheus.Enabled {
		reader, srv, err := startPrometheus(s.Prometheus.Endpoint, s.Prometheus.Port)
		if err != nil {
			return nil, closers, err
		}
		readers = append(readers, reader)
		closers = append(closers, srv.Shutdown)
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}
	return readers, closers, nil
}

// startPrometheus registers the OpenTelemetry prometheus exporter with the
// default registry and serves it on its own port. The listener is bound
// before returning so a taken port fails startup.
func startPrometheus(endpoint, port string) (sdkmetric.Reader, *http.Server, error) {
	exporter, err := prometheus.New(prometheus.WithoutScopeInfo())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	if endpoint == "" {
		endpoint = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.Handler())

	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen for Prometheus on port %s: %w", port, err)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	log.Printf("Serving Prometheus metrics on http://%s%s", ln.Addr(), endpoint)
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("Prometheus server error: %v", err)
		}
	}()
	return exporter, srv, nil
}
