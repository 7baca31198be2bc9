package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"jobparser/internal/config"
)

// Metrics holds the custom jobparser instruments. The zero value records
// nothing, so callers never need to check whether observability is on.
type Metrics struct {
	cfg config.CustomMetricsConfig

	ParseRequests   metric.Int64Counter
	ParseDuration   metric.Float64Histogram
	ParseTextSize   metric.Int64Histogram
	FieldDefaults   metric.Int64Counter
	PublishCount    metric.Int64Counter
	PublishDuration metric.Float64Histogram
	CacheLookups    metric.Int64Counter
	RateLimitHits   metric.Int64Counter
	LibraryReloads  metric.Int64Counter
	SweepFiles      metric.Int64Counter
}

func allMetrics() config.CustomMetricsConfig {
	return config.CustomMetricsConfig{
		Parsing:        config.ParsingMetricsConfig{Enabled: true, TrackFieldDefaults: true, TrackTextSizes: true},
		Publishing:     config.PublishingMetricsConfig{Enabled: true},
		Infrastructure: config.InfrastructureMetricsConfig{Enabled: true, TrackRateLimits: true, TrackCache: true},
	}
}

// NewMetrics creates every instrument on meter
func NewMetrics(meter metric.Meter, cfg config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{cfg: cfg}
	var err error

	counters := []struct {
		target *metric.Int64Counter
		name   string
		desc   string
	}{
		{&m.ParseRequests, "jobparser_parse_requests_total", "Total number of parse requests by source and status"},
		{&m.FieldDefaults, "jobparser_field_defaults_total", "Fields that fell back to their default value"},
		{&m.PublishCount, "jobparser_publish_total", "Total number of publish attempts by publisher and status"},
		{&m.CacheLookups, "jobparser_cache_lookups_total", "Parse cache lookups by result"},
		{&m.RateLimitHits, "jobparser_rate_limit_hits_total", "Total number of rate limit hits"},
		{&m.LibraryReloads, "jobparser_library_reloads_total", "Pattern library reloads by status"},
		{&m.SweepFiles, "jobparser_sweep_files_total", "Inbox files handled by status"},
	}
	for _, c := range counters {
		if *c.target, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, fmt.Errorf("failed to create %s metric: %w", c.name, err)
		}
	}

	m.ParseDuration, err = meter.Float64Histogram(
		"jobparser_parse_duration_seconds",
		metric.WithDescription("Time spent producing a record"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse duration metric: %w", err)
	}

	m.PublishDuration, err = meter.Float64Histogram(
		"jobparser_publish_duration_seconds",
		metric.WithDescription("Time spent publishing a posting"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create publish duration metric: %w", err)
	}

	m.ParseTextSize, err = meter.Int64Histogram(
		"jobparser_parse_text_bytes",
		metric.WithDescription("Size of parsed job descriptions"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create text size metric: %w", err)
	}

	return m, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordParse records one parse and, on success, the fields that defaulted
func (m *Metrics) RecordParse(ctx context.Context, source string, err error, elapsed time.Duration, textLen int, defaulted []string) {
	if m == nil || m.ParseRequests == nil || !m.cfg.Parsing.Enabled {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("status", status(err)),
	)
	m.ParseRequests.Add(ctx, 1, attrs)
	m.ParseDuration.Record(ctx, elapsed.Seconds(), attrs)

	if m.cfg.Parsing.TrackTextSizes {
		m.ParseTextSize.Record(ctx, int64(textLen))
	}
	if m.cfg.Parsing.TrackFieldDefaults {
		for _, field := range defaulted {
			m.FieldDefaults.Add(ctx, 1, metric.WithAttributes(attribute.String("field", field)))
		}
	}
}

// RecordPublish records one publisher call
func (m *Metrics) RecordPublish(ctx context.Context, publisher string, err error, elapsed time.Duration) {
	if m == nil || m.PublishCount == nil || !m.cfg.Publishing.Enabled {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("publisher", publisher),
		attribute.String("status", status(err)),
	)
	m.PublishCount.Add(ctx, 1, attrs)
	m.PublishDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordCacheLookup records a cache hit or miss
func (m *Metrics) RecordCacheLookup(ctx context.Context, result string) {
	if m == nil || m.CacheLookups == nil || !m.infrastructure() || !m.cfg.Infrastructure.TrackCache {
		return
	}
	m.CacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordRateLimitHit records a request rejected by the rate limiter
func (m *Metrics) RecordRateLimitHit(ctx context.Context, attrs ...attribute.KeyValue) {
	if m == nil || m.RateLimitHits == nil || !m.infrastructure() || !m.cfg.Infrastructure.TrackRateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordLibraryReload records a pattern overlay reload
func (m *Metrics) RecordLibraryReload(ctx context.Context, err error) {
	if m == nil || m.LibraryReloads == nil || !m.infrastructure() {
		return
	}
	m.LibraryReloads.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status(err))))
}

// RecordSweepFile records the outcome of one inbox file
func (m *Metrics) RecordSweepFile(ctx context.Context, fileStatus string) {
	if m == nil || m.SweepFiles == nil || !m.cfg.Parsing.Enabled {
		return
	}
	m.SweepFiles.Add(ctx, 1, metric.WithAttributes(attribute.String("status", fileStatus)))
}

func (m *Metrics) infrastructure() bool {
	return m.cfg.Infrastructure.Enabled
}
