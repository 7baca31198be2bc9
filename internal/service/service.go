// Package service composes the engine, cache, AI assist and publishers into
// the parse and publish operations shared by the CLI, HTTP server and inbox.
package service

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"jobparser/internal/ai"
	"jobparser/internal/cache"
	"jobparser/internal/errors"
	"jobparser/internal/extract"
	"jobparser/internal/jobstore"
	"jobparser/internal/observability"
	"jobparser/internal/posting"
	"jobparser/internal/types"
)

// Parser turns a job description into a ParseResult.
type Parser interface {
	Parse(ctx context.Context, text string) (types.ParseResult, error)
}

// Options holds the optional collaborators of a Service. Nil fields are
// replaced with no-op versions.
type Options struct {
	Cache          cache.Cache
	Assistant      ai.Assistant
	Publishers     []jobstore.Publisher
	Metrics        *observability.Metrics
	Logger         *errors.Logger
	DefaultCompany string
	Now            func() time.Time
}

// Stats are process-lifetime counters reported by /stats.
type Stats struct {
	Parses          int64  `json:"parses"`
	ParseFailures   int64  `json:"parseFailures"`
	CacheHits       int64  `json:"cacheHits"`
	AIParses        int64  `json:"aiParses"`
	Publishes       int64  `json:"publishes"`
	PublishFailures int64  `json:"publishFailures"`
	LibraryVersion  string `json:"libraryVersion"`
	AIEnabled       bool   `json:"aiEnabled"`
	Publishers      int    `json:"publishers"`
}

// Service is safe for concurrent use. The engine can be swapped while
// requests are in flight; each call keeps the engine it started with.
type Service struct {
	engine     atomic.Pointer[extract.Engine]
	cache      cache.Cache
	assistant  ai.Assistant
	publishers *jobstore.MultiPublisher
	metrics    *observability.Metrics
	logger     *errors.Logger

	defaultCompany string
	now            func() time.Time

	parses          atomic.Int64
	parseFailures   atomic.Int64
	cacheHits       atomic.Int64
	aiParses        atomic.Int64
	publishes       atomic.Int64
	publishFailures atomic.Int64
}

var _ Parser = (*Service)(nil)

// New creates a service around engine
func New(engine *extract.Engine, opts Options) *Service {
	s := &Service{
		cache:          opts.Cache,
		assistant:      opts.Assistant,
		metrics:        opts.Metrics,
		logger:         opts.Logger,
		defaultCompany: opts.DefaultCompany,
		now:            opts.Now,
	}
	if engine == nil {
		engine = extract.New(nil)
	}
	s.engine.Store(engine)

	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.logger == nil {
		s.logger = errors.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.publishers = jobstore.NewMultiPublisher(opts.Publishers...).WithObserver(s.observePublish)
	return s
}

// Engine returns the engine new requests will use
func (s *Service) Engine() *extract.Engine {
	return s.engine.Load()
}

// SwapEngine replaces the engine for subsequent requests
func (s *Service) SwapEngine(engine *extract.Engine) {
	old := s.engine.Swap(engine)
	s.logger.Info("Pattern library swapped",
		"old_version", old.Library().Version,
		"new_version", engine.Library().Version)
}

// LibraryVersion is the version of the current pattern library
func (s *Service) LibraryVersion() string {
	return s.Engine().Library().Version
}

// Parse returns a cached record when one exists for this text and library
// version, and otherwise runs the assistant with the rule engine as fallback.
func (s *Service) Parse(ctx context.Context, text string) (types.ParseResult, error) {
	tracer := otel.Tracer("jobparser.service")
	ctx, span := tracer.Start(ctx, "service.parse")
	defer span.End()
	span.SetAttributes(attribute.Int("input.text_length", len(text)))

	start := s.now()
	engine := s.Engine()
	version := engine.Library().Version
	key := cache.Key(version, text)

	rec, source, err := s.lookup(ctx, key)
	if err == nil && source == "" {
		rec, source, err = ai.WithFallback(s.assistant, engine, s.logger).Extract(ctx, text)
		if err == nil {
			if cacheErr := s.cache.Set(ctx, key, rec); cacheErr != nil {
				s.logger.LogError(cacheErr, "Failed to cache record", "key", key)
			}
		}
	}
	elapsed := s.now().Sub(start)

	s.parses.Add(1)
	if err != nil {
		s.parseFailures.Add(1)
		s.metrics.RecordParse(ctx, source, err, elapsed, len(text), nil)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return types.ParseResult{}, err
	}

	switch source {
	case types.SourceCache:
		s.cacheHits.Add(1)
	case types.SourceAI:
		s.aiParses.Add(1)
	}

	s.metrics.RecordParse(ctx, source, nil, elapsed, len(text), extract.DefaultedFields(rec))
	s.logger.Debug("Parsed job description",
		"text_length", len(text),
		"duration_ms", elapsed.Milliseconds(),
		"source", source,
		"library_version", version)
	span.SetAttributes(attribute.String("parse.source", source))

	return types.ParseResult{
		Record:         rec,
		Source:         source,
		LibraryVersion: version,
		DurationMs:     elapsed.Milliseconds(),
	}, nil
}

// lookup returns an empty source on a miss. Cache failures are logged and
// treated as misses.
func (s *Service) lookup(ctx context.Context, key string) (types.Record, string, error) {
	rec, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.logger.LogError(err, "Cache lookup failed", "key", key)
		s.metrics.RecordCacheLookup(ctx, "error")
		return types.Record{}, "", nil
	case !ok:
		s.metrics.RecordCacheLookup(ctx, "miss")
		return types.Record{}, "", nil
	default:
		s.metrics.RecordCacheLookup(ctx, "hit")
		return rec, types.SourceCache, nil
	}
}

// Publish builds a posting from the request's record, parsing its text first
// when no record is given, validates it and sends it to every publisher.
// A dry run stops after validation.
func (s *Service) Publish(ctx context.Context, req types.PublishRequest) (types.PublishResponse, error) {
	var rec types.Record
	switch {
	case req.Record != nil:
		rec = *req.Record
	case strings.TrimSpace(req.Text) != "":
		result, err := s.Parse(ctx, req.Text)
		if err != nil {
			return types.PublishResponse{}, err
		}
		rec = result.Record
	default:
		return types.PublishResponse{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"either text or record is required", nil)
	}

	p := posting.FromRecord(rec, posting.Options{
		Employer:       req.Employer,
		DefaultCompany: s.defaultCompany,
		Now:            s.now,
	})
	if err := posting.Validate(p); err != nil {
		return types.PublishResponse{Posting: p}, err
	}

	resp := types.PublishResponse{Posting: p, Results: []types.PublishResult{}}
	if req.DryRun {
		return resp, nil
	}
	if s.publishers.Len() == 0 {
		return resp, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"no publishers configured; enable jobStore or database", nil)
	}

	results, err := s.publishers.PublishAll(ctx, p)
	resp.Results = append(resp.Results, results...)
	if err != nil {
		return resp, err
	}

	s.logger.Info("Posting published",
		"job_code", p.JobCode,
		"title", p.JobTitle,
		"publishers", len(results))
	return resp, nil
}

func (s *Service) observePublish(publisher string, err error, elapsed time.Duration) {
	s.publishes.Add(1)
	if err != nil {
		s.publishFailures.Add(1)
	}
	s.metrics.RecordPublish(context.Background(), publisher, err, elapsed)
}

// Stats returns a snapshot of the service counters
func (s *Service) Stats() Stats {
	return Stats{
		Parses:          s.parses.Load(),
		ParseFailures:   s.parseFailures.Load(),
		CacheHits:       s.cacheHits.Load(),
		AIParses:        s.aiParses.Load(),
		Publishes:       s.publishes.Load(),
		PublishFailures: s.publishFailures.Load(),
		LibraryVersion:  s.LibraryVersion(),
		AIEnabled:       s.assistant != nil,
		Publishers:      s.publishers.Len(),
	}
}

// Close releases the assistant
func (s *Service) Close() error {
	if s.assistant != nil {
		return s.assistant.Close()
	}
	return nil
}
