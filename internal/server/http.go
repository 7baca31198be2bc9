package server

import (
	"context"
	"time"

	"jobparser/internal/config"
	"jobparser/internal/errors"
	"jobparser/internal/observability"
	"jobparser/internal/service"
	"jobparser/internal/types"
)

// ParseRequest is the body of POST /parse
type ParseRequest struct {
	Text string `json:"text"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// JobService is what the handlers need from the service layer
type JobService interface {
	Parse(ctx context.Context, text string) (types.ParseResult, error)
	Publish(ctx context.Context, req types.PublishRequest) (types.PublishResponse, error)
	Stats() service.Stats
}

// HealthCheck reports one dependency for /health. A nil status omits it.
type HealthCheck func(ctx context.Context) (status map[string]any, healthy bool)

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Service       JobService
	Observability *observability.Manager
	Metrics       *observability.Metrics
	HealthChecks  map[string]HealthCheck
	HealthTimeout time.Duration

	// Optional overlay watcher, started and stopped with the server
	Watcher *LibraryWatcher

	Logger *errors.Logger
}

// Options holds the collaborators of a Server
type Options struct {
	Version       string
	Observability *observability.Manager
	HealthChecks  map[string]HealthCheck
	Watcher       *LibraryWatcher
}

// NewServer creates a Server from the server section of the configuration
func NewServer(cfg config.ServerConfig, svc JobService, opts Options, logger *errors.Logger) *Server {
	if logger == nil {
		logger = errors.Discard()
	}

	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	rateLimit := cfg.RateLimit
	if rateLimit.Enabled {
		rateLimiter = NewRateLimiter(rateLimit.RequestsPerMin, rateLimit.BurstCapacity, logger)
	}

	return &Server{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Version:         opts.Version,
		TLSConfig:       cfg.TLS,
		APIKeys:         apiKeyMap,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		MaxRequestSize:  cfg.MaxBodySize,
		RateLimit:       &rateLimit,
		RateLimiter:     rateLimiter,
		Service:         svc,
		Observability:   opts.Observability,
		Metrics:         opts.Observability.GetMetrics(),
		HealthChecks:    opts.HealthChecks,
		HealthTimeout:   5 * time.Second,
		Watcher:         opts.Watcher,
		Logger:          logger,
	}
}
