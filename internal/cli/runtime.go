package cli

import (
	"context"
	"time"

	"jobparser/internal/ai"
	"jobparser/internal/cache"
	"jobparser/internal/config"
	"jobparser/internal/errors"
	"jobparser/internal/extract"
	"jobparser/internal/jobstore"
	"jobparser/internal/observability"
	"jobparser/internal/patterns"
	"jobparser/internal/server"
	"jobparser/internal/service"
)

// runtime holds the wired service and everything that must be closed with it
type runtime struct {
	service       *service.Service
	observability *observability.Manager
	healthChecks  map[string]server.HealthCheck
	closers       []func()
	logger        *errors.Logger
}

// newRuntime wires the engine, cache, AI assistant and publishers from cfg.
// withTelemetry starts the OpenTelemetry exporters; one-shot commands leave
// it off so console exporters do not mix with command output.
func newRuntime(ctx context.Context, cfg *config.Config, logger *errors.Logger, withTelemetry bool) (*runtime, error) {
	rt := &runtime{healthChecks: map[string]server.HealthCheck{}, logger: logger}

	if withTelemetry {
		om, err := observability.NewManager(ctx, observability.SettingsFrom(cfg, Version))
		if err != nil {
			return nil, err
		}
		rt.observability = om
		rt.closers = append(rt.closers, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := om.Shutdown(shutdownCtx); err != nil {
				logger.LogError(err, "Failed to shutdown observability")
			}
		})
	}

	lib, err := patterns.Load(cfg.Patterns.OverlayFile)
	if err != nil {
		rt.Close()
		return nil, err
	}

	opts := service.Options{
		Metrics:        rt.observability.GetMetrics(),
		Logger:         logger,
		DefaultCompany: cfg.App.DefaultCompany,
	}

	if cfg.Cache.Enabled {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache)
		if err != nil {
			rt.Close()
			return nil, err
		}
		opts.Cache = rc
		rt.closers = append(rt.closers, func() { _ = rc.Close() })
	}

	assistant, err := ai.NewAssistant(ctx, cfg.AI, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if assistant != nil {
		opts.Assistant = assistant
		if gemini, ok := assistant.(*ai.GeminiAssistant); ok {
			rt.healthChecks["ai"] = func(ctx context.Context) (map[string]any, bool) {
				info := gemini.ModelInfo(ctx)
				return map[string]any{"model": info, "circuit_breaker": gemini.Stats()}, info.Available
			}
		}
	}

	if cfg.JobStore.Enabled {
		pub := jobstore.NewHTTPPublisher(cfg.JobStore, logger)
		opts.Publishers = append(opts.Publishers, pub)
		rt.healthChecks["jobstore"] = func(context.Context) (map[string]any, bool) {
			return pub.Breaker().Stats(), pub.Breaker().IsHealthy()
		}
	}

	if cfg.Database.Enabled {
		store, err := jobstore.OpenPostgres(ctx, cfg.Database, logger)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, store.Close)
		if cfg.Database.AutoMigrate {
			if err := store.Migrate(ctx); err != nil {
				rt.Close()
				return nil, err
			}
		}
		opts.Publishers = append(opts.Publishers, store)
	}

	rt.service = service.New(extract.New(lib), opts)
	rt.closers = append(rt.closers, func() { _ = rt.service.Close() })

	logger.Info("Runtime ready",
		"library_version", lib.Version,
		"cache_enabled", cfg.Cache.Enabled,
		"ai_enabled", assistant != nil,
		"publishers", len(opts.Publishers))
	return rt, nil
}

// libraryWatcher returns a watcher for the overlay when watching is enabled
func (rt *runtime) libraryWatcher(cfg *config.Config) *server.LibraryWatcher {
	if cfg.Patterns.OverlayFile == "" || !cfg.Patterns.Watch {
		return nil
	}
	return server.NewLibraryWatcher(cfg.Patterns.OverlayFile, cfg.Patterns.DebounceDelay,
		rt.service, rt.observability.GetMetrics(), rt.logger)
}

// Close releases resources in reverse order of acquisition
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
