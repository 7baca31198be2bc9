package observability

import (
	"time"

	"jobparser/internal/config"
)

// Settings is the telemetry configuration resolved for one process
type Settings struct {
	ServiceName        string
	ServiceVersion     string
	ServiceInstance    string
	Enabled            bool
	Console            bool
	PrettyPrint        bool
	SampleRate         float64
	CollectionInterval time.Duration
	Prometheus         config.PrometheusConfig
	OTLP               config.OTLPConfig
	Metrics            config.CustomMetricsConfig
}

// SettingsFrom resolves Settings from the loaded configuration. version is
// used when observability.serviceVersion is empty.
func SettingsFrom(cfg *config.Config, version string) Settings {
	if cfg == nil {
		return Settings{
			ServiceName:    "jobparser",
			ServiceVersion: version,
			SampleRate:     1.0,
			Metrics:        allMetrics(),
		}
	}

	obs := cfg.Observability
	s := Settings{
		ServiceName:        obs.ServiceName,
		ServiceVersion:     obs.ServiceVersion,
		ServiceInstance:    obs.ServiceInstance,
		Enabled:            obs.Enabled,
		Console:            obs.ConsoleOutput,
		PrettyPrint:        obs.Console.PrettyPrint,
		SampleRate:         obs.SampleRate,
		CollectionInterval: obs.Metrics.CollectionInterval,
		Prometheus:         obs.Prometheus,
		OTLP:               obs.OTLP,
		Metrics:            obs.CustomMetrics,
	}
	if s.ServiceName == "" {
		s.ServiceName = "jobparser"
	}
	if s.ServiceVersion == "" {
		s.ServiceVersion = version
	}
	if s.ServiceInstance == "" {
		s.ServiceInstance = s.ServiceName + "-1"
	}
	if s.CollectionInterval <= 0 {
		s.CollectionInterval = 15 * time.Second
	}
	return s
}
