package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown", "xlsx"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB
	v.SetDefault("app.defaultCompany", "")

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.shutdownTimeout", 30*time.Second)
	v.SetDefault("server.maxBodySize", 1024*1024)
	v.SetDefault("server.tls.mode", "disabled") // disabled, server
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// Pattern library overlay
	v.SetDefault("patterns.overlayFile", "")
	v.SetDefault("patterns.watch", true)
	v.SetDefault("patterns.debounceDelay", 500*time.Millisecond)

	// AI assist, off unless asked for
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 2)
	v.SetDefault("ai.temperature", 0.1) // Low temperature for consistent extraction
	v.SetDefault("ai.prompts.system", "")
	v.SetDefault("ai.prompts.systemFile", "")
	v.SetDefault("ai.prompts.user", "")
	v.SetDefault("ai.prompts.userFile", "")
	v.SetDefault("ai.circuitBreaker.enabled", true)
	v.SetDefault("ai.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.circuitBreaker.failureThreshold", 0.6)

	// Job-storage service
	v.SetDefault("jobStore.enabled", false)
	v.SetDefault("jobStore.baseURL", "http://localhost:5000")
	v.SetDefault("jobStore.token", "")
	v.SetDefault("jobStore.timeout", 15*time.Second)
	v.SetDefault("jobStore.maxRetries", 3)
	v.SetDefault("jobStore.circuitBreaker.enabled", true)
	v.SetDefault("jobStore.circuitBreaker.maxRequests", 3)
	v.SetDefault("jobStore.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("jobStore.circuitBreaker.timeout", 30*time.Second)
	v.SetDefault("jobStore.circuitBreaker.minRequests", 5)
	v.SetDefault("jobStore.circuitBreaker.failureThreshold", 0.5)

	// Parse cache
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.redisURL", "")
	v.SetDefault("cache.ttl", 24*time.Hour)

	// Posting store
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.url", "")
	v.SetDefault("database.maxConns", 4)
	v.SetDefault("database.autoMigrate", true)

	// Inbox sweep
	v.SetDefault("inbox.dir", "./inbox")
	v.SetDefault("inbox.schedule", "@every 5m")
	v.SetDefault("inbox.pattern", "*.txt")
	v.SetDefault("inbox.publish", true)

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.mount", "secret")
	v.SetDefault("vault.timeout", 10*time.Second)
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.jobStore", "")
	v.SetDefault("vault.secrets.database", "")
	v.SetDefault("vault.secrets.tlsCerts", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "jobparser")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.customMetrics.parsing.enabled", true)
	v.SetDefault("observability.customMetrics.parsing.trackFieldDefaults", true)
	v.SetDefault("observability.customMetrics.parsing.trackTextSizes", true)
	v.SetDefault("observability.customMetrics.publishing.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackCache", true)
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}
