package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearSecretEnv blanks the unprefixed fallbacks so the host environment cannot leak in.
func clearSecretEnv(t *testing.T) {
	for _, name := range []string{"GEMINI_API_KEY", "JOBSTORE_TOKEN", "DATABASE_URL", "REDIS_URL", "JOBPARSER_SERVER_APIKEYS"} {
		t.Setenv(name, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearSecretEnv(t)

	cfg, err := loadConfig(viper.New(), []string{t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "json", cfg.App.DefaultFormat)
	assert.Contains(t, cfg.App.SupportedFormats, "xlsx")
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "disabled", cfg.Server.TLS.Mode)
	assert.False(t, cfg.AI.Enabled)
	assert.False(t, cfg.JobStore.Enabled)
	assert.Equal(t, "@every 5m", cfg.Inbox.Schedule)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 0.6, cfg.AI.CircuitBreaker.FailureThreshold)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	clearSecretEnv(t)
	dir := t.TempDir()
	yaml := `app:
  logLevel: debug
  defaultCompany: Initech
jobStore:
  enabled: true
  baseURL: http://jobs.test
patterns:
  overlayFile: /etc/jobparser/overlay.yaml
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("JOBPARSER_SERVER_PORT", "9999")
	t.Setenv("JOBSTORE_TOKEN", "store-token")
	t.Setenv("JOBPARSER_SERVER_APIKEYS", "a, b")

	cfg, err := loadConfig(viper.New(), []string{dir})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "Initech", cfg.App.DefaultCompany)
	assert.True(t, cfg.JobStore.Enabled)
	assert.Equal(t, "http://jobs.test", cfg.JobStore.BaseURL)
	assert.Equal(t, "store-token", cfg.JobStore.Token)
	assert.Equal(t, "/etc/jobparser/overlay.yaml", cfg.Patterns.OverlayFile)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, []string{"a", "b"}, cfg.Server.APIKeys)
}

func TestLoadConfigRejectsAIWithoutKey(t *testing.T) {
	clearSecretEnv(t)
	t.Setenv("JOBPARSER_AI_ENABLED", "true")
	t.Setenv("JOBPARSER_AI_APIKEY", "")

	_, err := loadConfig(viper.New(), []string{t.TempDir()})
	assert.ErrorContains(t, err, "AI API key is required")
}

func TestLoadConfigMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("app: [unclosed"), 0o600))

	_, err := loadConfig(viper.New(), []string{dir})
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{DefaultFormat: "json", SupportedFormats: []string{"json", "text"}},
			Server: ServerConfig{Port: "8080", MaxBodySize: 1024, TLS: TLSConfig{Mode: "disabled"}},
		}
	}

	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, errorMsg: "server port is required"},
		{name: "zero body size", mutate: func(c *Config) { c.Server.MaxBodySize = 0 }, errorMsg: "maxBodySize"},
		{name: "unknown format", mutate: func(c *Config) { c.App.DefaultFormat = "yaml" }, errorMsg: "invalid default format"},
		{
			name:     "job store without url",
			mutate:   func(c *Config) { c.JobStore = JobStoreConfig{Enabled: true, Timeout: time.Second} },
			errorMsg: "baseURL is required",
		},
		{
			name: "breaker threshold out of range",
			mutate: func(c *Config) {
				c.JobStore = JobStoreConfig{
					Enabled: true, BaseURL: "http://x", Timeout: time.Second,
					CircuitBreaker: CircuitBreakerConfig{Enabled: true, FailureThreshold: 1.5},
				}
			},
			errorMsg: "failureThreshold",
		},
		{name: "cache without redis", mutate: func(c *Config) { c.Cache.Enabled = true }, errorMsg: "redisURL is required"},
		{name: "database without url", mutate: func(c *Config) { c.Database.Enabled = true }, errorMsg: "database url is required"},
		{name: "bad tls", mutate: func(c *Config) { c.Server.TLS.Mode = "server" }, errorMsg: "TLS configuration error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errorMsg)
		})
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "abcd****wxyz", maskSecret("abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "", maskSecret(""))
}
