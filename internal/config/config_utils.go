package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyServerAPIKeyFallbacks()
	c.applySecretFallbacks()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

// applyServerAPIKeyFallbacks applies API key fallbacks from environment variables
func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("JOBPARSER_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = splitList(apiKeysEnv)
		}
	}
	// Keys decoded from a comma-separated env value keep their spaces
	c.Server.APIKeys = splitList(strings.Join(c.Server.APIKeys, ","))
}

// applySecretFallbacks fills secrets from the unprefixed variables other tools already set
func (c *Config) applySecretFallbacks() {
	fallback := func(target *string, envVar string) {
		if *target == "" {
			*target = os.Getenv(envVar)
		}
	}
	fallback(&c.AI.APIKey, "GEMINI_API_KEY")
	fallback(&c.JobStore.Token, "JOBSTORE_TOKEN")
	fallback(&c.Database.URL, "DATABASE_URL")
	fallback(&c.Cache.RedisURL, "REDIS_URL")
}

// applyTLSDefaults applies default TLS configuration values
func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// maskSecret keeps the first and last four characters of long secrets
func maskSecret(value string) string {
	switch {
	case len(value) > 8:
		return value[:4] + "****" + value[len(value)-4:]
	case value != "":
		return "****"
	default:
		return ""
	}
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"JOBPARSER_AI_ENABLED",
		"JOBPARSER_AI_APIKEY",
		"JOBPARSER_AI_MODEL",
		"JOBPARSER_SERVER_PORT",
		"JOBPARSER_SERVER_HOST",
		"JOBPARSER_APP_LOGLEVEL",
		"JOBPARSER_PATTERNS_OVERLAYFILE",
		"JOBPARSER_JOBSTORE_BASEURL",
		"JOBPARSER_VAULT_ENABLED",
		"GEMINI_API_KEY",
		"JOBSTORE_TOKEN",
		"DATABASE_URL",
		"REDIS_URL",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if isSensitiveEnv(envVar) {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] Server: %s:%s (TLS %s)", c.Server.Host, c.Server.Port, c.Server.TLS.Mode)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	if c.Patterns.OverlayFile != "" {
		log.Printf("[CONFIG] Pattern overlay: %s (watch %t)", c.Patterns.OverlayFile, c.Patterns.Watch)
	} else {
		log.Println("[CONFIG] Pattern overlay: None (built-in library)")
	}
	log.Printf("[CONFIG] AI Assist Enabled: %t (provider %s, model %s)", c.AI.Enabled, c.AI.Provider, c.AI.Model)
	if c.AI.APIKey != "" {
		log.Println("[CONFIG] AI API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] AI API Key: ***NOT SET***")
	}
	log.Printf("[CONFIG] Job Store Enabled: %t (%s)", c.JobStore.Enabled, c.JobStore.BaseURL)
	log.Printf("[CONFIG] Database Enabled: %t", c.Database.Enabled)
	log.Printf("[CONFIG] Cache Enabled: %t", c.Cache.Enabled)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)
	log.Println("[CONFIG] =====================================")
}

func isSensitiveEnv(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range []string{"key", "token", "url"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
