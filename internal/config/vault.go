package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"

	"jobparser/internal/errors"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Address   string        `mapstructure:"address"`
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"tokenFile"`
	Namespace string        `mapstructure:"namespace"`
	Mount     string        `mapstructure:"mount"` // KV v2 mount, "secret" by default
	Timeout   time.Duration `mapstructure:"timeout"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets holds secret paths relative to the KV v2 mount. An empty path
// leaves the matching setting alone.
type VaultSecrets struct {
	APIKeys   string `mapstructure:"apiKeys"`   // "keys": comma separated string or list
	GeminiKey string `mapstructure:"geminiKey"` // "api_key"
	JobStore  string `mapstructure:"jobStore"`  // "token"
	Database  string `mapstructure:"database"`  // "url"
	TLSCerts  string `mapstructure:"tlsCerts"`  // "cert" and "key" PEM content
}

// secretStore reads the data map of a KV v2 secret
type secretStore interface {
	Read(ctx context.Context, path string) (map[string]any, error)
}

type kvStore struct {
	kv     *api.KVv2
	logger *errors.Logger
}

func (s *kvStore) Read(ctx context.Context, path string) (map[string]any, error) {
	secret, err := s.kv.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if s.logger != nil && secret.VersionMetadata != nil {
		s.logger.Debug("Read secret from Vault", "path", path, "version", secret.VersionMetadata.Version)
	}
	return secret.Data, nil
}

// secretBinding copies one key of one secret into the configuration
type secretBinding struct {
	name     string
	path     string
	key      string
	optional bool // a missing key is skipped instead of failing
	apply    func(cfg *Config, value any) (bool, error)
}

func stringTarget(target *string) func(*Config, any) (bool, error) {
	return func(_ *Config, value any) (bool, error) {
		s, ok := value.(string)
		if !ok {
			return false, fmt.Errorf("expected a string, got %T", value)
		}
		if s == "" {
			return false, nil
		}
		*target = s
		return true, nil
	}
}

func apiKeysTarget(cfg *Config, value any) (bool, error) {
	var keys []string
	switch v := value.(type) {
	case string:
		keys = splitList(v)
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return false, fmt.Errorf("expected a list of strings, found %T", item)
			}
			keys = append(keys, s)
		}
		keys = splitList(strings.Join(keys, ","))
	default:
		return false, fmt.Errorf("expected a string or list, got %T", value)
	}
	if len(keys) == 0 {
		return false, nil
	}
	cfg.Server.APIKeys = keys
	return true, nil
}

func (c *Config) vaultBindings() []secretBinding {
	s := c.Vault.Secrets
	return []secretBinding{
		{name: "API keys", path: s.APIKeys, key: "keys", apply: apiKeysTarget},
		{name: "Gemini API key", path: s.GeminiKey, key: "api_key", apply: stringTarget(&c.AI.APIKey)},
		{name: "job store token", path: s.JobStore, key: "token", apply: stringTarget(&c.JobStore.Token)},
		{name: "database URL", path: s.Database, key: "url", apply: stringTarget(&c.Database.URL)},
		{name: "TLS certificate", path: s.TLSCerts, key: "cert", optional: true, apply: stringTarget(&c.Server.TLS.CertContent)},
		{name: "TLS private key", path: s.TLSCerts, key: "key", optional: true, apply: stringTarget(&c.Server.TLS.KeyContent)},
	}
}

// ApplyVaultSecrets overwrites configuration values with secrets from Vault.
// Vault wins over files and the environment, but an empty secret never
// clears a value that is already set.
func ApplyVaultSecrets(ctx context.Context, config *Config, logger *errors.Logger) error {
	if !config.Vault.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled, skipping secret loading")
		}
		return nil
	}

	timeout := config.Vault.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	store, err := openVault(ctx, config.Vault, logger)
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to initialize vault client", err)
	}
	return applySecrets(ctx, store, config, logger)
}

// applySecrets reads each configured secret once and applies its bindings
func applySecrets(ctx context.Context, store secretStore, config *Config, logger *errors.Logger) error {
	cache := map[string]map[string]any{}
	loaded := 0

	for _, b := range config.vaultBindings() {
		if b.path == "" {
			continue
		}

		data, ok := cache[b.path]
		if !ok {
			var err error
			if data, err = store.Read(ctx, b.path); err != nil {
				if logger != nil {
					logger.LogError(err, "Failed to read secret from Vault", "secret", b.name, "path", b.path)
				}
				return fmt.Errorf("failed to load %s from vault: %w", b.name, err)
			}
			cache[b.path] = data
		}

		value, ok := data[b.key]
		if !ok {
			if b.optional {
				continue
			}
			return fmt.Errorf("failed to load %s from vault: key %q not found in %s", b.name, b.key, b.path)
		}

		applied, err := b.apply(config, value)
		if err != nil {
			return fmt.Errorf("invalid %s in vault secret %s: %w", b.name, b.path, err)
		}
		if !applied {
			if logger != nil {
				logger.Warn("Empty secret found in Vault, keeping current value", "secret", b.name, "path", b.path)
			}
			continue
		}
		loaded++
		if logger != nil {
			logger.Debug("Secret loaded from Vault", "secret", b.name)
		}
	}

	if logger != nil {
		logger.Info("Applied secrets from Vault", "loaded", loaded)
	}
	return nil
}

// openVault connects, authenticates and checks that Vault is unsealed
func openVault(ctx context.Context, cfg VaultConfig, logger *errors.Logger) (*kvStore, error) {
	apiCfg := api.DefaultConfig()
	if cfg.Address != "" {
		apiCfg.Address = cfg.Address
	}
	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	token, err := resolveVaultToken(cfg, logger)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().HealthWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vault at %s: %w", apiCfg.Address, err)
	}
	if health.Sealed {
		return nil, fmt.Errorf("vault at %s is sealed", apiCfg.Address)
	}
	if logger != nil {
		logger.Info("Connected to Vault", "address", apiCfg.Address, "version", health.Version, "token", maskSecret(token))
	}

	mount := cfg.Mount
	if mount == "" {
		mount = "secret"
	}
	return &kvStore{kv: client.KVv2(mount), logger: logger}, nil
}

// resolveVaultToken returns the configured token, or the content of the token file
func resolveVaultToken(cfg VaultConfig, logger *errors.Logger) (string, error) {
	token := cfg.Token
	if token == "" && cfg.TokenFile != "" {
		raw, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			if logger != nil {
				logger.LogError(err, "Failed to read Vault token file", "file", cfg.TokenFile)
			}
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	}
	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}
