package cli

import (
	"fmt"

	"jobparser/internal/config"
	"jobparser/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP server that exposes the parser and publisher.

Available endpoints:
- POST /parse: Extract fields from {"text": "..."}
- POST /jobs: Build, validate and publish a posting from text or a record
- GET /health: Health of the service and its dependencies
- GET /stats: Parse and publish counters, rate limiting info

When patterns.overlayFile and patterns.watch are set, edits to the overlay
are picked up without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled or server (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
}

// applyServeFlags copies explicitly set flags over the loaded configuration
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	overrides := []struct {
		flag   string
		target *string
	}{
		{"port", &cfg.Server.Port},
		{"host", &cfg.Server.Host},
		{"tls-mode", &cfg.Server.TLS.Mode},
		{"cert-file", &cfg.Server.TLS.CertFile},
		{"key-file", &cfg.Server.TLS.KeyFile},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.target, _ = cmd.Flags().GetString(o.flag)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	applyServeFlags(cmd, cfg)
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	rt, err := newRuntime(cmd.Context(), cfg, logger, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	srv := server.NewServer(cfg.Server, rt.service, server.Options{
		Version:       Version,
		Observability: rt.observability,
		HealthChecks:  rt.healthChecks,
		Watcher:       rt.libraryWatcher(cfg),
	}, logger)
	return srv.Start(cmd.Context())
}
