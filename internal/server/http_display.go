package server

import (
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"text/tabwriter"

	"jobparser/internal/config"
)

// displayServerInfo prints a startup summary for the operator
func (s *Server) displayServerInfo() {
	s.writeServerInfo(os.Stdout)
}

func (s *Server) writeServerInfo(out io.Writer) {
	scheme := "http"
	if s.TLSConfig.Mode == config.TLSModeServer {
		scheme = "https"
	}
	fmt.Fprintf(out, "jobparser %s listening on %s://%s\n\n", s.Version, scheme, net.JoinHostPort(s.Host, s.Port))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, rt := range routes {
		access := "public"
		if rt.protected && len(s.APIKeys) > 0 {
			access = "api key"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", rt.pattern, access, rt.summary)
	}
	_ = tw.Flush()
	fmt.Fprintln(out)

	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  authentication\t%s\n", s.authSummary())
	fmt.Fprintf(tw, "  body limit\t%s\n", s.bodyLimitSummary())
	fmt.Fprintf(tw, "  rate limit\t%s\n", s.rateLimitSummary())
	if s.Watcher != nil {
		fmt.Fprintf(tw, "  pattern overlay\twatching %s\n", s.Watcher.file)
	}
	_ = tw.Flush()

	if len(s.APIKeys) == 0 {
		fmt.Fprintln(out, "\nWARNING: no API keys configured, /parse and /jobs are open to anyone")
	}
}

func (s *Server) authSummary() string {
	if len(s.APIKeys) == 0 {
		return "disabled"
	}
	return fmt.Sprintf("%d keys (X-API-Key or Authorization: Bearer)", len(s.APIKeys))
}

func (s *Server) bodyLimitSummary() string {
	if s.MaxRequestSize <= 0 {
		return "disabled"
	}
	return fmt.Sprintf("%d bytes", s.MaxRequestSize)
}

func (s *Server) rateLimitSummary() string {
	if s.RateLimiter == nil {
		return "disabled"
	}
	var keys []string
	if s.RateLimit.ByAPIKey {
		keys = append(keys, "api key")
	}
	if s.RateLimit.ByIP {
		keys = append(keys, "client ip")
	}
	if len(keys) == 0 {
		return "enabled but no key source set, requests are not limited"
	}
	return fmt.Sprintf("%d/min, burst %d, keyed by %s", s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity, strings.Join(keys, " then "))
}
