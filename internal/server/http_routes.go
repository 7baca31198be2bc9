package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// Handler returns the routed handler with every middleware applied
func (s *Server) Handler() http.Handler {
	return s.requestIDMiddleware(s.Observability.HTTPMiddleware()(s.setupRoutes()))
}

// route is one API endpoint. Protected routes go through rate limiting,
// authentication and the body size limit.
type route struct {
	pattern   string
	protected bool
	summary   string
	handler   func(*Server) http.HandlerFunc
}

var routes = []route{
	{"GET /health", false, "Service and dependency health", func(s *Server) http.HandlerFunc { return s.healthHandler }},
	{"GET /stats", false, "Parse and publish counters", func(s *Server) http.HandlerFunc { return s.statsHandler }},
	{"POST /parse", true, "Extract fields from a job description", func(s *Server) http.HandlerFunc { return s.parseHandler }},
	{"POST /jobs", true, "Build, validate and publish a job posting", func(s *Server) http.HandlerFunc { return s.publishHandler }},
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	for _, rt := range routes {
		h := rt.handler(s)
		if rt.protected {
			h = s.rateLimitMiddleware(s.authMiddleware(s.requestSizeLimitMiddleware(h)))
		}
		mux.HandleFunc(rt.pattern, h)
	}
	return mux
}

// requestIDMiddleware keeps a caller-supplied X-Request-ID or assigns one
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := requestAPIKey(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r),
				"request_id", requestIDFrom(r.Context()))
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r),
				"api_key_prefix", maskAPIKey(apiKey),
				"request_id", requestIDFrom(r.Context()))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

// requestAPIKey reads X-API-Key, falling back to a Bearer token
func requestAPIKey(r *http.Request) string {
	if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		return apiKey
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	if s.MaxRequestSize <= 0 {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
		next(w, r)
	}
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
