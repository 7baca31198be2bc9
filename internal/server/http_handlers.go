package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"jobparser/internal/errors"
)

// healthHandler reports the service and each configured dependency. Any
// unhealthy dependency turns the answer into a 503.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.healthCheckTimeout())
	defer cancel()

	response := map[string]any{
		"status":  "healthy",
		"service": "jobparser",
		"version": s.Version,
	}
	if s.Service != nil {
		response["library_version"] = s.Service.Stats().LibraryVersion
	}

	healthy := true
	checks := make(map[string]any, len(s.HealthChecks))
	for name, check := range s.HealthChecks {
		status, ok := check(ctx)
		if status == nil {
			continue
		}
		checks[name] = status
		healthy = healthy && ok
	}
	if len(checks) > 0 {
		response["dependencies"] = checks
	}
	if s.Watcher != nil {
		response["pattern_watcher"] = s.Watcher.Status()
	}

	statusCode := http.StatusOK
	if !healthy {
		response["status"] = "degraded"
		statusCode = http.StatusServiceUnavailable
	}
	s.writeJSON(w, statusCode, response)
}

func (s *Server) healthCheckTimeout() time.Duration {
	if s.HealthTimeout > 0 {
		return s.HealthTimeout
	}
	return 5 * time.Second
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "jobparser",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"auth_enabled":           len(s.APIKeys) > 0,
		},
	}
	if s.Service != nil {
		response["jobs"] = s.Service.Stats()
	}
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	s.writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "content-type must be application/json", nil)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), err)
		}
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "failed to read request body", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "failed to parse JSON", err)
	}
	return nil
}

// statusFor maps an error's type onto an HTTP status
func statusFor(err error) int {
	switch errors.TypeOf(err) {
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeParse:
		return http.StatusUnprocessableEntity
	case errors.ErrorTypeNetwork, errors.ErrorTypeStorage, errors.ErrorTypeAI:
		return http.StatusBadGateway
	case errors.ErrorTypeConfig:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the mapped status. Internal failures are logged
// and their details withheld from the caller.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, title string, err error) {
	status := statusFor(err)

	code := ""
	message := err.Error()
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message
		if appErr.Cause != nil && status == http.StatusBadRequest {
			message += ": " + appErr.Cause.Error()
		}
	}

	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, title,
			"endpoint", r.URL.Path,
			"request_id", requestIDFrom(r.Context()))
		if status == http.StatusInternalServerError {
			message = "internal error"
		}
	}
	writeErrorResponse(w, title, message, code, status)
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.LogError(err, "Failed to encode response")
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, title, message, code string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   title,
		Message: message,
		Code:    code,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
