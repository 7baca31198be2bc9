package jobstore

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"jobparser/internal/common"
	"jobparser/internal/config"
	"jobparser/internal/errors"
	"jobparser/internal/types"
)

const jobsPath = "/api/jobs"

// StatusError is a non-2xx answer from the job-storage service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("job store returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("job store returned status %d: %s", e.StatusCode, e.Body)
}

// HTTPPublisher posts jobs to the job-storage service.
type HTTPPublisher struct {
	client  *http.Client
	url     string
	token   string
	retry   common.RetryPolicy
	breaker *common.CircuitBreaker[types.PublishResult]
	logger  *errors.Logger
}

// NewHTTPPublisher builds a publisher from the jobStore section.
func NewHTTPPublisher(cfg config.JobStoreConfig, logger *errors.Logger) *HTTPPublisher {
	return &HTTPPublisher{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		url:   strings.TrimRight(cfg.BaseURL, "/") + jobsPath,
		token: cfg.Token,
		retry: common.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			Retryable:  isRetryableError,
		},
		breaker: common.NewCircuitBreaker[types.PublishResult]("jobstore", cfg.CircuitBreaker, logger),
		logger:  logger,
	}
}

func (h *HTTPPublisher) Name() string { return "jobstore" }

// Breaker exposes the circuit breaker for health reporting
func (h *HTTPPublisher) Breaker() *common.CircuitBreaker[types.PublishResult] { return h.breaker }

// Publish sends p as JSON. Transport failures, 429 and 5xx answers are retried.
func (h *HTTPPublisher) Publish(ctx context.Context, p types.Posting) (types.PublishResult, error) {
	tracer := otel.Tracer("jobparser.jobstore")
	ctx, span := tracer.Start(ctx, "jobstore.publish")
	defer span.End()
	span.SetAttributes(
		attribute.String("jobstore.url", h.url),
		attribute.String("job.code", p.JobCode),
	)

	body, err := json.Marshal(p)
	if err != nil {
		return types.PublishResult{}, errors.NewInternalError(errors.ErrCodePublishFailed, "failed to encode posting", err)
	}

	result, err := h.breaker.Execute(func() (types.PublishResult, error) {
		return common.Retry(ctx, h.logger, "jobstore.publish", h.retry, func() (types.PublishResult, error) {
			return h.send(ctx, body)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if common.IsOpen(err) {
			return types.PublishResult{}, errors.NewNetworkError(errors.ErrCodeCircuitBreakerOn, "job store circuit breaker is open", err)
		}
		return types.PublishResult{}, errors.NewNetworkError(errors.ErrCodePublishFailed, "failed to publish posting", err).
			WithContext("job_code", p.JobCode)
	}

	span.SetStatus(codes.Ok, "posting published")
	return result, nil
}

func (h *HTTPPublisher) send(ctx context.Context, body []byte) (types.PublishResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return types.PublishResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return types.PublishResult{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return types.PublishResult{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.PublishResult{}, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	return types.PublishResult{Publisher: h.Name(), ID: createdID(payload)}, nil
}

// createdID pulls the new job id out of the response; the service has used
// both "_id" and "id", sometimes nested under "job".
func createdID(payload []byte) string {
	var created struct {
		ID      string `json:"id"`
		MongoID string `json:"_id"`
		Job     *struct {
			ID      string `json:"id"`
			MongoID string `json:"_id"`
		} `json:"job"`
	}
	if err := json.Unmarshal(payload, &created); err != nil {
		return ""
	}
	switch {
	case created.ID != "":
		return created.ID
	case created.MongoID != "":
		return created.MongoID
	case created.Job != nil && created.Job.ID != "":
		return created.Job.ID
	case created.Job != nil:
		return created.Job.MongoID
	}
	return ""
}

func isRetryableError(err error) bool {
	var statusErr *StatusError
	if stderrors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var netErr net.Error
	return stderrors.As(err, &netErr)
}
