package common

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"jobparser/internal/errors"
)

// RetryPolicy controls Retry. Zero delays fall back to one second base and a 30 second cap.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Retryable  func(error) bool // nil retries every error
}

// Backoff returns the delay before retry attempt (1-based): base * 2^(attempt-1)
// plus up to 10% jitter, capped at maxDelay.
func Backoff(attempt int, base, maxDelay time.Duration) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}
	if attempt < 1 {
		attempt = 1
	}

	delay := base
	for i := 1; i < attempt && delay < maxDelay; i++ {
		delay *= 2
	}

	if jitterMax := int64(float64(delay) * 0.1); jitterMax > 0 {
		if jitterBig, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			delay += time.Duration(jitterBig.Int64())
		}
	}
	return min(delay, maxDelay)
}

// Retry executes fn until it succeeds, returns a non-retryable error, or the retries run out
func Retry[T any](ctx context.Context, logger *errors.Logger, operation string, policy RetryPolicy, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if logger != nil {
				logger.Warn("Retrying operation",
					"operation", operation,
					"attempt", attempt,
					"max_retries", policy.MaxRetries,
					"error", lastErr.Error())
			}

			select {
			case <-time.After(Backoff(attempt, policy.BaseDelay, policy.MaxDelay)):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 && logger != nil {
				logger.Info("Operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if policy.Retryable != nil && !policy.Retryable(err) {
			if logger != nil {
				logger.Debug("Error is not retryable, stopping retry attempts",
					"operation", operation,
					"error", err.Error())
			}
			return zero, err
		}
	}

	if logger != nil {
		logger.LogError(lastErr, "Operation failed after all retry attempts",
			"operation", operation,
			"total_attempts", policy.MaxRetries+1)
	}
	return zero, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, policy.MaxRetries, lastErr)
}
