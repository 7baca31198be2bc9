// Package jobstore publishes finalized postings to wherever jobs are kept:
// the job-storage HTTP service, a Postgres table, or both.
package jobstore

import (
	"context"
	"fmt"
	"time"

	"jobparser/internal/types"
)

// Publisher persists one posting.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, p types.Posting) (types.PublishResult, error)
}

// Observer is told about every publisher call
type Observer func(publisher string, err error, elapsed time.Duration)

// MultiPublisher fans a posting out to every publisher in order.
type MultiPublisher struct {
	publishers []Publisher
	observe    Observer
}

// NewMultiPublisher skips nil publishers so callers can pass optional ones directly.
func NewMultiPublisher(publishers ...Publisher) *MultiPublisher {
	m := &MultiPublisher{}
	for _, p := range publishers {
		if p != nil {
			m.publishers = append(m.publishers, p)
		}
	}
	return m
}

// WithObserver sets the callback run after each publisher call
func (m *MultiPublisher) WithObserver(observe Observer) *MultiPublisher {
	m.observe = observe
	return m
}

// Len returns the number of configured publishers
func (m *MultiPublisher) Len() int {
	return len(m.publishers)
}

// PublishAll stops at the first failing publisher. Results of the publishers
// that already succeeded are returned alongside the error.
func (m *MultiPublisher) PublishAll(ctx context.Context, p types.Posting) ([]types.PublishResult, error) {
	results := make([]types.PublishResult, 0, len(m.publishers))
	for _, pub := range m.publishers {
		start := time.Now()
		result, err := pub.Publish(ctx, p)
		if m.observe != nil {
			m.observe(pub.Name(), err, time.Since(start))
		}
		if err != nil {
			return results, fmt.Errorf("%s: %w", pub.Name(), err)
		}
		results = append(results, result)
	}
	return results, nil
}
