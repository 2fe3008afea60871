package runner

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/scrapework/harvester/internal/crawl"
	"github.com/scrapework/harvester/internal/fetch"
)

// RetryPolicy decides whether a failed attempt is retried and how long to
// back off first. Backoff is geometric with a configurable multiplier; the
// curve is deliberately not fixed because different targets tolerate
// different ramps.
type RetryPolicy struct {
	MaxAttempts       int
	BackoffBase       time.Duration
	BackoffMultiplier float64
	BackoffMax        time.Duration
}

// NewRetryPolicy builds a policy with sane defaults.
func NewRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:       3,
		BackoffBase:       2 * time.Second,
		BackoffMultiplier: 1.5,
		BackoffMax:        30 * time.Second,
	}
}

// ShouldRetry reports whether another attempt is warranted after attempt
// completed attempts ended in err. A malformed page is retried exactly once;
// structurally bad pages do not get a third look.
func (p *RetryPolicy) ShouldRetry(err error, attempt int) bool {
	if err == nil {
		return false
	}
	if attempt >= p.MaxAttempts {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, crawl.ErrMalformedPage) {
		return attempt < 2
	}
	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) {
		return fetchErr.Retryable()
	}
	return true
}

// Backoff returns the wait duration before retrying after attempt completed
// attempts.
func (p *RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	multiplier := p.BackoffMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	delay := float64(p.BackoffBase) * math.Pow(multiplier, float64(attempt-1))
	if p.BackoffMax > 0 && delay > float64(p.BackoffMax) {
		delay = float64(p.BackoffMax)
	}
	return time.Duration(delay)
}
