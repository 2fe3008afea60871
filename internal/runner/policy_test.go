package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scrapework/harvester/internal/crawl"
	"github.com/scrapework/harvester/internal/fetch"
)

func httpErr(status int) error {
	return fetch.Classify("https://example.org/x", status, errors.New("bad status"))
}

func TestShouldRetryFetchFailureClasses(t *testing.T) {
	p := NewRetryPolicy()

	require.True(t, p.ShouldRetry(httpErr(503), 1))
	require.True(t, p.ShouldRetry(httpErr(429), 1))
	require.False(t, p.ShouldRetry(httpErr(404), 1), "client errors other than 429 are terminal")
	require.False(t, p.ShouldRetry(httpErr(403), 1))

	netErr := fetch.Classify("https://example.org/x", 0, errors.New("connection refused"))
	require.True(t, p.ShouldRetry(netErr, 1))
}

func TestShouldRetryStopsAtCeiling(t *testing.T) {
	p := NewRetryPolicy()
	require.True(t, p.ShouldRetry(httpErr(503), p.MaxAttempts-1))
	require.False(t, p.ShouldRetry(httpErr(503), p.MaxAttempts))
	require.False(t, p.ShouldRetry(nil, 1))
}

func TestShouldRetryMalformedPageOnlyOnce(t *testing.T) {
	p := NewRetryPolicy()
	err := crawl.ErrMalformedPage
	require.True(t, p.ShouldRetry(err, 1))
	require.False(t, p.ShouldRetry(err, 2), "structurally bad pages get exactly one retry")
}

func TestShouldRetryHonorsContextErrors(t *testing.T) {
	p := NewRetryPolicy()
	require.False(t, p.ShouldRetry(context.Canceled, 1))
	require.False(t, p.ShouldRetry(context.DeadlineExceeded, 1))
}

func TestBackoffIsGeometricAndCapped(t *testing.T) {
	p := &RetryPolicy{
		MaxAttempts:       5,
		BackoffBase:       time.Second,
		BackoffMultiplier: 1.5,
		BackoffMax:        2 * time.Second,
	}
	require.Equal(t, time.Second, p.Backoff(1))
	require.Equal(t, 1500*time.Millisecond, p.Backoff(2))
	require.Equal(t, 2*time.Second, p.Backoff(3), "ramp is capped")
	require.Equal(t, time.Second, p.Backoff(0), "attempt floor is 1")
}
