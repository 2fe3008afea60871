package crawl

import (
	"context"
	"time"
)

// Fetcher performs one HTTP GET and returns the page or a classified failure.
// Implementations never retry; retry is the runner's responsibility.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Extractor maps raw page content to records and/or next-stage links.
// Implementations must be total: absent fields degrade to placeholder values,
// and only a missing primary container yields ErrMalformedPage.
type Extractor interface {
	Extract(page Page) (Extraction, error)
}

// Identity supplies the client identity string sent with each request.
type Identity interface {
	UserAgent() string
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Pauser abstracts how a worker waits out pacing and backoff delays.
type Pauser interface {
	Pause(ctx context.Context, delay time.Duration)
}

// Observer is notified of every terminal task outcome as a stage collects it.
type Observer interface {
	TaskResolved(outcome TaskOutcome)
}
