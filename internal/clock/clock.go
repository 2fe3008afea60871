// Package clock provides real time and pause implementations.
package clock

import (
	"context"
	"time"
)

// System implements crawl.Clock using time.Now.
type System struct{}

// Now returns the current time in UTC.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// TimerPauser waits out delays with a context-aware timer.
type TimerPauser struct{}

// Pause blocks for delay or until the context finishes, whichever is first.
func (TimerPauser) Pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
