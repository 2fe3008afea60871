// Package runner wraps a single fetch-and-extract task with bounded retry,
// backoff, and mandatory inter-request pacing.
package runner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/scrapework/harvester/internal/crawl"
	"github.com/scrapework/harvester/internal/metrics"
)

// Runner drives one task through its state machine:
// pending -> in-flight -> {succeeded, retry-scheduled, failed}.
// A task never leaves succeeded or failed once reached.
type Runner struct {
	fetcher crawl.Fetcher
	policy  *RetryPolicy
	pace    time.Duration
	pauser  crawl.Pauser
	logger  *zap.Logger
}

// New constructs a Runner. The pace delay applies after every completed
// attempt, success or failure, before the worker slot is freed.
func New(
	fetcher crawl.Fetcher,
	policy *RetryPolicy,
	pace time.Duration,
	pauser crawl.Pauser,
	logger *zap.Logger,
) *Runner {
	if policy == nil {
		policy = NewRetryPolicy()
	}
	return &Runner{
		fetcher: fetcher,
		policy:  policy,
		pace:    pace,
		pauser:  pauser,
		logger:  logger,
	}
}

// Run resolves the task to a terminal outcome. It blocks only the calling
// worker during network calls and imposed delays.
func (r *Runner) Run(ctx context.Context, task crawl.Task, extractor crawl.Extractor) crawl.TaskOutcome {
	for {
		task.Attempt++

		extraction, err := r.attempt(ctx, task, extractor)

		// Mandatory pacing throttles the per-worker request rate
		// regardless of outcome and independently of retry backoff.
		r.pauser.Pause(ctx, r.pace)

		if err == nil {
			r.logger.Debug("task succeeded",
				zap.String("stage", task.Stage),
				zap.String("target", task.Target),
				zap.Int("attempts", task.Attempt),
			)
			return crawl.TaskOutcome{
				Task:       task,
				State:      crawl.StateSucceeded,
				Attempts:   task.Attempt,
				Extraction: extraction,
			}
		}

		if !r.policy.ShouldRetry(err, task.Attempt) {
			r.logger.Warn("task failed permanently",
				zap.String("stage", task.Stage),
				zap.String("target", task.Target),
				zap.Int("attempts", task.Attempt),
				zap.Error(err),
			)
			return crawl.TaskOutcome{
				Task:     task,
				State:    crawl.StateFailed,
				Attempts: task.Attempt,
				Err:      err,
			}
		}

		metrics.RetriesTotal.Inc()
		backoff := r.policy.Backoff(task.Attempt)
		r.logger.Debug("task retry scheduled",
			zap.String("stage", task.Stage),
			zap.String("target", task.Target),
			zap.Int("attempt", task.Attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		r.pauser.Pause(ctx, backoff)
	}
}

func (r *Runner) attempt(ctx context.Context, task crawl.Task, extractor crawl.Extractor) (crawl.Extraction, error) {
	page, err := r.fetcher.Fetch(ctx, task.Target)
	if err != nil {
		return crawl.Extraction{}, err
	}
	return extractor.Extract(page)
}
