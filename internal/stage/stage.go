// Package stage fans one stage's task inputs out over a bounded worker pool
// and aggregates the results.
package stage

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scrapework/harvester/internal/crawl"
	"github.com/scrapework/harvester/internal/metrics"
	"github.com/scrapework/harvester/internal/runner"
)

// Orchestrator dispatches each input as a task to the runner, with no more
// than Width tasks concurrently in flight. A single task's failure never
// aborts the stage.
type Orchestrator struct {
	runner    *runner.Runner
	width     int
	observers []crawl.Observer
	logger    *zap.Logger
}

// New constructs an Orchestrator. Observers are notified of every terminal
// task outcome as it is collected.
func New(r *runner.Runner, width int, logger *zap.Logger, observers ...crawl.Observer) *Orchestrator {
	if width <= 0 {
		width = 4
	}
	return &Orchestrator{
		runner:    r,
		width:     width,
		observers: observers,
		logger:    logger,
	}
}

// Run processes every target through the stage's extractor and returns the
// aggregated StageResult. Results are collected in completion order, not
// submission order; worker slots are reused as soon as a task resolves.
func (o *Orchestrator) Run(
	ctx context.Context,
	name string,
	targets []string,
	extractor crawl.Extractor,
) crawl.StageResult {
	o.logger.Info("stage started",
		zap.String("stage", name),
		zap.Int("tasks", len(targets)),
		zap.Int("width", o.width),
	)

	result := crawl.StageResult{
		Stage:     name,
		Submitted: len(targets),
	}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(o.width)
	for _, target := range targets {
		g.Go(func() error {
			outcome := o.runner.Run(ctx, crawl.Task{Stage: name, Target: target}, extractor)

			mu.Lock()
			if outcome.State == crawl.StateSucceeded {
				result.Records = append(result.Records, outcome.Extraction.Records...)
				result.Links = append(result.Links, outcome.Extraction.Links...)
			} else {
				result.Failed = append(result.Failed, crawl.TaskFailure{
					Target:   outcome.Task.Target,
					Attempts: outcome.Attempts,
					Err:      outcome.Err,
				})
			}
			mu.Unlock()

			o.observe(outcome)
			return nil
		})
	}
	// Workers never surface errors; failures live in the StageResult.
	_ = g.Wait()

	o.logger.Info("stage finished",
		zap.String("stage", name),
		zap.Int("succeeded", result.Succeeded()),
		zap.Int("failed", len(result.Failed)),
		zap.Int("records", len(result.Records)),
		zap.Int("links", len(result.Links)),
	)
	return result
}

func (o *Orchestrator) observe(outcome crawl.TaskOutcome) {
	switch outcome.State {
	case crawl.StateSucceeded:
		metrics.TasksSucceededTotal.WithLabelValues(outcome.Task.Stage).Inc()
		metrics.RecordsTotal.WithLabelValues(outcome.Task.Stage).
			Add(float64(len(outcome.Extraction.Records)))
	case crawl.StateFailed:
		metrics.TasksFailedTotal.WithLabelValues(outcome.Task.Stage).Inc()
	}
	for _, obs := range o.observers {
		obs.TaskResolved(outcome)
	}
}
