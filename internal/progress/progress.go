// Package progress tracks live per-stage counters for a run.
package progress

import (
	"sync"

	"github.com/scrapework/harvester/internal/crawl"
)

// Tracker accumulates per-stage completion counters. It implements
// crawl.Observer and is safe for concurrent use by the stage workers.
type Tracker struct {
	mu     sync.Mutex
	order  []string
	stages map[string]*stageCounters
}

type stageCounters struct {
	Total     int
	Succeeded int
	Failed    int
	Retries   int
	Records   int
}

// StageSnapshot is a point-in-time view of one stage's counters.
type StageSnapshot struct {
	Stage     string `json:"stage"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Retries   int    `json:"retries"`
	Records   int    `json:"records"`
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{stages: make(map[string]*stageCounters)}
}

// StageStarted registers a stage and its task count before dispatch begins.
func (t *Tracker) StageStarted(stage string, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counters(stage).Total = total
}

// TaskResolved implements crawl.Observer.
func (t *Tracker) TaskResolved(outcome crawl.TaskOutcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.counters(outcome.Task.Stage)
	if outcome.Attempts > 1 {
		c.Retries += outcome.Attempts - 1
	}
	switch outcome.State {
	case crawl.StateSucceeded:
		c.Succeeded++
		c.Records += len(outcome.Extraction.Records)
	case crawl.StateFailed:
		c.Failed++
	}
}

// Snapshot returns the current counters in stage start order.
func (t *Tracker) Snapshot() []StageSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]StageSnapshot, 0, len(t.order))
	for _, stage := range t.order {
		c := t.stages[stage]
		out = append(out, StageSnapshot{
			Stage:     stage,
			Total:     c.Total,
			Succeeded: c.Succeeded,
			Failed:    c.Failed,
			Retries:   c.Retries,
			Records:   c.Records,
		})
	}
	return out
}

// counters returns (creating if needed) the stage's counter set.
// Callers hold t.mu. Stages appear in first-seen order; the coordinator
// registers each one via StageStarted before dispatching its tasks.
func (t *Tracker) counters(stage string) *stageCounters {
	c, ok := t.stages[stage]
	if !ok {
		c = &stageCounters{}
		t.stages[stage] = c
		t.order = append(t.order, stage)
	}
	return c
}
