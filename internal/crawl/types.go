// Package crawl defines core types shared across subsystems.
package crawl

import "errors"

// ErrMalformedPage signals that a page's primary container could not be
// located. The runner retries it once; repeated structure mismatches are
// terminal for the task.
var ErrMalformedPage = errors.New("malformed page")

// Task is one unit of fetch-and-extract work tied to a single target URL.
// Retries reuse the same Task with an incremented attempt count.
type Task struct {
	Stage   string
	Target  string
	Attempt int
}

// TaskState is the lifecycle state of a Task inside the runner.
type TaskState string

// Task states. A task never transitions out of Succeeded or Failed.
const (
	StatePending        TaskState = "pending"
	StateInFlight       TaskState = "in-flight"
	StateRetryScheduled TaskState = "retry-scheduled"
	StateSucceeded      TaskState = "succeeded"
	StateFailed         TaskState = "failed"
)

// Page is the raw content of a successful fetch.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Body       []byte
}

// Record is one structured output row with a fixed field set.
type Record interface {
	Row() []string
}

// Extraction is the output of an Extractor: zero or more records and zero or
// more links feeding the next stage.
type Extraction struct {
	Records []Record
	Links   []string
}

// TaskOutcome is the terminal result of one task after its retry mechanics
// have run their course.
type TaskOutcome struct {
	Task       Task
	State      TaskState
	Attempts   int
	Extraction Extraction
	Err        error
}

// TaskFailure identifies a permanently failed task within a StageResult.
type TaskFailure struct {
	Target   string
	Attempts int
	Err      error
}

// StageResult aggregates one stage's run. Every task submitted to the stage
// lands in exactly one of records/links (succeeded) or Failed.
type StageResult struct {
	Stage     string
	Submitted int
	Records   []Record
	Links     []string
	Failed    []TaskFailure
}

// Succeeded returns the number of tasks that resolved successfully.
func (r StageResult) Succeeded() int {
	return r.Submitted - len(r.Failed)
}
