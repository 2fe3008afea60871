// Package pipeline chains crawl stages so one stage's successful outputs
// become the next stage's task inputs, and owns the end-to-end run.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/scrapework/harvester/internal/crawl"
	"github.com/scrapework/harvester/internal/progress"
)

// ErrRootUnavailable is returned when a critical stage's root listing cannot
// be fetched at all, leaving the pipeline with nothing to expand.
var ErrRootUnavailable = errors.New("root listing unavailable")

// Orchestrator runs one stage's tasks on a bounded worker pool.
type Orchestrator interface {
	Run(ctx context.Context, name string, targets []string, extractor crawl.Extractor) crawl.StageResult
}

// Sink appends the terminal record set to durable storage.
type Sink interface {
	Write(ctx context.Context, filename string, header []string, records []crawl.Record) (string, error)
}

// Stage describes one phase of a pipeline.
type Stage struct {
	Name      string
	Extractor crawl.Extractor
	// Critical marks a stage whose total failure aborts the run; the
	// advisor directory root is the only such stage.
	Critical bool
	// ResolveLink transforms a stage's successful output links into the
	// next stage's task inputs, e.g. resolving site-relative paths.
	ResolveLink func(link string) string
}

// StageSummary reports one stage's terminal counts.
type StageSummary struct {
	Stage     string
	Submitted int
	Succeeded int
	Failed    int
}

// Summary is the user-visible result of a run: per-stage counts alongside
// the output file.
type Summary struct {
	Pipeline   string
	Stages     []StageSummary
	Records    int
	OutputPath string
}

// Pipeline drives an ordered list of stages to completion. Stages never
// interleave: each stage fully drains before the next one's inputs are
// finalized.
type Pipeline struct {
	name       string
	stages     []Stage
	seeds      []string
	header     []string
	outputFile string

	orch    Orchestrator
	sink    Sink
	tracker *progress.Tracker
	logger  *zap.Logger
}

// Params collects the collaborators a Pipeline needs.
type Params struct {
	Name         string
	Stages       []Stage
	Seeds        []string
	Header       []string
	OutputFile   string
	Orchestrator Orchestrator
	Sink         Sink
	Tracker      *progress.Tracker
	Logger       *zap.Logger
}

// New constructs a Pipeline.
func New(p Params) *Pipeline {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		name:       p.Name,
		stages:     p.Stages,
		seeds:      p.Seeds,
		header:     p.Header,
		outputFile: p.OutputFile,
		orch:       p.Orchestrator,
		sink:       p.Sink,
		tracker:    p.Tracker,
		logger:     logger,
	}
}

// Run executes every stage in order and hands the terminal records to the
// sink exactly once. A stage yielding zero inputs for its successor ends the
// run early with an empty (header-only) output file rather than an error.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary := Summary{Pipeline: p.name}
	inputs := p.seeds
	var records []crawl.Record

	for _, st := range p.stages {
		if len(inputs) == 0 {
			p.logger.Info("no inputs for stage; terminating early",
				zap.String("pipeline", p.name),
				zap.String("stage", st.Name),
			)
			break
		}

		if p.tracker != nil {
			p.tracker.StageStarted(st.Name, len(inputs))
		}
		result := p.orch.Run(ctx, st.Name, inputs, st.Extractor)
		summary.Stages = append(summary.Stages, StageSummary{
			Stage:     st.Name,
			Submitted: result.Submitted,
			Succeeded: result.Succeeded(),
			Failed:    len(result.Failed),
		})

		if st.Critical && result.Succeeded() == 0 && len(result.Failed) > 0 {
			return summary, fmt.Errorf("%w: stage %s: all %d tasks failed",
				ErrRootUnavailable, st.Name, result.Submitted)
		}

		records = append(records, result.Records...)
		inputs = resolveLinks(result.Links, st.ResolveLink)
	}

	path, err := p.sink.Write(ctx, p.outputFile, p.header, records)
	if err != nil {
		return summary, fmt.Errorf("write output: %w", err)
	}
	summary.Records = len(records)
	summary.OutputPath = path

	p.logSummary(summary)
	return summary, nil
}

func (p *Pipeline) logSummary(summary Summary) {
	fields := []zap.Field{
		zap.String("pipeline", summary.Pipeline),
		zap.Int("records", summary.Records),
		zap.String("output", summary.OutputPath),
	}
	for _, st := range summary.Stages {
		fields = append(fields, zap.String(st.Stage,
			fmt.Sprintf("%d/%d succeeded, %d failed", st.Succeeded, st.Submitted, st.Failed)))
	}
	p.logger.Info("pipeline finished", fields...)
}

func resolveLinks(links []string, resolve func(string) string) []string {
	if resolve == nil || len(links) == 0 {
		return links
	}
	out := make([]string, 0, len(links))
	for _, link := range links {
		out = append(out, resolve(link))
	}
	return out
}
