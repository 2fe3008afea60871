package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scrapework/harvester/internal/crawl"
	"github.com/scrapework/harvester/internal/progress"
)

type testRecord struct {
	name string
}

func (r testRecord) Row() []string { return []string{r.name} }

type stageCall struct {
	name    string
	targets []string
}

// scriptedOrchestrator returns a canned StageResult per stage name and
// remembers what it was asked to run.
type scriptedOrchestrator struct {
	results map[string]crawl.StageResult
	calls   []stageCall
}

func (o *scriptedOrchestrator) Run(_ context.Context, name string, targets []string, _ crawl.Extractor) crawl.StageResult {
	o.calls = append(o.calls, stageCall{name: name, targets: targets})
	result := o.results[name]
	result.Stage = name
	result.Submitted = len(targets)
	return result
}

type recordingSink struct {
	calls    int
	filename string
	header   []string
	records  []crawl.Record
	err      error
}

func (s *recordingSink) Write(_ context.Context, filename string, header []string, records []crawl.Record) (string, error) {
	s.calls++
	s.filename = filename
	s.header = header
	s.records = records
	if s.err != nil {
		return "", s.err
	}
	return "out/" + filename, nil
}

func TestPipelineChainsStageOutputs(t *testing.T) {
	orch := &scriptedOrchestrator{results: map[string]crawl.StageResult{
		"listing": {Links: []string{"/a.asp", "/b.asp"}},
		"detail": {Records: []crawl.Record{
			testRecord{name: "a"},
			testRecord{name: "b"},
		}},
	}}
	snk := &recordingSink{}

	p := New(Params{
		Name: "test",
		Stages: []Stage{
			{Name: "listing", ResolveLink: hostResolver("https://example.com")},
			{Name: "detail"},
		},
		Seeds:      []string{"https://example.com/index.asp"},
		Header:     []string{"Name"},
		OutputFile: "out.csv",
		Orchestrator: orch,
		Sink:         snk,
		Tracker:      progress.NewTracker(),
	})

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, orch.calls, 2)
	require.Equal(t, []string{"https://example.com/index.asp"}, orch.calls[0].targets)
	require.Equal(t, []string{"https://example.com/a.asp", "https://example.com/b.asp"},
		orch.calls[1].targets)

	require.Equal(t, 1, snk.calls)
	require.Equal(t, "out.csv", snk.filename)
	require.Len(t, snk.records, 2)
	require.Equal(t, 2, summary.Records)
	require.Equal(t, "out/out.csv", summary.OutputPath)
	require.Len(t, summary.Stages, 2)
	require.Equal(t, 2, summary.Stages[1].Submitted)
}

func TestPipelineTerminatesEarlyWithoutInputs(t *testing.T) {
	orch := &scriptedOrchestrator{results: map[string]crawl.StageResult{
		"listing": {}, // no links for the next stage
	}}
	snk := &recordingSink{}

	p := New(Params{
		Name:       "test",
		Stages:     []Stage{{Name: "listing"}, {Name: "detail"}},
		Seeds:      []string{"https://example.com/index.asp"},
		Header:     []string{"Name"},
		OutputFile: "out.csv",
		Orchestrator: orch,
		Sink:         snk,
	})

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, orch.calls, 1, "second stage must not run")
	require.Equal(t, 1, snk.calls, "header-only file still written")
	require.Empty(t, snk.records)
	require.Equal(t, 0, summary.Records)
}

func TestPipelineCriticalStageFailureAborts(t *testing.T) {
	orch := &scriptedOrchestrator{results: map[string]crawl.StageResult{
		"directory": {Failed: []crawl.TaskFailure{
			{Target: "https://example.com/index.asp", Attempts: 3, Err: errors.New("503")},
		}},
	}}
	snk := &recordingSink{}

	p := New(Params{
		Name:       "test",
		Stages:     []Stage{{Name: "directory", Critical: true}, {Name: "detail"}},
		Seeds:      []string{"https://example.com/index.asp"},
		OutputFile: "out.csv",
		Orchestrator: orch,
		Sink:         snk,
	})

	_, err := p.Run(context.Background())
	require.ErrorIs(t, err, ErrRootUnavailable)
	require.Zero(t, snk.calls, "sink must not run after an aborted pipeline")
}

func TestPipelineCriticalStageEmptySuccessEndsCleanly(t *testing.T) {
	// The root fetch succeeded but yielded no links: that is an empty result,
	// not an unavailable root.
	orch := &scriptedOrchestrator{results: map[string]crawl.StageResult{
		"directory": {},
	}}
	snk := &recordingSink{}

	p := New(Params{
		Name:       "test",
		Stages:     []Stage{{Name: "directory", Critical: true}, {Name: "detail"}},
		Seeds:      []string{"https://example.com/index.asp"},
		OutputFile: "out.csv",
		Orchestrator: orch,
		Sink:         snk,
	})

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, snk.calls)
	require.Empty(t, snk.records)
}

func TestPipelineSinkErrorPropagates(t *testing.T) {
	orch := &scriptedOrchestrator{results: map[string]crawl.StageResult{
		"listing": {Records: []crawl.Record{testRecord{name: "a"}}},
	}}
	snk := &recordingSink{err: errors.New("disk full")}

	p := New(Params{
		Name:       "test",
		Stages:     []Stage{{Name: "listing"}},
		Seeds:      []string{"https://example.com/index.asp"},
		OutputFile: "out.csv",
		Orchestrator: orch,
		Sink:         snk,
	})

	_, err := p.Run(context.Background())
	require.ErrorContains(t, err, "disk full")
}

func TestNewBestsellersSeeds(t *testing.T) {
	cfg := Config{
		BestsellerListURL: "https://www.nytimes.com/books/best-sellers/%s/hardcover-fiction/",
	}
	p, err := NewBestsellers(cfg, "2019/01/01", "2019/01/14", &scriptedOrchestrator{}, &recordingSink{}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://www.nytimes.com/books/best-sellers/2018/12/30/hardcover-fiction/",
		"https://www.nytimes.com/books/best-sellers/2019/01/06/hardcover-fiction/",
		"https://www.nytimes.com/books/best-sellers/2019/01/13/hardcover-fiction/",
		"https://www.nytimes.com/books/best-sellers/2019/01/20/hardcover-fiction/",
	}, p.seeds)
}

func TestNewBestsellersRejectsBadRange(t *testing.T) {
	_, err := NewBestsellers(Config{}, "2019/01/14", "2019/01/01", &scriptedOrchestrator{}, &recordingSink{}, nil, nil)
	require.Error(t, err)
}

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

func TestNewAdvisorsShape(t *testing.T) {
	cfg := Config{
		AdvisorHost:      "https://www.wiseradvisor.com",
		AdvisorDirectory: "/financial-advisors.asp",
	}
	clk := fixedClock{at: time.Date(2019, 3, 4, 5, 6, 7, 0, time.UTC)}

	p := NewAdvisors(cfg, &scriptedOrchestrator{}, &recordingSink{}, nil, clk, nil)
	require.Equal(t, []string{"https://www.wiseradvisor.com/financial-advisors.asp"}, p.seeds)
	require.Equal(t, "financial_advisors_20190304-050607.csv", p.outputFile)
	require.Len(t, p.stages, 3)
	require.True(t, p.stages[0].Critical)
	require.False(t, p.stages[1].Critical)
}

func TestHostResolver(t *testing.T) {
	resolve := hostResolver("https://www.wiseradvisor.com/")
	require.Equal(t, "https://www.wiseradvisor.com/a.asp", resolve("/a.asp"))
	require.Equal(t, "https://www.wiseradvisor.com/a.asp", resolve("a.asp"))
	require.Equal(t, "https://other.example/a", resolve("https://other.example/a"))
}
