package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/scrapework/harvester/internal/api"
	"github.com/scrapework/harvester/internal/clock"
	"github.com/scrapework/harvester/internal/crawl"
	"github.com/scrapework/harvester/internal/fetch"
	"github.com/scrapework/harvester/internal/identity"
	"github.com/scrapework/harvester/internal/journal"
	"github.com/scrapework/harvester/internal/logging"
	"github.com/scrapework/harvester/internal/pacing"
	"github.com/scrapework/harvester/internal/pipeline"
	"github.com/scrapework/harvester/internal/progress"
	"github.com/scrapework/harvester/internal/runner"
	"github.com/scrapework/harvester/internal/sink"
	"github.com/scrapework/harvester/internal/stage"
)

// harness bundles everything a pipeline run needs.
type harness struct {
	cfg     pipeline.Config
	orch    *stage.Orchestrator
	sink    *sink.CSV
	tracker *progress.Tracker
	journal *journal.Journal
	server  *api.Server
	clock   clock.System
	logger  *zap.Logger
}

// buildHarness wires the fetcher, runner, orchestrator, sink, and optional
// journal and status server from the loaded configuration.
func buildHarness(delimiter rune) (*harness, error) {
	cfg, err := pipeline.LoadConfig(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.L

	limiter := pacing.New(pacing.Config{
		DefaultQPS:   cfg.HostQPS,
		DefaultBurst: cfg.HostBurst,
	})
	fetcher, err := fetch.NewCollyFetcher(fetch.Config{
		RequestTimeout: cfg.RequestTimeout,
		Concurrency:    cfg.Width,
	}, identity.NewPool(cfg.UserAgents), limiter, logger)
	if err != nil {
		return nil, fmt.Errorf("init fetcher: %w", err)
	}

	policy := runner.NewRetryPolicy()
	policy.MaxAttempts = cfg.MaxAttempts
	policy.BackoffBase = cfg.BackoffBase
	policy.BackoffMultiplier = cfg.BackoffMultiplier
	policy.BackoffMax = cfg.BackoffMax

	taskRunner := runner.New(fetcher, policy, cfg.Pace, clock.TimerPauser{}, logger)

	csvSink, err := sink.NewCSV(cfg.OutputDir, delimiter, logger)
	if err != nil {
		return nil, fmt.Errorf("init sink: %w", err)
	}

	h := &harness{
		cfg:     cfg,
		sink:    csvSink,
		tracker: progress.NewTracker(),
		logger:  logger,
	}

	observers := []crawl.Observer{h.tracker}
	if cfg.JournalPath != "" {
		jrnl, err := journal.Open(cfg.JournalPath, uuid.NewString(), h.clock, logger)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		h.journal = jrnl
		observers = append(observers, jrnl)
	}

	h.orch = stage.New(taskRunner, cfg.Width, logger, observers...)

	if cfg.ServerAddr != "" {
		h.server = api.NewServer(cfg.ServerAddr, h.tracker, logger)
	}
	return h, nil
}

// run executes the pipeline inside the harness lifecycle: journal rows are
// opened and closed around the run and the status server is stopped on exit.
func (h *harness) run(ctx context.Context, p *pipeline.Pipeline, name string) error {
	if h.server != nil {
		h.server.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.server.Shutdown(shutdownCtx); err != nil {
				h.logger.Warn("status server shutdown failed", zap.Error(err))
			}
		}()
	}
	if h.journal != nil {
		defer func() {
			if err := h.journal.Close(); err != nil {
				h.logger.Warn("journal close failed", zap.Error(err))
			}
		}()
		if err := h.journal.StartRun(ctx, name); err != nil {
			return err
		}
	}

	summary, err := p.Run(ctx)

	if h.journal != nil {
		status := "succeeded"
		if err != nil {
			status = "failed"
		}
		if jerr := h.journal.FinishRun(context.Background(), status, summary.Records); jerr != nil {
			h.logger.Warn("journal finish failed", zap.Error(jerr))
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run %s pipeline: %w", name, err)
	}
	return nil
}
