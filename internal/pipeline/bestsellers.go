package pipeline

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/scrapework/harvester/internal/dates"
	"github.com/scrapework/harvester/internal/extract"
	"github.com/scrapework/harvester/internal/progress"
)

// BestsellerOutputFile names the bestseller pipeline's output.
const BestsellerOutputFile = "nyt_best_sellers.csv"

// NewBestsellers builds the single-stage weekly bestseller pipeline for the
// inclusive date range start..end (YYYY/MM/DD).
func NewBestsellers(
	cfg Config,
	start, end string,
	orch Orchestrator,
	snk Sink,
	tracker *progress.Tracker,
	logger *zap.Logger,
) (*Pipeline, error) {
	weeks, err := dates.WeeklyStrings(start, end)
	if err != nil {
		return nil, fmt.Errorf("generate weekly dates: %w", err)
	}

	seeds := make([]string, 0, len(weeks))
	for _, week := range weeks {
		seeds = append(seeds, fmt.Sprintf(cfg.BestsellerListURL, week))
	}

	return New(Params{
		Name: "bestsellers",
		Stages: []Stage{
			{
				Name:      "weekly-lists",
				Extractor: extract.BestsellerList{},
			},
		},
		Seeds:        seeds,
		Header:       extract.BestsellerHeader,
		OutputFile:   BestsellerOutputFile,
		Orchestrator: orch,
		Sink:         snk,
		Tracker:      tracker,
		Logger:       logger,
	}), nil
}

// hostResolver resolves site-relative paths against host.
func hostResolver(host string) func(string) string {
	host = strings.TrimRight(host, "/")
	return func(link string) string {
		if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
			return link
		}
		if !strings.HasPrefix(link, "/") {
			link = "/" + link
		}
		return host + link
	}
}
