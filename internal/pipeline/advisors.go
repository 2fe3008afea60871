package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/scrapework/harvester/internal/crawl"
	"github.com/scrapework/harvester/internal/extract"
	"github.com/scrapework/harvester/internal/progress"
)

// NewAdvisors builds the three-stage advisor pipeline: directory root to
// city/state links, city listings to advisor detail links, and detail pages
// to advisor records.
func NewAdvisors(
	cfg Config,
	orch Orchestrator,
	snk Sink,
	tracker *progress.Tracker,
	clk crawl.Clock,
	logger *zap.Logger,
) *Pipeline {
	resolve := hostResolver(cfg.AdvisorHost)
	outputFile := fmt.Sprintf("financial_advisors_%s.csv",
		clk.Now().Format("20060102-150405"))

	return New(Params{
		Name: "advisors",
		Stages: []Stage{
			{
				Name:      "directory",
				Extractor: extract.AdvisorDirectory{},
				// Losing the root listing leaves nothing to expand.
				Critical:    true,
				ResolveLink: resolve,
			},
			{
				Name:        "city-listings",
				Extractor:   extract.CityListing{},
				ResolveLink: resolve,
			},
			{
				Name:      "advisor-details",
				Extractor: extract.AdvisorDetail{},
			},
		},
		Seeds:        []string{resolve(cfg.AdvisorDirectory)},
		Header:       extract.AdvisorHeader,
		OutputFile:   outputFile,
		Orchestrator: orch,
		Sink:         snk,
		Tracker:      tracker,
		Logger:       logger,
	})
}
