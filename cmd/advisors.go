package cmd

import (
	"github.com/spf13/cobra"

	"github.com/scrapework/harvester/internal/pipeline"
)

// newAdvisorsCmd creates the 'advisors' subcommand, which harvests advisor
// profiles through the directory, city listing, and detail page stages.
func newAdvisorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advisors",
		Short: "Harvest advisor profiles into a CSV file",
		Long: `Expands the advisor directory into city/state listing pages, each
listing into advisor detail links, and each detail page into one profile row.
A directory root that cannot be fetched at all aborts the run; any other
failure is recorded and the harvest continues.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := buildHarness(';')
			if err != nil {
				return err
			}

			p := pipeline.NewAdvisors(h.cfg, h.orch, h.sink, h.tracker, h.clock, h.logger)
			return h.run(cmd.Context(), p, "advisors")
		},
	}
}
