package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scrapework/harvester/internal/pipeline"
)

// newBestsellersCmd creates the 'bestsellers' subcommand, which harvests the
// weekly bestseller lists for an inclusive date range.
func newBestsellersCmd() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "bestsellers",
		Short: "Harvest weekly bestseller lists into a CSV file",
		Long: `Generates the Sunday-aligned weekly date sequence between --start and
--end, fetches each week's bestseller list concurrently, and writes one row
per list entry to the output file.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := buildHarness(',')
			if err != nil {
				return err
			}

			p, err := pipeline.NewBestsellers(h.cfg, start, end, h.orch, h.sink, h.tracker, h.logger)
			if err != nil {
				return fmt.Errorf("build bestsellers pipeline: %w", err)
			}
			return h.run(cmd.Context(), p, "bestsellers")
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start date, YYYY/MM/DD (required)")
	cmd.Flags().StringVar(&end, "end", "", "end date, YYYY/MM/DD (required)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
