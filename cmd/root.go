// Package cmd defines and implements the CLI commands for the harvester
// executable.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/scrapework/harvester/internal/logging"
	"github.com/scrapework/harvester/pkg/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvester",
		Short: "A concurrent harvester for paginated public web listings.",
		Long: `harvester turns multi-stage public web listings into delimited tabular
files. It expands a root listing into bounded worker tasks, fetches each page
with retry, backoff, and request pacing, and funnels extracted records into a
single output file while tolerating partial failures.`,

		// Config is loaded by cobra.OnInitialize before RunE; this hook
		// upgrades the no-op bootstrap logger from the loaded config.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Options{
				Development: viper.GetBool("log.development"),
				File:        viper.GetString("log.file"),
				MaxSizeMB:   viper.GetInt("log.max_size_mb"),
				MaxBackups:  viper.GetInt("log.max_backups"),
			})
			if err != nil {
				return err
			}
			logging.Set(logger)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = logging.L.Sync()
		},
	}

	cobra.OnInitialize(config.InitConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.harvester/config.yaml)")

	cmd.AddCommand(newBestsellersCmd())
	cmd.AddCommand(newAdvisorsCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
