// Package config initializes the application's configuration. It uses the
// Viper library to read settings from a config file, environment variables,
// and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/scrapework/harvester/internal/logging"
)

// InitConfig initializes the application's configuration using Viper. It is
// designed to be called once at startup so that configuration is loaded and
// available to all other packages.
func InitConfig() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/harvester/")
	viper.AddConfigPath("$HOME/.harvester")

	// Crawl behavior.
	viper.SetDefault("harvester.concurrency", 4)
	viper.SetDefault("harvester.pace", "2s")
	viper.SetDefault("harvester.retry_max_attempts", 3)
	viper.SetDefault("harvester.backoff_base", "2s")
	viper.SetDefault("harvester.backoff_multiplier", 1.5)
	viper.SetDefault("harvester.backoff_max", "30s")
	viper.SetDefault("harvester.request_timeout", "15s")
	viper.SetDefault("harvester.host_qps", 2.0)
	viper.SetDefault("harvester.host_burst", 1)
	viper.SetDefault("harvester.output_dir", "result")
	viper.SetDefault("harvester.user_agents", []string{})

	// Target sites.
	viper.SetDefault("bestsellers.list_url",
		"https://www.nytimes.com/books/best-sellers/%s/combined-print-and-e-book-nonfiction/")
	viper.SetDefault("advisors.host", "https://www.wiseradvisor.com")
	viper.SetDefault("advisors.directory_path", "/financial-advisors.asp")

	// Bookkeeping and observability.
	viper.SetDefault("journal.path", "result/harvester.db")
	viper.SetDefault("server.addr", "")
	viper.SetDefault("log.development", false)
	viper.SetDefault("log.file", "")
	viper.SetDefault("log.max_size_mb", 50)
	viper.SetDefault("log.max_backups", 3)

	viper.SetEnvPrefix("HARVESTER") // e.g. HARVESTER_HARVESTER_CONCURRENCY=8
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logging.L.Debug("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
