package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every configuration knob that influences a harvest run.
// All values originate from Viper so runs can be configured via files, env
// vars, or CLI flags.
type Config struct {
	Width             int
	Pace              time.Duration
	MaxAttempts       int
	BackoffBase       time.Duration
	BackoffMultiplier float64
	BackoffMax        time.Duration
	RequestTimeout    time.Duration
	HostQPS           float64
	HostBurst         int
	OutputDir         string
	JournalPath       string
	ServerAddr        string
	UserAgents        []string

	BestsellerListURL string
	AdvisorHost       string
	AdvisorDirectory  string
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Width:             v.GetInt("harvester.concurrency"),
		Pace:              v.GetDuration("harvester.pace"),
		MaxAttempts:       v.GetInt("harvester.retry_max_attempts"),
		BackoffBase:       v.GetDuration("harvester.backoff_base"),
		BackoffMultiplier: v.GetFloat64("harvester.backoff_multiplier"),
		BackoffMax:        v.GetDuration("harvester.backoff_max"),
		RequestTimeout:    v.GetDuration("harvester.request_timeout"),
		HostQPS:           v.GetFloat64("harvester.host_qps"),
		HostBurst:         v.GetInt("harvester.host_burst"),
		OutputDir:         v.GetString("harvester.output_dir"),
		JournalPath:       v.GetString("journal.path"),
		ServerAddr:        v.GetString("server.addr"),
		UserAgents:        v.GetStringSlice("harvester.user_agents"),
		BestsellerListURL: v.GetString("bestsellers.list_url"),
		AdvisorHost:       strings.TrimRight(v.GetString("advisors.host"), "/"),
		AdvisorDirectory:  v.GetString("advisors.directory_path"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("harvester.concurrency must be > 0")
	}
	if c.Pace < 0 {
		return fmt.Errorf("harvester.pace must be >= 0")
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("harvester.retry_max_attempts must be > 0")
	}
	if c.BackoffBase < 0 {
		return fmt.Errorf("harvester.backoff_base must be >= 0")
	}
	if c.BackoffMultiplier <= 0 {
		return fmt.Errorf("harvester.backoff_multiplier must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("harvester.request_timeout must be > 0")
	}
	if c.HostQPS < 0 {
		return fmt.Errorf("harvester.host_qps must be >= 0")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("harvester.output_dir must be set")
	}
	if !strings.Contains(c.BestsellerListURL, "%s") {
		return fmt.Errorf("bestsellers.list_url must contain a %%s date placeholder")
	}
	if c.AdvisorHost == "" {
		return fmt.Errorf("advisors.host must be set")
	}
	if c.AdvisorDirectory == "" {
		return fmt.Errorf("advisors.directory_path must be set")
	}
	return nil
}
