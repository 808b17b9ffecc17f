package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the static monitor settings loaded once at startup. The
// dynamic holdings file (funds, stocks, alert thresholds) lives next to it
// and is reloaded by the reconciler whenever it changes on disk.
type Config struct {
	Mode         string `yaml:"mode"`     // DRY_RUN or LIVE
	Exchange     string `yaml:"exchange"` // exchange prefix for the live provider
	HoldingsFile string `yaml:"holdings_file"`
	HistoryDir   string `yaml:"history_dir"`
	ServerAddr   string `yaml:"server_addr"`

	// Polling cadence and provider etiquette.
	PollMillis      int `yaml:"poll_millis"`        // base delay between cycles
	MinRequestGapMs int `yaml:"min_request_gap_ms"` // minimum spacing between provider calls
	MaxJitterMs     int `yaml:"max_jitter_ms"`      // random extra delay on top of gaps
	SymbolDelayMs   int `yaml:"symbol_delay_ms"`    // fixed pause between symbols in a cycle
	RetrySeconds    int `yaml:"retry_seconds"`      // sleep after a transient cycle error
	BackoffSeconds  int `yaml:"backoff_seconds"`    // sleep after a rate-limit signal

	// Provider calls stop after this local time of day; the loop keeps
	// running to drive persistence and the display snapshot.
	CutoffTime string `yaml:"cutoff_time"`

	QuoteTimeoutSeconds int `yaml:"quote_timeout_seconds"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.HoldingsFile == "" {
		return fmt.Errorf("holdings_file cannot be empty")
	}
	if c.PollMillis <= 0 {
		return fmt.Errorf("poll_millis must be positive, got %d", c.PollMillis)
	}
	if c.MinRequestGapMs < 0 {
		return fmt.Errorf("min_request_gap_ms cannot be negative, got %d", c.MinRequestGapMs)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.Exchange == "" {
		c.Exchange = "NSE"
	}
	if c.HoldingsFile == "" {
		c.HoldingsFile = "config/holdings.yaml"
	}
	if c.HistoryDir == "" {
		c.HistoryDir = "history"
	}
	if c.ServerAddr == "" {
		c.ServerAddr = ":8124"
	}
	if c.PollMillis == 0 {
		c.PollMillis = 500
	}
	if c.MinRequestGapMs == 0 {
		c.MinRequestGapMs = 300
	}
	if c.MaxJitterMs == 0 {
		c.MaxJitterMs = 200
	}
	if c.SymbolDelayMs == 0 {
		c.SymbolDelayMs = 200
	}
	if c.RetrySeconds == 0 {
		c.RetrySeconds = 2
	}
	if c.BackoffSeconds == 0 {
		c.BackoffSeconds = c.RetrySeconds * 2
	}
	if c.CutoffTime == "" {
		c.CutoffTime = "15:01"
	}
	if c.QuoteTimeoutSeconds == 0 {
		c.QuoteTimeoutSeconds = 3
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
