package config

import (
	"time"

	"go-options-advisor/pkg/config"
)

// MarketData holds the configuration for the market data provider.
type MarketData struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

// Reasoning holds the escalation settings for edge candidates.
type Reasoning struct {
	Enabled       bool          `mapstructure:"enabled"`
	Provider      string        `mapstructure:"provider"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	Timeout       time.Duration `mapstructure:"timeout"`

	// Edge-candidate thresholds.
	EdgePLPercent float64 `mapstructure:"edge_pl_percent"`
	EdgeDteMax    int     `mapstructure:"edge_dte_max"`
	EdgeIVMin     float64 `mapstructure:"edge_iv_min"`
}

// Gemini holds the configuration for the Gemini reasoning provider.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Grok holds the configuration for the Grok (OpenAI-compatible) reasoning
// provider.
type Grok struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Scan holds scheduled-scan settings.
type Scan struct {
	Schedule           string             `mapstructure:"schedule"`
	CreateAlerts       bool               `mapstructure:"create_alerts"`
	ConditionsCacheTTL time.Duration      `mapstructure:"conditions_cache_ttl"`
	Overrides          map[string]float64 `mapstructure:"overrides"`
}

// Config holds the full configuration for the advisor service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	API        config.API      `mapstructure:"api"`
	Telegram   config.Telegram `mapstructure:"telegram"`
	MarketData MarketData      `mapstructure:"market_data"`
	Reasoning  Reasoning       `mapstructure:"reasoning"`
	Gemini     Gemini          `mapstructure:"gemini"`
	Grok       Grok            `mapstructure:"grok"`
	Scan       Scan            `mapstructure:"scan"`
}

// Load loads the advisor configuration from the given path and fills in
// defaults for unset escalation and scan settings.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Reasoning.MaxConcurrent <= 0 {
		c.Reasoning.MaxConcurrent = 6
	}
	if c.Reasoning.Timeout <= 0 {
		c.Reasoning.Timeout = 45 * time.Second
	}
	if c.Reasoning.EdgePLPercent <= 0 {
		c.Reasoning.EdgePLPercent = 12
	}
	if c.Reasoning.EdgeDteMax <= 0 {
		c.Reasoning.EdgeDteMax = 14
	}
	if c.Reasoning.EdgeIVMin <= 0 {
		c.Reasoning.EdgeIVMin = 55
	}
	if c.MarketData.Timeout <= 0 {
		c.MarketData.Timeout = 15 * time.Second
	}
	if c.MarketData.MaxRequestPerMinute <= 0 {
		c.MarketData.MaxRequestPerMinute = 60
	}
	if c.Scan.ConditionsCacheTTL <= 0 {
		c.Scan.ConditionsCacheTTL = 5 * time.Minute
	}
}
