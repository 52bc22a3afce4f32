package config

import (
	"time"

	"go-crypto-analyst/pkg/config"
)

// DeepSeek holds the configuration for the completion endpoint.
type DeepSeek struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	Model               string        `mapstructure:"model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
}

// CoinGecko holds the configuration for the price data source.
type CoinGecko struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// CryptoPanic holds the configuration for the news data source.
type CryptoPanic struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// FearGreed holds the configuration for the fear & greed index source.
type FearGreed struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Analyst holds orchestration settings.
type Analyst struct {
	BranchTimeout time.Duration `mapstructure:"branch_timeout"`
	TopArticles   int           `mapstructure:"top_articles"`
}

// Config holds the full configuration for the analyst service.
type Config struct {
	App         config.App      `mapstructure:"app"`
	Logger      config.Logger   `mapstructure:"logger"`
	Database    config.Database `mapstructure:"database"`
	Redis       config.Redis    `mapstructure:"redis"`
	API         config.API      `mapstructure:"api"`
	DeepSeek    DeepSeek        `mapstructure:"deepseek"`
	CoinGecko   CoinGecko       `mapstructure:"coingecko"`
	CryptoPanic CryptoPanic     `mapstructure:"cryptopanic"`
	FearGreed   FearGreed       `mapstructure:"feargreed"`
	Analyst     Analyst         `mapstructure:"analyst"`
}

// Load loads the analyst configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
