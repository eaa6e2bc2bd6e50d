// Package config loads application configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"pumpwatch/internal/domain"
)

// Config is the full application configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Feed    FeedConfig    `yaml:"feed"`
	Enrich  EnrichConfig  `yaml:"enrich"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Storage StorageConfig `yaml:"storage"`
	API     APIConfig     `yaml:"api"`
}

type AppConfig struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
}

type FeedConfig struct {
	URL                   string `yaml:"url"`
	ReconnectDelaySeconds int    `yaml:"reconnect_delay_seconds"`
}

type EnrichConfig struct {
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`
	Workers             int    `yaml:"workers"`
	DetailAPIURL        string `yaml:"detail_api_url"`
}

type IngestConfig struct {
	UpdateIntervalSeconds int `yaml:"update_interval_seconds"`
	PriceTickSeconds      int `yaml:"price_tick_seconds"`
}

type StorageConfig struct {
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickHouseDSN string `yaml:"clickhouse_dsn"`
	WatchlistPath string `yaml:"watchlist_path"`
}

type APIConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
			LogLevel:    "info",
		},
		Feed: FeedConfig{
			URL:                   "wss://pumpportal.fun/api/data",
			ReconnectDelaySeconds: 3,
		},
		Enrich: EnrichConfig{
			FetchTimeoutSeconds: 5,
			Workers:             4,
			DetailAPIURL:        "https://pumpapi.fun",
		},
		Ingest: IngestConfig{
			UpdateIntervalSeconds: 1,
			PriceTickSeconds:      1,
		},
		Storage: StorageConfig{
			WatchlistPath: "watchlist.json",
		},
		API: APIConfig{
			Addr: ":8080",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	c.App.Environment = getEnv("APP_ENV", c.App.Environment)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.Feed.URL = getEnv("FEED_URL", c.Feed.URL)
	c.Enrich.DetailAPIURL = getEnv("DETAIL_API_URL", c.Enrich.DetailAPIURL)
	c.Storage.PostgresDSN = getEnv("POSTGRES_DSN", c.Storage.PostgresDSN)
	c.Storage.ClickHouseDSN = getEnv("CLICKHOUSE_DSN", c.Storage.ClickHouseDSN)
	c.Storage.WatchlistPath = getEnv("WATCHLIST_PATH", c.Storage.WatchlistPath)
	c.API.Addr = getEnv("API_ADDR", c.API.Addr)

	if v := os.Getenv("UPDATE_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Ingest.UpdateIntervalSeconds = n
		}
	}
	if v := os.Getenv("ENRICH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Enrich.Workers = n
		}
	}
}

// Validate performs basic configuration validation.
func (c *Config) Validate() error {
	if c.Feed.URL == "" {
		return fmt.Errorf("feed url cannot be empty")
	}
	if !domain.UpdateInterval(c.Ingest.UpdateIntervalSeconds).IsValid() {
		return fmt.Errorf("update interval must be one of 1, 5, 10, 20 seconds, got %d",
			c.Ingest.UpdateIntervalSeconds)
	}
	if c.Enrich.Workers <= 0 {
		return fmt.Errorf("enrich workers must be positive")
	}
	if c.API.Addr == "" {
		return fmt.Errorf("api addr cannot be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
