// Package config provides configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrMissingAPIKey is returned when neither API_KEY nor YOUTUBE_API_KEY is set.
	ErrMissingAPIKey = errors.New("API_KEY not found; make sure it is configured")

	// ErrInvalidConfig wraps every other validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	YouTube    YouTubeConfig
	Enrichment EnrichmentConfig
	Output     OutputConfig
	Logging    LoggingConfig
	Metrics    MetricsConfig
	Quota      QuotaConfig
	Report     ReportConfig
}

// YouTubeConfig contains YouTube Data API access configuration.
type YouTubeConfig struct {
	APIKey     string
	RegionCode string
	MaxResults int64
	// Endpoint overrides the API base URL; empty uses the public API.
	Endpoint string
}

// EnrichmentConfig contains per-row enrichment configuration.
type EnrichmentConfig struct {
	Workers int
}

// OutputConfig contains CSV output configuration.
type OutputConfig struct {
	Dir      string
	TimeZone string
	// FileName, when set, replaces the timestamped file name.
	FileName string
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// MetricsConfig contains Pushgateway configuration. Metrics are only pushed
// when PushgatewayURL is set.
type MetricsConfig struct {
	PushgatewayURL string
	Job            string
}

// QuotaConfig contains API quota accounting configuration.
type QuotaConfig struct {
	DailyLimit int
}

// ReportConfig contains the end-of-run summary configuration.
type ReportConfig struct {
	Top int
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	setDefaults()

	// Read environment variables
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// The API key keeps its historical unprefixed names.
	if err := viper.BindEnv("youtube.apikey", "API_KEY", "YOUTUBE_API_KEY", "APP_YOUTUBE_APIKEY"); err != nil {
		return nil, fmt.Errorf("failed to bind API key: %w", err)
	}

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration before any API call is made.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.YouTube.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.YouTube.RegionCode == "" {
		return fmt.Errorf("%w: youtube.regioncode is empty", ErrInvalidConfig)
	}
	if c.YouTube.MaxResults < 1 || c.YouTube.MaxResults > 50 {
		return fmt.Errorf("%w: youtube.maxresults must be between 1 and 50, got %d", ErrInvalidConfig, c.YouTube.MaxResults)
	}
	if c.Enrichment.Workers < 1 {
		return fmt.Errorf("%w: enrichment.workers must be at least 1, got %d", ErrInvalidConfig, c.Enrichment.Workers)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Location resolves Output.TimeZone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Output.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("output.timezone %q: %w", c.Output.TimeZone, err)
	}
	return loc, nil
}

func setDefaults() {
	// YouTube
	viper.SetDefault("youtube.apikey", "")
	viper.SetDefault("youtube.regioncode", "BR")
	viper.SetDefault("youtube.maxresults", 50)
	viper.SetDefault("youtube.endpoint", "")

	// Enrichment
	viper.SetDefault("enrichment.workers", 4)

	// Output
	viper.SetDefault("output.dir", ".")
	viper.SetDefault("output.timezone", "America/Sao_Paulo")
	viper.SetDefault("output.filename", "")

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")

	// Metrics
	viper.SetDefault("metrics.pushgatewayurl", "")
	viper.SetDefault("metrics.job", "youtube_trending_collector")

	// Quota
	viper.SetDefault("quota.dailylimit", 10000)

	// Report
	viper.SetDefault("report.top", 10)
}
