package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Formats accepted by the report writers.
var Formats = []string{"console", "json", "markdown", "yaml"}

// Config represents the scorecard configuration
type Config struct {
	Format      string          `mapstructure:"format" json:"format"`
	Output      string          `mapstructure:"output" json:"output,omitempty"`
	Quiet       bool            `mapstructure:"quiet" json:"quiet"`
	Verbose     bool            `mapstructure:"verbose" json:"verbose"`
	Strict      bool            `mapstructure:"strict" json:"strict"`
	Catalog     string          `mapstructure:"catalog" json:"catalog,omitempty"`
	Concurrency int             `mapstructure:"concurrency" json:"concurrency"`
	Server      ServerConfig    `mapstructure:"server" json:"server"`
	Log         LogConfig       `mapstructure:"log" json:"log"`
	Notion      NotionConfig    `mapstructure:"notion" json:"notion"`
	Webhook     WebhookConfig   `mapstructure:"webhook" json:"webhook"`
	Delivery    DeliveryConfig  `mapstructure:"delivery" json:"delivery"`
	Analytics   AnalyticsConfig `mapstructure:"analytics" json:"analytics"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Addr      string          `mapstructure:"addr" json:"addr"`
	CORS      []string        `mapstructure:"cors" json:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit" json:"rateLimit"`
}

// RateLimitConfig is the per-client token bucket for public endpoints
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requestsPerMinute" json:"requestsPerMinute"`
	Burst             int `mapstructure:"burst" json:"burst"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// NotionConfig identifies the Notion database leads are written to.
// Delivery to Notion is disabled when Token or DatabaseID is empty.
type NotionConfig struct {
	Token      string `mapstructure:"token" json:"-"`
	DatabaseID string `mapstructure:"databaseId" json:"databaseId,omitempty"`
	LeadSource string `mapstructure:"leadSource" json:"leadSource,omitempty"`
}

// Enabled reports whether Notion delivery is configured.
func (n NotionConfig) Enabled() bool {
	return n.Token != "" && n.DatabaseID != ""
}

// WebhookConfig contains the optional generic webhook target
type WebhookConfig struct {
	URL string `mapstructure:"url" json:"url,omitempty"`
}

// DeliveryConfig controls retries of outbound deliveries
type DeliveryConfig struct {
	MaxAttempts int           `mapstructure:"maxAttempts" json:"maxAttempts"`
	BaseDelay   time.Duration `mapstructure:"baseDelay" json:"baseDelay"`
	Workers     int           `mapstructure:"workers" json:"workers"`
	QueueSize   int           `mapstructure:"queueSize" json:"queueSize"`
}

// AnalyticsConfig contains PostHog settings. Analytics are off without a key.
type AnalyticsConfig struct {
	PostHogKey  string `mapstructure:"posthogKey" json:"-"`
	PostHogHost string `mapstructure:"posthogHost" json:"posthogHost,omitempty"`
}

// setDefaults registers every key so that env overrides reach Unmarshal
func setDefaults() {
	viper.SetDefault("format", "console")
	viper.SetDefault("output", "")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("strict", false)
	viper.SetDefault("catalog", "")
	viper.SetDefault("concurrency", 10)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.cors", []string{"*"})
	viper.SetDefault("server.rateLimit.requestsPerMinute", 60)
	viper.SetDefault("server.rateLimit.burst", 10)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("notion.token", "")
	viper.SetDefault("notion.databaseId", "")
	viper.SetDefault("notion.leadSource", "AI Readiness Scorecard")
	viper.SetDefault("webhook.url", "")
	viper.SetDefault("delivery.maxAttempts", 3)
	viper.SetDefault("delivery.baseDelay", time.Second)
	viper.SetDefault("delivery.workers", 4)
	viper.SetDefault("delivery.queueSize", 1024)
	viper.SetDefault("analytics.posthogKey", "")
	viper.SetDefault("analytics.posthogHost", "https://eu.i.posthog.com")
}

// LoadConfig loads configuration from defaults, the first config file found in
// dir (or the working directory when dir is empty), and SCORECARD_* variables.
func LoadConfig(dir string) (*Config, error) {
	setDefaults()

	configPaths := []string{".scorecardrc.json", ".scorecardrc.yaml", ".scorecardrc.yml"}
	for _, path := range configPaths {
		if dir != "" {
			path = filepath.Join(dir, path)
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", path, err)
		}
		break
	}

	// SCORECARD_NOTION_TOKEN -> notion.token
	viper.SetEnvPrefix("SCORECARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if !slices.Contains(Formats, config.Format) {
		return fmt.Errorf("invalid format: %s. Must be one of %s", config.Format, strings.Join(Formats, ", "))
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	switch strings.ToLower(config.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s. Must be 'text' or 'json'", config.Log.Format)
	}

	if config.Server.RateLimit.RequestsPerMinute < 1 {
		return fmt.Errorf("server.rateLimit.requestsPerMinute must be at least 1")
	}
	if config.Server.RateLimit.Burst < 1 {
		return fmt.Errorf("server.rateLimit.burst must be at least 1")
	}

	if config.Delivery.MaxAttempts < 1 {
		return fmt.Errorf("delivery.maxAttempts must be at least 1")
	}
	if config.Delivery.BaseDelay < 0 {
		return fmt.Errorf("delivery.baseDelay must not be negative")
	}
	if config.Delivery.Workers < 1 {
		return fmt.Errorf("delivery.workers must be at least 1")
	}
	if config.Delivery.QueueSize < 1 {
		return fmt.Errorf("delivery.queueSize must be at least 1")
	}

	if (config.Notion.Token == "") != (config.Notion.DatabaseID == "") {
		return fmt.Errorf("notion.token and notion.databaseId must be set together")
	}

	return nil
}

// SaveConfig writes config as JSON. Secrets are never written.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
