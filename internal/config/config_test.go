package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetViper resets viper to a clean state for each test
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

// validConfig returns a config that passes validateConfig
func validConfig() *Config {
	return &Config{
		Format:      "console",
		Concurrency: 10,
		Log:         LogConfig{Level: "info", Format: "text"},
		Server:      ServerConfig{RateLimit: RateLimitConfig{RequestsPerMinute: 60, Burst: 10}},
		Delivery:    DeliveryConfig{MaxAttempts: 3, BaseDelay: time.Second, Workers: 4, QueueSize: 1024},
	}
}

// TestLoadConfigDefaults tests that default values are set correctly
func TestLoadConfigDefaults(t *testing.T) {
	resetViper(t)

	config, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, "console", config.Format)
	assert.Empty(t, config.Output)
	assert.False(t, config.Quiet)
	assert.False(t, config.Verbose)
	assert.False(t, config.Strict)
	assert.Empty(t, config.Catalog)
	assert.Equal(t, 10, config.Concurrency)
	assert.Equal(t, ":8080", config.Server.Addr)
	assert.Equal(t, []string{"*"}, config.Server.CORS)
	assert.Equal(t, 60, config.Server.RateLimit.RequestsPerMinute)
	assert.Equal(t, 10, config.Server.RateLimit.Burst)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, 3, config.Delivery.MaxAttempts)
	assert.Equal(t, time.Second, config.Delivery.BaseDelay)
	assert.Equal(t, 4, config.Delivery.Workers)
	assert.Equal(t, 1024, config.Delivery.QueueSize)
	assert.Equal(t, "AI Readiness Scorecard", config.Notion.LeadSource)
	assert.False(t, config.Notion.Enabled())
	assert.Empty(t, config.Analytics.PostHogKey)
}

// TestLoadConfigFromJSON tests loading configuration from JSON file
func TestLoadConfigFromJSON(t *testing.T) {
	resetViper(t)
	tmpDir := t.TempDir()

	configData := map[string]any{
		"format":      "json",
		"output":      "report.json",
		"quiet":       true,
		"strict":      true,
		"catalog":     "catalog.yaml",
		"concurrency": 20,
		"server": map[string]any{
			"addr": ":9090",
			"cors": []string{"https://example.com"},
			"rateLimit": map[string]any{
				"requestsPerMinute": 30,
				"burst":             5,
			},
		},
		"notion": map[string]any{
			"token":      "secret",
			"databaseId": "db-123",
		},
		"delivery": map[string]any{
			"maxAttempts": 5,
			"baseDelay":   "250ms",
		},
	}

	jsonData, err := json.MarshalIndent(configData, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".scorecardrc.json"), jsonData, 0644))

	config, err := LoadConfig(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "report.json", config.Output)
	assert.True(t, config.Quiet)
	assert.True(t, config.Strict)
	assert.Equal(t, "catalog.yaml", config.Catalog)
	assert.Equal(t, 20, config.Concurrency)
	assert.Equal(t, ":9090", config.Server.Addr)
	assert.Equal(t, []string{"https://example.com"}, config.Server.CORS)
	assert.Equal(t, 30, config.Server.RateLimit.RequestsPerMinute)
	assert.Equal(t, 5, config.Server.RateLimit.Burst)
	assert.True(t, config.Notion.Enabled())
	assert.Equal(t, "db-123", config.Notion.DatabaseID)
	assert.Equal(t, 5, config.Delivery.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, config.Delivery.BaseDelay)
}

// TestLoadConfigFromYAML tests loading configuration from YAML file
func TestLoadConfigFromYAML(t *testing.T) {
	resetViper(t)
	tmpDir := t.TempDir()

	yamlContent := `
format: markdown
verbose: true
log:
  level: debug
  format: json
webhook:
  url: https://hooks.example.com/scorecard
analytics:
  posthogKey: phc_test
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".scorecardrc.yaml"), []byte(yamlContent), 0644))

	config, err := LoadConfig(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "markdown", config.Format)
	assert.True(t, config.Verbose)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "https://hooks.example.com/scorecard", config.Webhook.URL)
	assert.Equal(t, "phc_test", config.Analytics.PostHogKey)
	assert.Equal(t, "https://eu.i.posthog.com", config.Analytics.PostHogHost)
}

// TestLoadConfigYMLExtension tests .yml extension
func TestLoadConfigYMLExtension(t *testing.T) {
	resetViper(t)
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".scorecardrc.yml"), []byte("format: yaml\n"), 0644))

	config, err := LoadConfig(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "yaml", config.Format)
}

// TestLoadConfigConfigFilePriority tests that the first config file found wins
func TestLoadConfigConfigFilePriority(t *testing.T) {
	resetViper(t)
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".scorecardrc.json"), []byte(`{"format": "json"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".scorecardrc.yaml"), []byte("format: markdown\n"), 0644))

	config, err := LoadConfig(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "json", config.Format)
}

// TestLoadConfigEnvironmentVariables tests environment variable overrides
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	resetViper(t)

	envVars := map[string]string{
		"SCORECARD_FORMAT":            "yaml",
		"SCORECARD_STRICT":            "true",
		"SCORECARD_CONCURRENCY":       "30",
		"SCORECARD_SERVER_ADDR":       ":7000",
		"SCORECARD_NOTION_TOKEN":      "env-token",
		"SCORECARD_NOTION_DATABASEID": "env-db",
		"SCORECARD_WEBHOOK_URL":       "https://env.example.com",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	config, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "yaml", config.Format)
	assert.True(t, config.Strict)
	assert.Equal(t, 30, config.Concurrency)
	assert.Equal(t, ":7000", config.Server.Addr)
	assert.Equal(t, "env-token", config.Notion.Token)
	assert.Equal(t, "env-db", config.Notion.DatabaseID)
	assert.Equal(t, "https://env.example.com", config.Webhook.URL)
}

// TestLoadConfigInvalidFile tests that a malformed config file is reported
func TestLoadConfigInvalidFile(t *testing.T) {
	resetViper(t)
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".scorecardrc.json"), []byte("{not json"), 0644))

	_, err := LoadConfig(tmpDir)
	assert.Error(t, err)
}

// TestLoadConfigInvalidValue tests that validation runs after loading
func TestLoadConfigInvalidValue(t *testing.T) {
	resetViper(t)
	t.Setenv("SCORECARD_FORMAT", "pdf")

	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"every format", func(c *Config) { c.Format = "yaml" }, ""},
		{"invalid format", func(c *Config) { c.Format = "invalid" }, "invalid format"},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency must be at least 1"},
		{"invalid log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"invalid log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"zero rate limit", func(c *Config) { c.Server.RateLimit.RequestsPerMinute = 0 }, "requestsPerMinute"},
		{"zero burst", func(c *Config) { c.Server.RateLimit.Burst = 0 }, "burst"},
		{"zero attempts", func(c *Config) { c.Delivery.MaxAttempts = 0 }, "maxAttempts"},
		{"negative delay", func(c *Config) { c.Delivery.BaseDelay = -time.Second }, "baseDelay"},
		{"zero workers", func(c *Config) { c.Delivery.Workers = 0 }, "workers"},
		{"zero queue size", func(c *Config) { c.Delivery.QueueSize = 0 }, "queueSize"},
		{"notion token without database", func(c *Config) { c.Notion.Token = "x" }, "must be set together"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)
			err := validateConfig(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestSaveConfig tests that secrets are not persisted
func TestSaveConfig(t *testing.T) {
	config := validConfig()
	config.Notion = NotionConfig{Token: "secret", DatabaseID: "db"}
	path := filepath.Join(t.TempDir(), "nested", ".scorecardrc.json")

	require.NoError(t, SaveConfig(config, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.Contains(t, string(data), `"databaseId": "db"`)
}
