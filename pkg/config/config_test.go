package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Reset viper
	viper.Reset()

	// Load config without a file
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Check defaults
	assert.Equal(t, "https://raw.githubusercontent.com/killallgit/prompthub-registry/{ref}/", cfg.Hub.BaseURL)
	assert.Equal(t, "main", cfg.Hub.Ref)
	assert.Empty(t, cfg.Hub.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Hub.Timeout)

	assert.Equal(t, ".", cfg.Templates.Dir)
	assert.False(t, cfg.Templates.Strict)
	assert.Equal(t, 8, cfg.Templates.MaxDepth)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "test-settings.yaml")

	configContent := `
hub:
  base_url: http://registry.internal/{ref}/
  ref: v3
  api_key: test-key
  timeout: "5s"
templates:
  dir: ./prompts
  strict: true
  max_depth: 4
logging:
  level: debug
  format: json
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)

	// Reset viper
	viper.Reset()

	// Load config from file
	cfg, err := Load(configFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Check loaded values
	assert.Equal(t, "http://registry.internal/{ref}/", cfg.Hub.BaseURL)
	assert.Equal(t, "v3", cfg.Hub.Ref)
	assert.Equal(t, "test-key", cfg.Hub.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Hub.Timeout)
	assert.Equal(t, "./prompts", cfg.Templates.Dir)
	assert.True(t, cfg.Templates.Strict)
	assert.Equal(t, 4, cfg.Templates.MaxDepth)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PROMPTHUB_REF", "nightly")
	t.Setenv("PROMPTHUB_API_KEY", "env-key")
	t.Setenv("PROMPTHUB_LOG_LEVEL", "warn")

	viper.Reset()

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "nightly", cfg.Hub.Ref)
	assert.Equal(t, "env-key", cfg.Hub.APIKey)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestProcessDurations(t *testing.T) {
	tests := []struct {
		name      string
		config    *Config
		expectErr bool
	}{
		{
			name: "valid duration",
			config: &Config{
				Hub: HubConfig{TimeoutStr: "1m30s"},
			},
			expectErr: false,
		},
		{
			name: "invalid hub timeout",
			config: &Config{
				Hub: HubConfig{TimeoutStr: "invalid"},
			},
			expectErr: true,
		},
		{
			name:      "empty duration uses default",
			config:    &Config{},
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := processDurations(tt.config)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				// Check defaults were applied if strings were empty
				if tt.config.Hub.TimeoutStr == "" {
					assert.Equal(t, 30*time.Second, tt.config.Hub.Timeout)
				}
			}
		})
	}
}

func TestGet(t *testing.T) {
	// Reset global config
	cfg = nil

	// Should panic if not initialized
	assert.Panics(t, func() {
		Get()
	})

	// Initialize config
	viper.Reset()
	_, err := Load("")
	require.NoError(t, err)

	// Now Get should work
	assert.NotPanics(t, func() {
		c := Get()
		assert.NotNil(t, c)
	})
}
