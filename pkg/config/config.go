package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Hub       HubConfig       `mapstructure:"hub"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// HubConfig holds registry client configuration
type HubConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Ref        string        `mapstructure:"ref"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	TimeoutStr string        `mapstructure:"timeout"` // For parsing string duration
}

// TemplatesConfig holds template resolution configuration
type TemplatesConfig struct {
	Dir      string `mapstructure:"dir"`
	Strict   bool   `mapstructure:"strict"`
	MaxDepth int    `mapstructure:"max_depth"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	// Global config instance
	cfg *Config
)

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// Load loads configuration from file and environment
func Load(cfgFile string) (*Config, error) {
	// Set defaults first
	setDefaults()

	// Configure viper
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Set config search paths
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			xdgConfigHome = filepath.Join(home, ".config")
		}
		hubCfgHome := filepath.Join(xdgConfigHome, "prompthub")

		viper.AddConfigPath("./.prompthub") // Check project directory first
		viper.AddConfigPath(hubCfgHome)     // Then check XDG config location
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings.yaml")
	}

	// Enable environment variable support
	viper.AutomaticEnv()

	// Bind specific environment variables to Viper keys for explicit mapping
	bindEnvironmentVariables()

	// Read config file if it exists. A missing file is fine, defaults and
	// environment variables still apply.
	_ = viper.ReadInConfig()

	// Create config instance
	cfg = &Config{}

	// Unmarshal into struct
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Post-process durations (viper doesn't handle time.Duration directly)
	if err := processDurations(cfg); err != nil {
		return nil, fmt.Errorf("failed to process durations: %w", err)
	}

	return cfg, nil
}

// setDefaults sets all default configuration values
func setDefaults() {
	// Hub defaults
	viper.SetDefault("hub.base_url", "https://raw.githubusercontent.com/killallgit/prompthub-registry/{ref}/")
	viper.SetDefault("hub.ref", "main")
	viper.SetDefault("hub.api_key", "")
	viper.SetDefault("hub.timeout", "30s")

	// Template defaults
	viper.SetDefault("templates.dir", ".")
	viper.SetDefault("templates.strict", false)
	viper.SetDefault("templates.max_depth", 8)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
}

// bindEnvironmentVariables binds specific environment variables to Viper keys
func bindEnvironmentVariables() {
	viper.BindEnv("hub.base_url", "PROMPTHUB_HUB_URL")
	viper.BindEnv("hub.ref", "PROMPTHUB_REF")
	viper.BindEnv("hub.api_key", "PROMPTHUB_API_KEY")
	viper.BindEnv("hub.timeout", "PROMPTHUB_TIMEOUT")
	viper.BindEnv("templates.dir", "PROMPTHUB_TEMPLATES_DIR")
	viper.BindEnv("templates.strict", "PROMPTHUB_STRICT")
	viper.BindEnv("logging.level", "PROMPTHUB_LOG_LEVEL")
	viper.BindEnv("logging.format", "PROMPTHUB_LOG_FORMAT")
}

// processDurations converts string durations to time.Duration
func processDurations(cfg *Config) error {
	if cfg.Hub.TimeoutStr != "" {
		d, err := time.ParseDuration(cfg.Hub.TimeoutStr)
		if err != nil {
			return fmt.Errorf("invalid hub.timeout: %w", err)
		}
		cfg.Hub.Timeout = d
	} else if cfg.Hub.Timeout == 0 {
		// Use default if not set
		cfg.Hub.Timeout = 30 * time.Second
	}

	return nil
}

// GetConfigFileUsed returns the path to the config file being used
func GetConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
