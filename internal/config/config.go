package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JSH-Team/unpack/internal/utils/logger"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	ConfigDirName  = "unpack"
	ConfigFileName = "config.yaml"
)

func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigDirName), nil
}

// LoadConfig loads the config from --config or from the user config directory.
// If the default config file does not exist, it is created with default values.
func LoadConfig() error {
	if ConfigPath != "" {
		return loadConfigFile(ConfigPath)
	}

	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("error getting config dir: %w", err)
	}
	return LoadConfigFrom(configDir)
}

// LoadConfigFrom loads <dir>/config.yaml, writing the defaults first when missing.
func LoadConfigFrom(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config path: %w", err)
	}

	configFile := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		out, err := yaml.Marshal(DefaultConfig)
		if err != nil {
			return fmt.Errorf("error marshaling default config: %w", err)
		}

		if err := os.WriteFile(configFile, out, 0644); err != nil {
			return fmt.Errorf("error writing default config file: %w", err)
		}
		logger.Debug("Wrote default config to %s", configFile)
	}

	return loadConfigFile(configFile)
}

func loadConfigFile(configFile string) error {
	setDefaults()

	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config %s: %w", configFile, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	apply(cfg)
	return nil
}

func setDefaults() {
	viper.SetDefault("workers", DefaultConfig.Workers)
	viper.SetDefault("failure_policy", DefaultConfig.FailurePolicy)
	viper.SetDefault("missing_content", DefaultConfig.MissingContent)
	viper.SetDefault("log_level", DefaultConfig.LogLevel)
	viper.SetDefault("no_progress", DefaultConfig.NoProgress)
	viper.SetDefault("fetch_timeout_seconds", DefaultConfig.FetchTimeoutSeconds)
	viper.SetDefault("fetch_rate_per_minute", DefaultConfig.FetchRatePerMinute)
}

// Validate checks the enumerated and numeric settings.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}

	switch FailurePolicy(c.FailurePolicy) {
	case BestEffort, FailFast:
	default:
		return fmt.Errorf("unknown failure_policy %q (want %q or %q)", c.FailurePolicy, BestEffort, FailFast)
	}

	switch MissingContentPolicy(c.MissingContent) {
	case MissingContentEmpty, MissingContentPlaceholder, MissingContentSkip:
	default:
		return fmt.Errorf("unknown missing_content %q (want empty, placeholder or skip)", c.MissingContent)
	}

	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be > 0, got %d", c.FetchTimeoutSeconds)
	}
	if c.FetchRatePerMinute <= 0 {
		return fmt.Errorf("fetch_rate_per_minute must be > 0, got %d", c.FetchRatePerMinute)
	}
	return nil
}

func apply(cfg Config) {
	GlobalConfig = cfg

	Workers = cfg.Workers
	Failure = FailurePolicy(cfg.FailurePolicy)
	MissingContent = MissingContentPolicy(cfg.MissingContent)
	LogLevel = cfg.LogLevel
	NoProgress = cfg.NoProgress
	FetchTimeoutSeconds = cfg.FetchTimeoutSeconds
	FetchRatePerMinute = cfg.FetchRatePerMinute
}
