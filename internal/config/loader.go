package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	configDir string
}

// NewLoader creates a loader that reads config.yaml from configDir. An empty
// configDir means ~/.hatchery.
func NewLoader(configDir string) Loader {
	return &loader{configDir: configDir}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (HATCHERY_*)
// 2. Config file (config.yaml in the config directory)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := l.configDir
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".hatchery")
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("HATCHERY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("log_dir")
	v.BindEnv("process_log")
	v.BindEnv("channel_mode")
	v.BindEnv("log_mode")

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("log_dir", filepath.Join(configDir, "logs"))
	v.SetDefault("process_log", filepath.Join(configDir, "spawns.db"))
	v.SetDefault("channel_mode", "pipe")
	v.SetDefault("log_mode", "truncate")
}
