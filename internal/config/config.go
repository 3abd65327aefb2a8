// Package config loads hatchery host settings: defaults, then the config
// file, then HATCHERY_* environment overrides (env wins).
package config

import (
	"fmt"

	"github.com/strutlabs/hatchery"
)

// Config is the resolved configuration for hatchctl and for hosts that want
// file-driven spawn defaults.
type Config struct {
	// LogDir is where worker log files are written.
	LogDir string `yaml:"log_dir" mapstructure:"log_dir"`

	// ProcessLog is the path of the SQLite spawn bookkeeping database.
	ProcessLog string `yaml:"process_log" mapstructure:"process_log"`

	// ChannelMode is the default transport: "pipe" or "socket".
	ChannelMode string `yaml:"channel_mode" mapstructure:"channel_mode"`

	// LogMode is the default stdio policy: "truncate", "append" or "inherit".
	LogMode string `yaml:"log_mode" mapstructure:"log_mode"`
}

// Validate checks the enum fields.
func Validate(cfg *Config) error {
	if _, err := cfg.Mode(); err != nil {
		return err
	}
	if _, err := cfg.Stdio(); err != nil {
		return err
	}
	return nil
}

// Mode maps the configured channel mode onto the library's enum.
func (c *Config) Mode() (hatchery.ChannelMode, error) {
	switch c.ChannelMode {
	case "pipe":
		return hatchery.ModePipe, nil
	case "socket":
		return hatchery.ModeSocket, nil
	default:
		return 0, fmt.Errorf("invalid channel_mode %q (want pipe or socket)", c.ChannelMode)
	}
}

// Stdio maps the configured log mode onto the library's enum.
func (c *Config) Stdio() (hatchery.LogMode, error) {
	switch c.LogMode {
	case "truncate":
		return hatchery.LogModeTruncate, nil
	case "append":
		return hatchery.LogModeAppend, nil
	case "inherit":
		return hatchery.LogModeInherit, nil
	default:
		return 0, fmt.Errorf("invalid log_mode %q (want truncate, append or inherit)", c.LogMode)
	}
}
