// Package config provides configuration management for the risk engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"quantrisk/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// EngineConfig holds simulation configuration.
type EngineConfig struct {
	Paths              int     `mapstructure:"paths"`
	Seed               uint64  `mapstructure:"seed"`
	CorrelationSubstep int     `mapstructure:"correlation_substep"`
	PathSubstep        float64 `mapstructure:"path_substep"`
}

// StoreConfig holds run-store configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// DefaultConfigDir returns the configuration directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quantrisk"
	}
	return filepath.Join(home, ".config", "quantrisk")
}

// Default returns the default configuration.
func Default() *Config {
	dir := DefaultConfigDir()
	return &Config{
		Engine: EngineConfig{
			Paths:              100000,
			Seed:               42,
			CorrelationSubstep: 20,
			PathSubstep:        0.01,
		},
		Store: StoreConfig{
			Path: filepath.Join(dir, "runs.db"),
		},
		Logging: LoggingConfig{
			Level:    "info",
			Console:  true,
			File:     false,
			FilePath: filepath.Join(dir, "logs", "quantrisk.log"),
		},
	}
}

// Load reads configuration from the config file and environment,
// falling back to defaults. A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(DefaultConfigDir())
	v.AddConfigPath(".")
	v.SetEnvPrefix("QUANTRISK")
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("engine.paths", defaults.Engine.Paths)
	v.SetDefault("engine.seed", defaults.Engine.Seed)
	v.SetDefault("engine.correlation_substep", defaults.Engine.CorrelationSubstep)
	v.SetDefault("engine.path_substep", defaults.Engine.PathSubstep)
	v.SetDefault("store.path", defaults.Store.Path)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.console", defaults.Logging.Console)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.file_path", defaults.Logging.FilePath)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Engine.Paths <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "engine.paths must be positive, got %d", c.Engine.Paths)
	}
	if c.Engine.PathSubstep < 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "engine.path_substep must not be negative, got %g", c.Engine.PathSubstep)
	}
	if c.Engine.CorrelationSubstep < 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "engine.correlation_substep must not be negative, got %d", c.Engine.CorrelationSubstep)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown logging.level %q", errors.ErrConfigInvalid, c.Logging.Level)
	}
	return nil
}
