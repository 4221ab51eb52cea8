// Package config loads CodeBank settings from .codebank.yaml and the
// environment via viper. Flags always override file values.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is the persisted CodeBank configuration.
type Config struct {
	// Strategy is the default generation strategy
	// (default, summary, no-tests).
	Strategy string `mapstructure:"strategy"`
	// Ignore adds glob patterns to the ignore rules.
	Ignore []string `mapstructure:"ignore"`
	// Verbose enables progress output.
	Verbose bool `mapstructure:"verbose"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{Strategy: "default"}
}

// Load reads .codebank.yaml from the working directory or $HOME. A missing
// file is not an error; a malformed one is.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".codebank")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.SetEnvPrefix("CODEBANK")
	v.AutomaticEnv()

	v.SetDefault("strategy", "default")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
