// Package config loads the findash client configuration from an optional
// YAML file, fills defaults, applies environment overrides, and validates
// the result.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the findash client.
type Config struct {
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
	Chart   Chart   `yaml:"chart"`
}

// Server locates the findash-server API.
type Server struct {
	BaseURL string `yaml:"base_url" default:"http://localhost:8000" validate:"required,url"`
}

// Storage holds paths for persisted client state.
type Storage struct {
	StatePath string `yaml:"state_path"`
}

// Logging configures the application logger. The TUI always logs to a file
// so log lines never corrupt the alternate screen.
type Logging struct {
	Level string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	File  string `yaml:"file"`
}

// Chart holds the startup chart configuration. Only the selected symbol is
// persisted between runs; these are the defaults everything else resets to.
type Chart struct {
	Range     string `yaml:"range" default:"1y" validate:"oneof=1mo 3mo 6mo 1y 2y 5y max"`
	Interval  string `yaml:"interval" default:"1d" validate:"oneof=1d 1wk 1mo"`
	Horizon   string `yaml:"horizon" default:"swing" validate:"oneof=day swing long"`
	ShowSMA20 bool   `yaml:"show_sma20" default:"true"`
	ShowSMA50 bool   `yaml:"show_sma50" default:"true"`
	ShowRSI   bool   `yaml:"show_rsi" default:"true"`
}

var validate = validator.New()

// Load builds the configuration: defaults first, then the YAML file at path
// (skipped when path is empty), then environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("setting defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Storage.StatePath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.Storage.StatePath = filepath.Join(home, ".findash", "state.json")
		} else {
			cfg.Storage.StatePath = filepath.Join(os.TempDir(), "findash-state.json")
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FINDASH_SERVER_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("FINDASH_STATE_PATH"); v != "" {
		cfg.Storage.StatePath = v
	}
	if v := os.Getenv("FINDASH_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
