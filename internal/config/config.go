// Package config holds labsim configuration: logging, display limits,
// hint and tier thresholds, and optional attempt persistence. Configuration
// is YAML on disk with environment overrides, merged over defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"labsim/internal/progress"
)

// Config is the full labsim configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Display DisplayConfig `yaml:"display"`
	Hints   HintsConfig   `yaml:"hints"`
	Tier    TierConfig    `yaml:"tier"`
	Store   StoreConfig   `yaml:"store"`
	Pack    PackConfig    `yaml:"pack"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`       // debug, info, warn, error
	Development bool   `yaml:"development"` // console encoder instead of JSON
}

// DisplayConfig configures help-text rendering limits.
type DisplayConfig struct {
	// OptionCap is the maximum number of options rendered in full before
	// the list is summarized with a "+N more" count.
	OptionCap int `yaml:"option_cap"`
}

// HintsConfig configures the graduated hint ladder.
type HintsConfig struct {
	Thresholds []progress.HintThreshold `yaml:"thresholds"`
}

// TierConfig configures tier unlocking.
type TierConfig struct {
	QuizPassScore float64 `yaml:"quiz_pass_score"`
}

// StoreConfig configures the optional attempt store.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// PackConfig configures extra on-disk definition packs.
type PackConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Display: DisplayConfig{OptionCap: 8},
		Hints:   HintsConfig{Thresholds: progress.DefaultHintThresholds},
		Tier:    TierConfig{QuizPassScore: progress.DefaultQuizPassScore},
		Store:   StoreConfig{Path: ".labsim/attempts.db"},
	}
}

// Load reads configuration from path, merged over defaults, then applies
// environment overrides. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.normalize()
	return cfg, nil
}

// applyEnvOverrides maps LABSIM_* environment variables onto the config.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LABSIM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LABSIM_PACK_DIR"); v != "" {
		c.Pack.Dir = v
	}
	if v := os.Getenv("LABSIM_STORE_PATH"); v != "" {
		c.Store.Path = v
		c.Store.Enabled = true
	}
	if v := os.Getenv("LABSIM_QUIZ_PASS_SCORE"); v != "" {
		if score, err := strconv.ParseFloat(v, 64); err == nil {
			c.Tier.QuizPassScore = score
		}
	}
}

// normalize repairs out-of-range values after merging.
func (c *Config) normalize() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Display.OptionCap <= 0 {
		c.Display.OptionCap = 8
	}
	if len(c.Hints.Thresholds) == 0 {
		c.Hints.Thresholds = progress.DefaultHintThresholds
	}
	if c.Tier.QuizPassScore <= 0 {
		c.Tier.QuizPassScore = progress.DefaultQuizPassScore
	}
}
