// Package config provides configuration loading for vimish-fold binaries.
//
// Configuration is loaded from a YAML file, then overridden by
// VIMISH_FOLD_* environment variables, with hardcoded defaults for
// anything left unset.
package config

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap/zapcore"

	"github.com/PythonNut/vimish-fold/internal/logging"
	"github.com/PythonNut/vimish-fold/pkg/fold"
)

// Config holds the complete vimish-fold configuration.
type Config struct {
	// StateDir is the directory persisted fold sets are written to.
	StateDir string `koanf:"state_dir"`

	// Fold configures fold placeholder, header width, and indication.
	Fold fold.Config `koanf:"fold"`

	// Exclude points at the persistence exclusion list.
	Exclude ExcludeConfig `koanf:"exclude"`

	// Logging configures the process logger.
	Logging logging.Config `koanf:"logging"`
}

// ExcludeConfig holds exclusion list configuration.
type ExcludeConfig struct {
	// File is the TOML exclusion list path. Empty disables exclusion;
	// a missing file is tolerated at load.
	File string `koanf:"file"`
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.StateDir == "" {
		return fmt.Errorf("state_dir cannot be empty")
	}
	if err := c.Fold.Validate(); err != nil {
		return fmt.Errorf("fold: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config, home string) {
	if cfg.StateDir == "" {
		cfg.StateDir = filepath.Join(home, ".config", "vimish-fold", "folds")
	}

	def := fold.DefaultConfig()
	if cfg.Fold.Placeholder == "" {
		cfg.Fold.Placeholder = def.Placeholder
	}
	if cfg.Fold.HeaderWidth == 0 {
		cfg.Fold.HeaderWidth = def.HeaderWidth
	}
	if cfg.Fold.Indication == "" {
		cfg.Fold.Indication = def.Indication
	}

	// An empty format means the logging section was never set.
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
		cfg.Logging.Caller.Enabled = true
		cfg.Logging.Stacktrace.Level = zapcore.ErrorLevel
	}
	if cfg.Logging.Fields == nil {
		cfg.Logging.Fields = map[string]string{"service": "vimish-fold"}
	}
}
