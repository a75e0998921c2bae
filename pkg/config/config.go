// Package config loads and saves the per-project seam configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/seam-cli/seam/pkg/filesystem"
	"github.com/seam-cli/seam/pkg/workspace"
)

const ConfigVersion = "1.0"

// Config is the per-project configuration stored in .seam/config.json.
// Zero values mean "unset"; Load backfills them with defaults.
type Config struct {
	Version string `json:"version"`

	// MaxHistoryEntries caps the history document; the oldest entries are
	// dropped past it. Negative disables the cap.
	MaxHistoryEntries int `json:"max_history_entries"`

	// Editor overrides $EDITOR for the review edit choice.
	Editor string `json:"editor,omitempty"`

	// SkipPrompt applies reviewable plans without asking, as if --yes were
	// always given.
	SkipPrompt bool `json:"skip_prompt,omitempty"`

	// SkipPreflight disables the filesystem checks run before review.
	SkipPreflight bool `json:"skip_preflight,omitempty"`
}

// NewConfig returns the defaults for a fresh project.
func NewConfig() *Config {
	return &Config{
		Version:           ConfigVersion,
		MaxHistoryEntries: 50,
	}
}

// HistoryCap translates the configured entry limit for the history store,
// where zero or negative means no cap.
func (c *Config) HistoryCap() int {
	if c.MaxHistoryEntries < 0 {
		return 0
	}
	return c.MaxHistoryEntries
}

// Load reads the project configuration, returning defaults when no config
// file exists yet.
func Load(root string) (*Config, error) {
	path := workspace.ConfigPath(root)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	def := NewConfig()
	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	if cfg.MaxHistoryEntries == 0 {
		cfg.MaxHistoryEntries = def.MaxHistoryEntries
	}
	return &cfg, nil
}

// Save writes the configuration into the project state directory.
func (c *Config) Save(root string) error {
	c.Version = ConfigVersion
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return filesystem.WriteFileWithDir(workspace.ConfigPath(root), data, 0600)
}

// Init ensures the state directory exists and that a config file is
// present, writing the defaults when there is none. It reports whether a
// new config was created.
func Init(root string) (*Config, bool, error) {
	if err := workspace.EnsureStateDir(root); err != nil {
		return nil, false, err
	}
	if filesystem.FileExists(workspace.ConfigPath(root)) {
		cfg, err := Load(root)
		return cfg, false, err
	}
	cfg := NewConfig()
	if err := cfg.Save(root); err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}
