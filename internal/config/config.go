// Package config loads defaults for the rune-analyze CLI from a YAML file.
// Flags always win over the file; the file wins over built-in defaults.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	runerrors "github.com/michkochris/rune-analyze/internal/errors"
)

// FileName is the config file looked up in the working directory and under
// the user config dir (e.g. ~/.config/rune-analyze/).
const FileName = "rune-analyze.yaml"

// Config holds CLI defaults loadable from a YAML file.
type Config struct {
	Verbosity int             `yaml:"verbosity,omitempty"`
	Format    string          `yaml:"format,omitempty"`
	SafeMode  bool            `yaml:"safe_mode,omitempty"`
	Triggers  []TriggerConfig `yaml:"triggers,omitempty"`
}

// TriggerConfig declares an extra trigger installed at session start. The
// callback logs the checkpoint at warn level; disabled triggers are
// registered but never fire until enabled.
type TriggerConfig struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Enabled *bool  `yaml:"enabled,omitempty"`
}

// Default returns the built-in defaults used when no file exists.
func Default() *Config {
	return &Config{
		Verbosity: 0,
		Format:    "human",
	}
}

// Load reads the config file at path. A missing file is not an error and
// yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, runerrors.Wrap(runerrors.ErrCodeFileReadFailed, "read config file: "+path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, runerrors.NewFileUnmarshalError(path, "yaml", err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover looks for the config file in the working directory first, then
// the user config dir. Returns defaults when neither exists.
func Discover() (*Config, error) {
	if _, err := os.Stat(FileName); err == nil {
		return Load(FileName)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return Default(), nil
	}
	return Load(filepath.Join(dir, "rune-analyze", FileName))
}

func (c *Config) validate(path string) error {
	switch c.Format {
	case "", "human", "json", "both":
	default:
		return runerrors.New(runerrors.ErrCodeConfigInvalid,
			"unknown format "+c.Format+" in "+path).
			WithSuggestion("Use one of: human, json, both")
	}
	for _, t := range c.Triggers {
		if t.Name == "" || t.Pattern == "" {
			return runerrors.New(runerrors.ErrCodeConfigInvalid,
				"trigger entries need both name and pattern in "+path)
		}
	}
	return nil
}
