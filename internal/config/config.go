// Package config loads gitlet settings from YAML: a global file under Dir()
// overlaid by the repository's own config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/systemshift/gitlet/internal/dag"
)

// FileName is the configuration file name, both globally and per repository.
const FileName = "config.yaml"

const (
	DefaultBranch     = "master"
	DefaultDateFormat = "Mon Jan 2 15:04:05 2006 -0700"
)

// Config is the merged configuration.
type Config struct {
	Init InitConfig `yaml:"init,omitempty"`
	Log  LogConfig  `yaml:"log,omitempty"`
}

// InitConfig applies when a repository is created.
type InitConfig struct {
	DefaultBranch string `yaml:"default_branch,omitempty"`
}

// LogConfig controls how commit dates are rendered.
type LogConfig struct {
	DateFormat string `yaml:"date_format,omitempty"`
	UTC        bool   `yaml:"utc,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Init: InitConfig{DefaultBranch: DefaultBranch},
		Log:  LogConfig{DateFormat: DefaultDateFormat},
	}
}

// Load returns the defaults overlaid by the global config file and then by
// the one in repoDir. Missing files are skipped; repoDir may be empty.
func Load(repoDir string) (*Config, error) {
	cfg := Default()
	paths := []string{}
	if dir := Dir(); dir != "" {
		paths = append(paths, filepath.Join(dir, FileName))
	}
	if repoDir != "" {
		paths = append(paths, filepath.Join(repoDir, FileName))
	}
	for _, p := range paths {
		if err := cfg.overlay(p); err != nil {
			return nil, err
		}
	}
	cfg.fillDefaults()
	return cfg, nil
}

// overlay decodes path on top of c; fields absent from the file keep their
// current values.
func (c *Config) overlay(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) fillDefaults() {
	if c.Init.DefaultBranch == "" {
		c.Init.DefaultBranch = DefaultBranch
	}
	if c.Log.DateFormat == "" {
		c.Log.DateFormat = DefaultDateFormat
	}
}

// Save writes c as YAML to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := dag.SafeWrite(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Location is the time zone log dates are shown in.
func (c *Config) Location() *time.Location {
	if c.Log.UTC {
		return time.UTC
	}
	return time.Local
}
