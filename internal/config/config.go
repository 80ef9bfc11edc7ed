// Copyright 2026 Sebastian Rodriguez
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// RepoFileName is the per-repository config file, looked up at the
// repository root before falling back to the user config.
const RepoFileName = ".lazytag.yaml"

// Config represents the complete LazyTag configuration.
type Config struct {
	// Column is the target start column for inserted tag comments.
	// Default: 80
	Column int `yaml:"column,omitempty"`

	// Include restricts tagging to staged paths matching any of these
	// doublestar patterns. Empty means all supported files.
	Include []string `yaml:"include,omitempty"`

	// Exclude removes matching staged paths from tagging. Exclusion wins
	// over inclusion.
	Exclude []string `yaml:"exclude,omitempty"`

	// Languages adds extension → comment-token entries on top of the
	// built-in table, e.g. {"lua": "--"}. Extensions are matched
	// case-insensitively.
	Languages map[string]string `yaml:"languages,omitempty"`

	History HistoryConfig `yaml:"history,omitempty"`
	Log     LogConfig     `yaml:"log,omitempty"`
}

// HistoryConfig configures the local tagging-history store.
type HistoryConfig struct {
	// Disabled turns off history recording entirely.
	Disabled bool `yaml:"disabled,omitempty"`

	// Path overrides the database location.
	// Default: <git-dir>/lazytag/history.db
	Path string `yaml:"path,omitempty"`
}

// LogConfig configures logging. Environment variables take precedence.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{Column: 80}
}

// Load reads and validates a config file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.Column <= 0 {
		cfg.Column = 80
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find locates the active config file: the repository-level .lazytag.yaml if
// present, otherwise the user-level config. The returned path may not exist;
// Load treats that as defaults.
func Find(repoRoot string) (string, error) {
	if repoRoot != "" {
		repoCfg := filepath.Join(repoRoot, RepoFileName)
		if _, err := os.Stat(repoCfg); err == nil {
			return repoCfg, nil
		}
	}
	return Path()
}

// Validate checks the configuration for structural problems. These are hard
// errors the user must fix before tagging can run.
func (c *Config) Validate() error {
	for _, pattern := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: bad glob pattern %q", ErrInvalidConfig, pattern)
		}
	}

	for ext, token := range c.Languages {
		if strings.TrimPrefix(ext, ".") == "" {
			return fmt.Errorf("%w: empty language extension", ErrInvalidConfig)
		}
		if token == "" || strings.ContainsAny(token, " \t") {
			return fmt.Errorf("%w: bad comment token %q for extension %q", ErrInvalidConfig, token, ext)
		}
	}

	return nil
}

// Selects reports whether a staged path passes the include/exclude filters.
// Paths are matched as given by git: relative to the repository root, with
// forward slashes.
func (c *Config) Selects(path string) bool {
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return false
		}
	}
	if len(c.Include) == 0 {
		return true
	}
	for _, pattern := range c.Include {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
