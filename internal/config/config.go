// Copyright 2025 Tom Barlow
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

// Package config loads the sieve CLI configuration file.
//
// The file is YAML and currently holds saved views: named filter
// expressions the eval command can reference with --view. Example:
//
//	views:
//	  noisy: 'severity <= "warning"'
//	  oncall: 'severity >= "high" && status == "firing"'
//	fatigue:
//	  window_minutes: 60
//	  span_hours: 24
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tombee/sieve/pkg/errors"
	"github.com/tombee/sieve/pkg/fatigue"
	"github.com/tombee/sieve/pkg/filter"
)

// Config is the parsed configuration file.
type Config struct {
	// Views maps view names to filter expressions.
	Views map[string]string `yaml:"views"`

	// Fatigue tunes the fatigue score bucketing.
	Fatigue FatigueConfig `yaml:"fatigue"`
}

// FatigueConfig mirrors fatigue.Config in file-friendly units.
type FatigueConfig struct {
	WindowMinutes int `yaml:"window_minutes"`
	SpanHours     int `yaml:"span_hours"`
	WindowCap     int `yaml:"window_cap"`
}

// ToScoring converts the file representation to a fatigue.Config.
// Zero fields fall through to the fatigue package defaults.
func (f FatigueConfig) ToScoring() fatigue.Config {
	return fatigue.Config{
		Window:    time.Duration(f.WindowMinutes) * time.Minute,
		Span:      time.Duration(f.SpanHours) * time.Hour,
		WindowCap: f.WindowCap,
	}
}

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/sieve/config.yaml or ~/.config/sieve/config.yaml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "sieve", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sieve", "config.yaml")
}

// Load reads and validates a config file. A missing file at the default
// location is not an error; LoadDefault handles that case.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.ConfigError{Reason: "cannot read config file", Cause: err}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &errors.ConfigError{Reason: "invalid YAML", Cause: err}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault loads the config file from the default path, returning an
// empty config when none exists.
func LoadDefault() (*Config, error) {
	path := DefaultPath()
	if path == "" {
		return &Config{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return Load(path)
}

// View resolves a saved view name to its expression.
func (c *Config) View(name string) (string, error) {
	expr, ok := c.Views[name]
	if !ok {
		return "", &errors.ConfigError{
			Key:    "views." + name,
			Reason: "no such view",
		}
	}
	return expr, nil
}

// validate compiles every view expression so that broken saved views are
// reported at load time instead of silently matching nothing.
func (c *Config) validate() error {
	for name, expr := range c.Views {
		if _, err := filter.Compile(expr); err != nil {
			return &errors.ConfigError{
				Key:    "views." + name,
				Reason: fmt.Sprintf("expression does not parse: %v", err),
				Cause:  err,
			}
		}
	}
	return nil
}
