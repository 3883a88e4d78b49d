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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/sieve/pkg/errors"
	"github.com/tombee/sieve/pkg/fatigue"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Views(t *testing.T) {
	path := writeConfig(t, `
views:
  noisy: 'severity <= "warning"'
  oncall: 'severity >= "high" && status == "firing"'
fatigue:
  window_minutes: 30
  span_hours: 12
  window_cap: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	expr, err := cfg.View("oncall")
	require.NoError(t, err)
	assert.Equal(t, `severity >= "high" && status == "firing"`, expr)

	_, err = cfg.View("missing")
	require.Error(t, err)
	var ce *errors.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "views.missing", ce.Key)

	assert.Equal(t, fatigue.Config{
		Window:    30 * time.Minute,
		Span:      12 * time.Hour,
		WindowCap: 5,
	}, cfg.Fatigue.ToScoring())
}

func TestLoad_RejectsBrokenViewExpression(t *testing.T) {
	path := writeConfig(t, `
views:
  broken: 'severity >>> bogus ((('
`)

	_, err := Load(path)
	require.Error(t, err)

	var ce *errors.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "views.broken", ce.Key)
}

func TestLoad_RejectsInvalidYAML(t *testing.T) {
	path := writeConfig(t, "views: [not: a: map")

	_, err := Load(path)
	require.Error(t, err)

	var ce *errors.ConfigError
	require.ErrorAs(t, err, &ce)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadDefault_NoFileIsEmptyConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Empty(t, cfg.Views)
}

func TestDefaultPath_UsesXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "sieve", "config.yaml"), DefaultPath())
}
