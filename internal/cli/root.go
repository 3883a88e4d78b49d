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

// Package cli assembles the root command and shared CLI state.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tombee/sieve/internal/log"
)

// Version information (injected via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// SetVersion sets the version information (called from main).
func SetVersion(v, c, b string) {
	version, commit, buildDate = v, c, b
}

// GetVersion returns version information.
func GetVersion() (string, string, string) {
	return version, commit, buildDate
}

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	LogLevel   string
	LogFormat  string
	ConfigPath string
}

var globalOptions GlobalOptions

// Options returns the parsed persistent flags.
func Options() *GlobalOptions {
	return &globalOptions
}

// NewRootCommand creates the root Cobra command for sieve.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sieve",
		Short: "Sieve - alert filter expressions",
		Long: `Sieve evaluates alert filter expressions against alert records.

The filter language supports comparisons (==, !=, <, <=, >, >=),
containment (message.contains("CPU")), membership (status in [firing]),
and boolean combinators (&&, ||) with parentheses. Comparisons on the
severity field are ordered over low < info < warning < high < critical.

Run 'sieve check' to validate an expression.
Run 'sieve eval' to filter alert records read as NDJSON.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
	}

	cmd.PersistentFlags().StringVar(&globalOptions.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&globalOptions.LogFormat, "log-format", "", "Log format (json, text)")
	cmd.PersistentFlags().StringVar(&globalOptions.ConfigPath, "config", "", "Path to config file (default: ~/.config/sieve/config.yaml)")

	return cmd
}

// NewLogger builds the logger from the environment, overridden by the
// persistent flags when set.
func NewLogger() *slog.Logger {
	cfg := log.FromEnv()
	if globalOptions.LogLevel != "" {
		cfg.Level = globalOptions.LogLevel
	}
	if globalOptions.LogFormat != "" {
		cfg.Format = log.Format(globalOptions.LogFormat)
	}
	return log.New(cfg)
}
