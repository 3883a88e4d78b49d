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

// Package eval implements the eval command: filter NDJSON alert records.
package eval

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/sieve/internal/cli"
	"github.com/tombee/sieve/internal/config"
	"github.com/tombee/sieve/internal/log"
	"github.com/tombee/sieve/pkg/alert"
	"github.com/tombee/sieve/pkg/errors"
	"github.com/tombee/sieve/pkg/fatigue"
	"github.com/tombee/sieve/pkg/filter"
)

// maxLineBytes bounds a single NDJSON record.
const maxLineBytes = 1 << 20

// NewCommand creates the eval command.
func NewCommand() *cobra.Command {
	var (
		inputPath   string
		viewName    string
		countOnly   bool
		showFatigue bool
	)

	cmd := &cobra.Command{
		Use:   "eval [expression]",
		Short: "Filter alert records with an expression",
		Long: `Eval reads alert records as NDJSON (one JSON object per line) and
prints the records matching the filter expression. With no expression
and no --view, every record matches.

Records that fail to decode are skipped with a warning; a matching
record is echoed to stdout as one JSON line.`,
		Example: `  # Filter a file of alerts
  sieve eval 'severity >= "high" && status == "firing"' -i alerts.ndjson

  # Filter stdin, count matches only
  cat alerts.ndjson | sieve eval 'message.contains("CPU")' --count

  # Use a saved view from the config file
  sieve eval --view oncall -i alerts.ndjson

  # Append the fatigue score of the matched set
  sieve eval 'severity > "warning"' -i alerts.ndjson --fatigue`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args, inputPath, viewName, countOnly, showFatigue)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "Input file of NDJSON alert records (- for stdin)")
	cmd.Flags().StringVar(&viewName, "view", "", "Use a saved view from the config file")
	cmd.Flags().BoolVar(&countOnly, "count", false, "Print only the number of matching records")
	cmd.Flags().BoolVar(&showFatigue, "fatigue", false, "Print the fatigue score of the matched set")

	return cmd
}

func runEval(cmd *cobra.Command, args []string, inputPath, viewName string, countOnly, showFatigue bool) error {
	logger := log.WithComponent(cli.NewLogger(), "eval")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	expression, err := resolveExpression(args, viewName, cfg)
	if err != nil {
		return err
	}

	// Compile up front so the user sees a positioned parse error instead
	// of silently empty output.
	program, err := filter.Compile(expression)
	if err != nil {
		return errors.Wrap(err, "invalid filter expression")
	}

	in, closeIn, err := openInput(cmd, inputPath)
	if err != nil {
		return err
	}
	defer closeIn()

	start := time.Now()
	total, matched, err := filterRecords(cmd, in, program, logger, countOnly)
	if err != nil {
		return err
	}

	logger.Debug("filtered alerts",
		log.ExpressionKey, expression,
		log.AlertCountKey, total,
		log.MatchCountKey, len(matched),
		log.DurationKey, time.Since(start).Milliseconds(),
	)

	out := cmd.OutOrStdout()
	if countOnly {
		fmt.Fprintln(out, len(matched))
	}
	if showFatigue {
		score := fatigue.Score(matched, time.Now(), cfg.Fatigue.ToScoring())
		fmt.Fprintf(out, "fatigue: %d\n", score)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if path := cli.Options().ConfigPath; path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

func resolveExpression(args []string, viewName string, cfg *config.Config) (string, error) {
	if viewName != "" {
		if len(args) > 0 {
			return "", &errors.ValidationError{
				Field:      "view",
				Message:    "cannot combine --view with an inline expression",
				Suggestion: "pass either an expression argument or --view, not both",
			}
		}
		return cfg.View(viewName)
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return "", nil // match everything
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening input %s", path)
	}
	return f, func() { f.Close() }, nil
}

// filterRecords streams records through the program. Matching records are
// echoed immediately unless countOnly is set; all matches are also
// collected for the fatigue score.
func filterRecords(cmd *cobra.Command, in io.Reader, program *filter.Program, logger *slog.Logger, countOnly bool) (total int, matched []alert.Alert, err error) {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		total++

		var a alert.Alert
		if err := json.Unmarshal(raw, &a); err != nil {
			logger.Warn("skipping undecodable record", "line", line, "error", err.Error())
			continue
		}
		a.EnsureID()

		if !program.Eval(a.Record()) {
			continue
		}
		matched = append(matched, a)
		if !countOnly {
			encoded, err := json.Marshal(a)
			if err != nil {
				return total, matched, errors.Wrapf(err, "encoding record at line %d", line)
			}
			fmt.Fprintln(out, string(encoded))
		}
	}
	if err := scanner.Err(); err != nil {
		return total, matched, errors.Wrap(err, "reading records")
	}
	return total, matched, nil
}
