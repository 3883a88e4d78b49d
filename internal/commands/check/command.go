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

// Package check implements the check command: parse-only validation of a
// filter expression.
package check

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/sieve/pkg/errors"
	"github.com/tombee/sieve/pkg/filter"
)

// NewCommand creates the check command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <expression>",
		Short: "Validate a filter expression",
		Long: `Check parses a filter expression and reports the first syntax error
with its position. It does not evaluate anything.

Note that the eval command is fail-closed: a malformed expression
silently matches nothing. Check is the way to find out why.`,
		Example: `  sieve check 'severity >= "high" && status == "firing"'
  sieve check 'status in [firing, resolved]'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0])
		},
	}
	return cmd
}

func runCheck(cmd *cobra.Command, expression string) error {
	out := cmd.OutOrStdout()

	if _, err := filter.Compile(expression); err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			// Point at the offending position.
			fmt.Fprintln(out, expression)
			fmt.Fprintln(out, strings.Repeat(" ", pe.Offset)+"^")
		}
		return err
	}

	if expression == "" {
		fmt.Fprintln(out, "ok (empty expression matches everything)")
		return nil
	}
	fmt.Fprintln(out, "ok")
	return nil
}
