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

package filter

import (
	"math"
	"strconv"
	"strings"
)

// SeverityField is the record field whose comparisons are ordered over the
// symbolic severity levels instead of compared as plain strings.
const SeverityField = "severity"

// severityLevels is the fixed total order of severity level names,
// ascending. Index+1 is the level's rank.
var severityLevels = []string{"low", "info", "warning", "high", "critical"}

// severityRanks is the inverse mapping, level name to rank.
// Kept consistent with severityLevels by init.
var severityRanks = map[string]int{}

func init() {
	for i, name := range severityLevels {
		severityRanks[name] = i + 1
	}
}

// Severities returns the severity level names in ascending order of rank.
func Severities() []string {
	out := make([]string, len(severityLevels))
	copy(out, severityLevels)
	return out
}

// SeverityRank returns the rank of a severity level name (1 is lowest).
// The lookup is case-insensitive. ok is false for unknown names.
func SeverityRank(name string) (rank int, ok bool) {
	rank, ok = severityRanks[strings.ToLower(name)]
	return rank, ok
}

// SeverityName returns the level name for a rank.
// ok is false for ranks outside the level set.
func SeverityName(rank int) (name string, ok bool) {
	if rank < 1 || rank > len(severityLevels) {
		return "", false
	}
	return severityLevels[rank-1], true
}

// severityRankOfValue resolves a record value to a severity rank. Accepts
// level names, integral numbers, and integral numeric strings.
func severityRankOfValue(v interface{}) (int, bool) {
	switch val := v.(type) {
	case string:
		if rank, ok := SeverityRank(val); ok {
			return rank, true
		}
		return severityRankOfNumeric(val)
	default:
		if f, ok := toFloat(v); ok {
			return severityRankOfFloat(f)
		}
		return 0, false
	}
}

// severityRankOfLiteral resolves an expression literal to a severity rank.
func severityRankOfLiteral(lit Literal) (int, bool) {
	switch lit.Kind {
	case LiteralString:
		if rank, ok := SeverityRank(lit.Str); ok {
			return rank, true
		}
		return severityRankOfNumeric(lit.Str)
	case LiteralNumber:
		return severityRankOfFloat(lit.Num)
	default:
		return 0, false
	}
}

func severityRankOfNumeric(s string) (int, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return severityRankOfFloat(f)
}

func severityRankOfFloat(f float64) (int, bool) {
	if f != math.Trunc(f) {
		return 0, false
	}
	if _, ok := SeverityName(int(f)); !ok {
		return 0, false
	}
	return int(f), true
}
