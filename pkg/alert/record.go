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

package alert

import (
	"github.com/tombee/sieve/pkg/filter"
)

// Record flattens the alert into the field mapping that filter expressions
// evaluate against. Labels are exposed both as a nested map and as
// flattened labels.<key> fields, so either lookup path works.
//
// Flattening is the caller's responsibility by contract; the filter engine
// itself only resolves the fields it is handed.
func (a Alert) Record() filter.Record {
	r := filter.Record{
		"id":          a.ID,
		"name":        a.Name,
		"status":      string(a.Status),
		"severity":    string(a.Severity),
		"source":      a.Source,
		"environment": a.Environment,
		"service":     a.Service,
		"message":     a.Message,
		"description": a.Description,
		"fingerprint": a.Fingerprint,
	}
	if !a.LastReceived.IsZero() {
		r["lastReceived"] = a.LastReceived
	}
	if len(a.Labels) > 0 {
		r["labels"] = a.Labels
		for k, v := range a.Labels {
			r["labels."+k] = v
		}
	}
	return r
}

// Filter returns the alerts matching the expression, using the fail-closed
// contract of filter.Match: an empty expression keeps everything, a
// malformed one keeps nothing.
func Filter(alerts []Alert, expression string) []Alert {
	eval := filter.New()
	var out []Alert
	for _, a := range alerts {
		if eval.Match(expression, a.Record()) {
			out = append(out, a)
		}
	}
	return out
}
