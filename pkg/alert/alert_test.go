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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureID(t *testing.T) {
	a := Alert{Name: "HighCPUUsage"}
	id := a.EnsureID()
	require.NotEmpty(t, id)
	assert.Equal(t, id, a.ID)

	// A second call keeps the existing ID.
	assert.Equal(t, id, a.EnsureID())

	b := Alert{ID: "alert-1"}
	assert.Equal(t, "alert-1", b.EnsureID())
}

func TestStatusAndSeverityValidity(t *testing.T) {
	assert.True(t, StatusFiring.IsValid())
	assert.True(t, StatusSuppressed.IsValid())
	assert.False(t, Status("pending").IsValid())

	assert.True(t, SeverityCritical.IsValid())
	assert.True(t, SeverityLow.IsValid())
	assert.False(t, Severity("fatal").IsValid())
}

func TestRecord_Flattening(t *testing.T) {
	received := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	a := Alert{
		ID:           "alert-1",
		Name:         "HighCPUUsage",
		Status:       StatusFiring,
		Severity:     SeverityHigh,
		Source:       "prometheus",
		Message:      "High CPU usage",
		LastReceived: received,
		Labels:       map[string]string{"job": "node", "team": "infra"},
	}

	r := a.Record()
	assert.Equal(t, "firing", r["status"])
	assert.Equal(t, "high", r["severity"])
	assert.Equal(t, received, r["lastReceived"])
	assert.Equal(t, "node", r["labels.job"])
	assert.Equal(t, "infra", r["labels.team"])
	assert.Equal(t, map[string]string{"job": "node", "team": "infra"}, r["labels"])

	// Empty optional fields stay out of the record.
	empty := Alert{Name: "x"}.Record()
	assert.NotContains(t, empty, "lastReceived")
	assert.NotContains(t, empty, "labels")
}

func TestFilter(t *testing.T) {
	alerts := []Alert{
		{Name: "HighCPUUsage", Status: StatusFiring, Severity: SeverityCritical, Labels: map[string]string{"team": "infra"}},
		{Name: "DiskFull", Status: StatusResolved, Severity: SeverityWarning, Labels: map[string]string{"team": "infra"}},
		{Name: "SlowQueries", Status: StatusFiring, Severity: SeverityLow, Labels: map[string]string{"team": "db"}},
	}

	tests := []struct {
		name      string
		expr      string
		wantNames []string
	}{
		{
			name:      "empty expression keeps everything",
			expr:      "",
			wantNames: []string{"HighCPUUsage", "DiskFull", "SlowQueries"},
		},
		{
			name:      "status filter",
			expr:      `status == "firing"`,
			wantNames: []string{"HighCPUUsage", "SlowQueries"},
		},
		{
			name:      "severity ordering filter",
			expr:      `severity > "low"`,
			wantNames: []string{"HighCPUUsage", "DiskFull"},
		},
		{
			name:      "label filter",
			expr:      `labels.team == "infra" && status == "firing"`,
			wantNames: []string{"HighCPUUsage"},
		},
		{
			name:      "malformed expression keeps nothing",
			expr:      `status >>> bogus (((`,
			wantNames: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(alerts, tt.expr)
			var names []string
			for _, a := range got {
				names = append(names, a.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}
