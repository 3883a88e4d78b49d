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

package fatigue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tombee/sieve/pkg/alert"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// burst returns n alerts received at the given offset before now.
func burst(n int, before time.Duration) []alert.Alert {
	alerts := make([]alert.Alert, n)
	for i := range alerts {
		alerts[i] = alert.Alert{Name: "Noisy", LastReceived: now.Add(-before)}
	}
	return alerts
}

func TestScore_NoAlerts(t *testing.T) {
	assert.Equal(t, 0, Score(nil, now, Config{}))
	assert.Equal(t, 0, Score([]alert.Alert{}, now, Config{}))
}

func TestScore_IgnoresAlertsOutsideSpan(t *testing.T) {
	cfg := Config{Window: time.Hour, Span: 4 * time.Hour, WindowCap: 1}

	old := burst(5, 6*time.Hour)
	assert.Equal(t, 0, Score(old, now, cfg))

	var noTimestamp []alert.Alert
	noTimestamp = append(noTimestamp, alert.Alert{Name: "NoTimestamp"})
	assert.Equal(t, 0, Score(noTimestamp, now, cfg))

	future := burst(3, -time.Hour)
	assert.Equal(t, 0, Score(future, now, cfg))
}

func TestScore_SaturatedEveryWindow(t *testing.T) {
	cfg := Config{Window: time.Hour, Span: 4 * time.Hour, WindowCap: 2}

	var alerts []alert.Alert
	for w := 0; w < 4; w++ {
		alerts = append(alerts, burst(2, time.Duration(w)*time.Hour+30*time.Minute)...)
	}
	assert.Equal(t, 100, Score(alerts, now, cfg))

	// Extra volume in a window cannot push the score past 100.
	alerts = append(alerts, burst(10, 90*time.Minute)...)
	assert.Equal(t, 100, Score(alerts, now, cfg))
}

func TestScore_PartialLoad(t *testing.T) {
	cfg := Config{Window: time.Hour, Span: 4 * time.Hour, WindowCap: 2}

	// Two of four windows saturated, the others empty.
	var alerts []alert.Alert
	alerts = append(alerts, burst(2, 30*time.Minute)...)
	alerts = append(alerts, burst(2, 90*time.Minute)...)
	assert.Equal(t, 50, Score(alerts, now, cfg))

	// One window at half its cap.
	assert.Equal(t, 13, Score(burst(1, 30*time.Minute), now, cfg))
}

func TestScore_DefaultsApplied(t *testing.T) {
	// 24 windows of an hour, cap 10: a single saturated window contributes
	// 1/24 of the total.
	score := Score(burst(10, 30*time.Minute), now, Config{})
	assert.Equal(t, 4, score)
}

func TestScore_Deterministic(t *testing.T) {
	alerts := append(burst(3, time.Hour), burst(7, 3*time.Hour)...)
	cfg := Config{Window: time.Hour, Span: 6 * time.Hour, WindowCap: 5}

	first := Score(alerts, now, cfg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(alerts, now, cfg))
	}
}
