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

// Package fatigue scores alert volume over a lookback span.
//
// The span is divided into fixed windows, each alert is bucketed by its
// LastReceived timestamp, and each window contributes up to its cap. The
// result is a 0-100 score: 0 means no recent alerts, 100 means every
// window was saturated.
package fatigue

import (
	"math"
	"time"

	"github.com/tombee/sieve/pkg/alert"
)

// Default bucketing parameters.
const (
	DefaultWindow    = time.Hour
	DefaultSpan      = 24 * time.Hour
	DefaultWindowCap = 10
)

// Config controls the bucketing. The zero value uses the defaults.
type Config struct {
	// Window is the bucket width.
	Window time.Duration

	// Span is the lookback period ending at the reference time. Alerts
	// older than the span are ignored.
	Span time.Duration

	// WindowCap is the alert count at which a single window saturates.
	WindowCap int
}

func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.Span <= 0 {
		c.Span = DefaultSpan
	}
	if c.Span < c.Window {
		c.Span = c.Window
	}
	if c.WindowCap <= 0 {
		c.WindowCap = DefaultWindowCap
	}
	return c
}

// Score computes the fatigue score of the given alerts at the reference
// time now. Alerts with a zero LastReceived, or received outside
// (now-span, now], do not count. Pure and deterministic.
func Score(alerts []alert.Alert, now time.Time, cfg Config) int {
	cfg = cfg.withDefaults()

	windows := int(cfg.Span / cfg.Window)
	if windows == 0 {
		windows = 1
	}
	counts := make([]int, windows)

	start := now.Add(-cfg.Span)
	for _, a := range alerts {
		received := a.LastReceived
		if received.IsZero() || !received.After(start) || received.After(now) {
			continue
		}
		bucket := int(received.Sub(start) / cfg.Window)
		if bucket >= windows {
			bucket = windows - 1 // received == now lands on the edge
		}
		counts[bucket]++
	}

	var load float64
	for _, count := range counts {
		if count > cfg.WindowCap {
			count = cfg.WindowCap
		}
		load += float64(count) / float64(cfg.WindowCap)
	}
	return int(math.Round(100 * load / float64(windows)))
}
