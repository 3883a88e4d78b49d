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

// Package alert defines the alert model that filter expressions are
// evaluated against.
package alert

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an alert.
type Status string

const (
	StatusFiring       Status = "firing"
	StatusResolved     Status = "resolved"
	StatusAcknowledged Status = "acknowledged"
	StatusSuppressed   Status = "suppressed"
)

// IsValid reports whether the status is one of the known states.
func (s Status) IsValid() bool {
	switch s {
	case StatusFiring, StatusResolved, StatusAcknowledged, StatusSuppressed:
		return true
	}
	return false
}

// Severity is the symbolic severity level of an alert. The ordering of
// levels is owned by the filter package; here they are plain names.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// IsValid reports whether the severity is one of the known levels.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityInfo, SeverityWarning, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Alert is a single alert row as displayed by the console.
type Alert struct {
	// ID uniquely identifies the alert instance. Assigned on ingest when
	// the source did not provide one.
	ID string `json:"id"`

	// Name is the alert rule name (e.g. "HighCPUUsage").
	Name string `json:"name"`

	// Status is the lifecycle state (firing, resolved, ...).
	Status Status `json:"status"`

	// Severity is the symbolic severity level.
	Severity Severity `json:"severity"`

	// Source is the provider the alert came from (e.g. "prometheus").
	Source string `json:"source,omitempty"`

	// Environment and Service locate the alert in the deployment.
	Environment string `json:"environment,omitempty"`
	Service     string `json:"service,omitempty"`

	// Message is the short human-readable summary.
	Message string `json:"message,omitempty"`

	// Description is the longer annotation text.
	Description string `json:"description,omitempty"`

	// Fingerprint groups instances of the same underlying alert.
	Fingerprint string `json:"fingerprint,omitempty"`

	// LastReceived is when the most recent instance arrived.
	LastReceived time.Time `json:"lastReceived,omitempty"`

	// Labels carries provider labels (e.g. job, team, region).
	Labels map[string]string `json:"labels,omitempty"`
}

// EnsureID assigns a fresh UUID when the alert has no ID yet and returns it.
func (a *Alert) EnsureID() string {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return a.ID
}
