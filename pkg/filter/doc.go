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

// Package filter compiles and evaluates alert filter expressions.
//
// The expression language is a restricted CEL-like boolean syntax used for
// client-side row filtering. Expressions support:
//
//   - Comparisons: ==, !=, <, <=, >, >=
//   - Containment: message.contains("CPU") or message contains "CPU"
//   - Membership: status in [firing, resolved]
//   - Boolean logic: && and ||, grouped with parentheses
//
// Example expressions:
//
//	severity == "high" && status == "firing"
//	message.contains("disk") || labels.team == "infra"
//	severity > "warning"
//	status in [firing, acknowledged]
//
// Comparisons against the severity field are ordered over the fixed level
// set low < info < warning < high < critical rather than compared as plain
// strings; a literal outside that set degrades to a plain comparison.
//
// Expressions are parsed to an AST and interpreted against a Record; there is
// no dynamic code generation. The public Match entry points are fail-closed:
// an empty expression matches every record, and a malformed expression never
// panics or returns an error, it simply matches nothing.
//
// The Evaluator caches compiled expressions for performance.
package filter
