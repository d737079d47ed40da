// Copyright 2025 The Rivaas Authors
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

package dispatch

// DiagnosticEvent represents a registration or dispatch anomaly.
// These are informational events that may indicate configuration issues.
//
// Diagnostic events are optional - the engine functions correctly whether
// they are collected or not.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// DiagRouteReplaced fires when a registration overwrites an existing
	// (method, path) key.
	DiagRouteReplaced DiagnosticKind = "route_replaced"

	// DiagPatternOverlap fires when two same-method pattern routes could
	// match the same concrete path, making resolution order-dependent.
	DiagPatternOverlap DiagnosticKind = "pattern_overlap"

	// DiagUnmatchedFault fires when a fault found no rescue hook and was
	// re-raised to the dispatch caller.
	DiagUnmatchedFault DiagnosticKind = "unmatched_fault"
)

// DiagnosticHandler receives diagnostic events from the engine.
// Implementations may log, emit metrics, trace events, or ignore them.
//
// Example with logging:
//
//	import "log/slog"
//
//	handler := dispatch.DiagnosticHandlerFunc(func(e dispatch.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := dispatch.MustNew(dispatch.WithDiagnostics(handler))
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}
