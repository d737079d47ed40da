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

import "log/slog"

// WithFallback configures the fallback delegate invoked when resolution
// misses and no catch-all covers the path. The delegate receives the raw
// incoming request unchanged through the context.
//
// Example:
//
//	r := dispatch.New(dispatch.WithFallback(func(c *dispatch.Context) {
//	    legacy.Serve(c)
//	}))
func WithFallback(fallback Hook) Option {
	return func(r *Router) {
		r.fallback = fallback
	}
}

// WithObservability sets the unified observability recorder used for
// metrics, tracing, and per-request loggers. Pass nil to disable.
//
// Example:
//
//	rec, _ := telemetry.New(telemetry.WithPrometheus())
//	r := dispatch.New(dispatch.WithObservability(rec))
func WithObservability(recorder ObservabilityRecorder) Option {
	return func(r *Router) {
		r.observability = recorder
	}
}

// WithDiagnostics sets a diagnostic handler for registration and dispatch
// anomalies. The engine behaves identically whether diagnostics are
// collected or not.
//
// Example:
//
//	handler := dispatch.DiagnosticHandlerFunc(func(e dispatch.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := dispatch.New(dispatch.WithDiagnostics(handler))
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = handler
	}
}

// WithLogger sets the logger handed to hooks when no observability
// recorder is configured. Without it, Context.Logger returns a no-op
// logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}
