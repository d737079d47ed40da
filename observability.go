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

import (
	"context"
	"log/slog"
)

// ObservabilityRecorder provides unified observability lifecycle hooks for
// dispatches. Implementations typically combine metrics collection,
// distributed tracing, and access logging.
//
// Lifecycle:
//  1. The engine calls OnDispatchStart(ctx, req) → (enrichedCtx, state)
//     before resolution. The enriched context flows into every hook via
//     Context.Context; the state token is opaque to the engine.
//  2. BuildLogger is called once the route pattern is known; the returned
//     logger becomes Context.Logger for the rest of the dispatch.
//  3. OnDispatchEnd is called with the final response description, ONLY
//     IF state != nil. Returning nil state from OnDispatchStart excludes
//     the dispatch (e.g. health checks) from metrics and access logs
//     while keeping context enrichment.
//
// routePattern is the matched template (e.g. "/users/{id}") or a sentinel
// like "_not_found"; implementations should record it instead of the raw
// path to prevent cardinality explosion.
//
// Thread safety: all methods must be safe for concurrent use.
type ObservabilityRecorder interface {
	// OnDispatchStart is called before route resolution.
	OnDispatchStart(ctx context.Context, req *Request) (context.Context, any)

	// BuildLogger returns the request-scoped logger for this dispatch.
	// Return NoopLogger() to disable per-request logging.
	BuildLogger(ctx context.Context, req *Request, routePattern string) *slog.Logger

	// OnDispatchEnd is called after the pipeline finishes, with the final
	// response description. Not called when state is nil.
	OnDispatchEnd(ctx context.Context, state any, res *Response, routePattern string)
}

// Sentinel route patterns reported to observability when resolution
// missed or ended abnormally.
const (
	PatternNotFound = "_not_found"
	PatternFallback = "_fallback"
)
