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

// Package dispatch provides a request-routing and lifecycle-orchestration
// engine for JSON APIs.
//
// The engine maps an incoming (method, path) pair to a registered Endpoint
// through a hierarchical route table, then executes a precisely ordered
// chain of lifecycle hooks around the terminal handler: global around hooks
// wrap everything, global before hooks run first, then metadata and before
// hooks across the matched path hierarchy (shallow to deep), the handler,
// after hooks (deep to shallow), and finally global after hooks.
//
// # Key Features
//
//   - Exact and pattern-based route resolution with {name} placeholders
//   - Path-prefix hierarchies: a parent registration contributes its hooks
//     to every descendant route automatically
//   - Catch-all endpoints matching every HTTP method at a path prefix
//   - Halt: a control-flow signal that ends the pipeline immediately with
//     the current response
//   - Fault dispatch: nearest-ancestor recovery by declared fault kind
//   - Shared per-request metadata threaded through every stage
//   - Structured logging via log/slog and OpenTelemetry span accessors
//
// # Execution Model
//
// One Dispatch call processes one request synchronously from start to
// finish. The engine performs no network I/O of its own; the ServeHTTP
// adapter bridges it to net/http for hosts that want the engine to sit
// directly behind a server.
//
// Routes and global hooks must be fully registered before the first
// dispatch. Registration is not synchronized against in-flight requests;
// rebuild the table only at startup or in test setup.
//
// # Quick Start
//
//	r := dispatch.MustNew()
//
//	r.CatchAll("/api").AddBefore(func(c *dispatch.Context) {
//	    if c.Request.Header.Get("Authorization") == "" {
//	        c.HaltWith(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
//	    }
//	})
//
//	r.GET("/api/users/{id}", func(c *dispatch.Context) {
//	    c.Response.JSON(http.StatusOK, map[string]string{"id": c.Param("id")})
//	})
//
//	http.ListenAndServe(":8080", r)
//
// # Constructor Pattern
//
// New cannot fail and returns the router directly; MustNew is an alias
// kept for symmetry with sibling packages whose constructors return
// errors. All configuration options use the "With" prefix. Registration
// mistakes surface where they happen: Handle and CatchAll panic on
// malformed templates, Table.Register returns sentinel errors.
package dispatch
