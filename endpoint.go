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
	"net/http"
	"strings"
)

// MethodAny is the method wildcard used for catch-all registrations.
// A catch-all endpoint matches every concrete HTTP method at its path and
// contributes its hooks to every descendant route.
const MethodAny = "*"

// SourceCatchAll is the source tag attached to catch-all registrations.
const SourceCatchAll = "all"

// Hook is a lifecycle hook or terminal handler.
// Hooks receive the per-request Context and may read and mutate the
// request, response, and shared metadata map.
type Hook func(*Context)

// Endpoint bundles the lifecycle hooks bound to one path/method
// registration: metadata hooks, before hooks, after hooks, and an optional
// terminal handler.
//
// An Endpoint with no handler is legal; hook-only endpoints registered at
// parent paths contribute cross-cutting behavior (authentication, common
// headers) to every descendant route.
//
// Endpoints are built once during registration and must not be mutated
// while requests are being dispatched.
type Endpoint struct {
	path   string
	method string
	source string

	metadataHooks []Hook
	beforeHooks   []Hook
	afterHooks    []Hook
	handler       Hook

	validator Validator
}

// NewEndpoint creates an endpoint for one method and path template.
// The method is normalized to uppercase.
func NewEndpoint(method, path string) *Endpoint {
	return &Endpoint{
		method: strings.ToUpper(method),
		path:   path,
	}
}

// NewCatchAll creates a catch-all endpoint for a path prefix.
// It is registered under the method wildcard and applies to every concrete
// HTTP method.
func NewCatchAll(path string) *Endpoint {
	return &Endpoint{
		method: MethodAny,
		path:   path,
		source: SourceCatchAll,
	}
}

// Path returns the endpoint's path template.
func (e *Endpoint) Path() string { return e.path }

// Method returns the endpoint's uppercase method, or MethodAny for
// catch-all endpoints.
func (e *Endpoint) Method() string { return e.method }

// Source returns the opaque source tag attached at registration.
func (e *Endpoint) Source() string { return e.source }

// SetSource attaches an opaque source tag, typically naming the component
// that registered the endpoint. Returns the endpoint for chaining.
func (e *Endpoint) SetSource(source string) *Endpoint {
	e.source = source
	return e
}

// IsCatchAll reports whether this endpoint applies to every HTTP method.
func (e *Endpoint) IsCatchAll() bool {
	return e.method == MethodAny || e.source == SourceCatchAll
}

// AddMetadata appends a metadata hook. Metadata hooks run before any
// before hook, across the whole hierarchy shallow to deep, and typically
// seed the shared metadata map. Returns the endpoint for chaining.
func (e *Endpoint) AddMetadata(hooks ...Hook) *Endpoint {
	e.metadataHooks = append(e.metadataHooks, hooks...)
	return e
}

// AddBefore appends a before hook, run in registration order prior to the
// terminal handler. Returns the endpoint for chaining.
func (e *Endpoint) AddBefore(hooks ...Hook) *Endpoint {
	e.beforeHooks = append(e.beforeHooks, hooks...)
	return e
}

// AddAfter appends an after hook, run in registration order after the
// terminal handler. Returns the endpoint for chaining.
func (e *Endpoint) AddAfter(hooks ...Hook) *Endpoint {
	e.afterHooks = append(e.afterHooks, hooks...)
	return e
}

// SetHandler sets the terminal handler. At most one handler may be set.
func (e *Endpoint) SetHandler(h Hook) *Endpoint {
	if e.handler != nil {
		panic(ErrHandlerAlreadySet)
	}
	e.handler = h
	return e
}

// SetValidator attaches a validation collaborator checked by Invoke.
func (e *Endpoint) SetValidator(v Validator) *Endpoint {
	e.validator = v
	return e
}

// HasHandler reports whether a terminal handler is set.
func (e *Endpoint) HasHandler() bool { return e.handler != nil }

// HasMetadata reports whether any metadata hooks are registered.
func (e *Endpoint) HasMetadata() bool { return len(e.metadataHooks) > 0 }

// HasBefore reports whether any before hooks are registered.
func (e *Endpoint) HasBefore() bool { return len(e.beforeHooks) > 0 }

// HasAfter reports whether any after hooks are registered.
func (e *Endpoint) HasAfter() bool { return len(e.afterHooks) > 0 }

// Invoke runs the terminal stage for one request. It is called exactly
// once per dispatch, on the final (deepest) endpoint only; ancestors in
// the hierarchy contribute their hooks directly through the orchestrator
// and never receive Invoke.
//
// Stages:
//  1. Parameter validation. A failure overwrites whatever an earlier
//     hook rendered with a 400 problem description and returns without
//     calling the handler.
//  2. The handler, unless the response was already halted. A missing
//     handler is a no-op.
//  3. Response validation. A failure overwrites whatever the handler
//     produced with a 500 problem description.
//
// Validation failures are local: they never raise and never reach fault
// dispatch.
func (e *Endpoint) Invoke(c *Context) {
	if e.validator != nil {
		if ferr := e.validator.Params(c); ferr != nil {
			c.Response.Overwrite()
			c.Response.Problem(http.StatusBadRequest, "request validation failed", ferr)
			return
		}
	}

	if !c.Response.Halted() && e.handler != nil {
		e.handler(c)
	}

	if e.validator != nil {
		if ferr := e.validator.Response(c); ferr != nil {
			c.Response.Overwrite()
			c.Response.Problem(http.StatusInternalServerError, "response validation failed", ferr)
		}
	}
}
