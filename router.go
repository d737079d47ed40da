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
	"fmt"
	"log/slog"
	"net/http"
)

// Next is the continuation handed to an around hook. Calling it runs the
// rest of the pipeline; declining to call it skips everything inside.
type Next func()

// AroundHook wraps the entire remaining pipeline. The first registered
// around hook is outermost. A hook that returns without invoking its
// continuation short-circuits the dispatch silently: no fault, no halt,
// whatever response it set stands.
type AroundHook func(*Context, Next)

// Router is the lifecycle orchestrator. It resolves each request through
// its route table, then executes the hook pipeline for the resolved
// match:
//
//	around (enter) → global before → hierarchy metadata (shallow→deep)
//	→ hierarchy before (shallow→deep) → handler → hierarchy after
//	(deep→shallow) → global after → around (exit)
//
// Two non-local exits cut the pipeline short: Halt returns the current
// response immediately, and a raised Fault is dispatched to the
// nearest-ancestor rescue hook (or re-raised to the caller when none
// matches).
//
// Registration must complete before the first dispatch; the table and
// global hook lists are read-only while requests are in flight.
type Router struct {
	table   *Table
	rescues *Registry

	around []AroundHook
	before []Hook
	after  []Hook

	fallback      Hook
	observability ObservabilityRecorder
	diagnostics   DiagnosticHandler
	logger        *slog.Logger
}

// Option defines functional options for router configuration.
type Option func(*Router)

// New creates a router. Construction cannot fail: the router is a plain
// data structure and options are applied directly, so unlike packages
// that initialize external resources there is no error to return.
// Invalid registrations are reported where they happen instead.
func New(opts ...Option) *Router {
	r := &Router{
		table:   NewTable(),
		rescues: NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.table.SetDiagnostics(r.diagnostics)
	return r
}

// MustNew is an alias of New kept for symmetry with sibling packages
// whose constructors can fail.
func MustNew(opts ...Option) *Router {
	return New(opts...)
}

// Table exposes the underlying route table for introspection.
func (r *Router) Table() *Table { return r.table }

// Rescues exposes the fault registry, e.g. to declare custom kinds:
//
//	r.Rescues().DeclareKind("quota", dispatch.KindState)
func (r *Router) Rescues() *Registry { return r.rescues }

// Routes returns every registration in registration order.
func (r *Router) Routes() []RouteInfo { return r.table.Routes() }

// emit sends a diagnostic event if a handler is configured.
func (r *Router) emit(kind DiagnosticKind, message string, fields map[string]any) {
	if r.diagnostics != nil {
		r.diagnostics.OnDiagnostic(DiagnosticEvent{Kind: kind, Message: message, Fields: fields})
	}
}

// Mount registers a fully built endpoint under its own method and path.
func (r *Router) Mount(ep *Endpoint) error {
	if ep.IsCatchAll() {
		return r.table.RegisterCatchAll(ep)
	}
	return r.table.Register(ep.Method(), ep.Path(), ep)
}

// Handle creates an endpoint with the given terminal handler, registers
// it, and returns it so callers can attach hooks:
//
//	r.Handle(http.MethodGet, "/users/{id}", showUser).
//	    AddBefore(requireSession)
//
// The handler may be nil for hook-only registrations. Invalid path
// templates panic: registration runs at startup and a malformed template
// is a programming error.
func (r *Router) Handle(method, path string, handler Hook) *Endpoint {
	ep := NewEndpoint(method, path)
	if handler != nil {
		ep.SetHandler(handler)
	}
	if err := r.Mount(ep); err != nil {
		panic(fmt.Sprintf("dispatch: register %s %s: %v", method, path, err))
	}
	return ep
}

// GET registers a GET handler. See Handle.
func (r *Router) GET(path string, handler Hook) *Endpoint {
	return r.Handle(http.MethodGet, path, handler)
}

// POST registers a POST handler. See Handle.
func (r *Router) POST(path string, handler Hook) *Endpoint {
	return r.Handle(http.MethodPost, path, handler)
}

// PUT registers a PUT handler. See Handle.
func (r *Router) PUT(path string, handler Hook) *Endpoint {
	return r.Handle(http.MethodPut, path, handler)
}

// PATCH registers a PATCH handler. See Handle.
func (r *Router) PATCH(path string, handler Hook) *Endpoint {
	return r.Handle(http.MethodPatch, path, handler)
}

// DELETE registers a DELETE handler. See Handle.
func (r *Router) DELETE(path string, handler Hook) *Endpoint {
	return r.Handle(http.MethodDelete, path, handler)
}

// CatchAll registers a catch-all endpoint at a path prefix and returns it
// for hook attachment. One shared endpoint covers every HTTP method at
// the prefix and wraps every descendant route:
//
//	r.CatchAll("/admin").AddBefore(requireAdmin)
func (r *Router) CatchAll(path string) *Endpoint {
	ep := NewCatchAll(path)
	if err := r.Mount(ep); err != nil {
		panic(fmt.Sprintf("dispatch: register catch-all %s: %v", path, err))
	}
	return ep
}

// Before appends global before hooks, run in registration order ahead of
// every hierarchy hook.
func (r *Router) Before(hooks ...Hook) {
	r.before = append(r.before, hooks...)
}

// After appends global after hooks, run in registration order after the
// hierarchy's after hooks.
func (r *Router) After(hooks ...Hook) {
	r.after = append(r.after, hooks...)
}

// Around appends global around hooks. Nesting order is registration
// order: the first registered hook is outermost.
func (r *Router) Around(hooks ...AroundHook) {
	r.around = append(r.around, hooks...)
}

// Rescue binds a rescue hook to a fault kind, replacing any previous hook
// for that kind. A raised fault resolves to the hook registered for the
// nearest ancestor of its kind. Unknown kinds panic; declare custom kinds
// first via Rescues().DeclareKind.
func (r *Router) Rescue(kind Kind, hook RescueHook) {
	if err := r.rescues.Register(kind, hook); err != nil {
		panic(fmt.Sprintf("dispatch: rescue %s: %v", kind, err))
	}
}

// Reset clears the route table for hot reload or test isolation. Global
// hooks and rescue registrations survive. Never call concurrently with
// in-flight dispatches.
func (r *Router) Reset() {
	r.table.Reset()
}

// Dispatch processes one request synchronously and returns the response
// description. A halt anywhere in the pipeline returns the halted
// response; a fault with no matching rescue hook propagates to the caller
// as a panic, expected to be contained by an outer protective boundary
// such as ServeHTTP.
func (r *Router) Dispatch(ctx context.Context, req *Request) *Response {
	if ctx == nil {
		ctx = context.Background()
	}
	res := NewResponse()

	var obsState any
	if r.observability != nil {
		ctx, obsState = r.observability.OnDispatchStart(ctx, req)
	}

	c := newContext(ctx, r, req, res)

	m := r.table.Find(req.Method, req.Path)
	if m == nil {
		r.dispatchMiss(c)
		if obsState != nil {
			r.observability.OnDispatchEnd(ctx, obsState, res, c.routePattern)
		}
		return res
	}

	req.setParams(m.Params)
	c.routePattern = m.Final.Path()
	c.logger = r.buildLogger(ctx, req, c.routePattern)

	r.execute(c, m)

	if obsState != nil {
		r.observability.OnDispatchEnd(ctx, obsState, res, c.routePattern)
	}
	return res
}

// dispatchMiss handles resolution misses: the configured fallback
// delegate receives the raw request unchanged, otherwise a fixed
// not-found description is returned. The fallback is an ordinary hook,
// so the halt signal is consumed here the same way execute consumes it.
func (r *Router) dispatchMiss(c *Context) {
	defer func() {
		if rec := recover(); rec != nil {
			if isHalt(rec) {
				return // response already carries the halt state
			}
			panic(rec)
		}
	}()

	if r.fallback != nil {
		c.routePattern = PatternFallback
		c.logger = r.buildLogger(c.Context(), c.Request, c.routePattern)
		r.fallback(c)
		return
	}
	c.routePattern = PatternNotFound
	c.Response.Problem(http.StatusNotFound, "not found", nil)
}

func (r *Router) buildLogger(ctx context.Context, req *Request, routePattern string) *slog.Logger {
	if r.observability != nil {
		return r.observability.BuildLogger(ctx, req, routePattern)
	}
	if r.logger != nil {
		return r.logger
	}
	return noopLogger
}

// execute runs the pipeline for one resolved match. The halt signal is
// consumed here, at the outermost boundary, so it passes through every
// around wrapper untouched; anything else recovered is re-raised.
func (r *Router) execute(c *Context, m *Match) {
	defer func() {
		if rec := recover(); rec != nil {
			if isHalt(rec) {
				return // response already carries the halt state
			}
			panic(rec)
		}
	}()

	// Fault interception sits inside the innermost around wrapper: an
	// around hook's own body is outside rescue scope, the wrapped stages
	// are inside.
	pipeline := func() {
		defer r.rescueBoundary(c)
		r.runStages(c, m)
	}

	for i := len(r.around) - 1; i >= 0; i-- {
		hook := r.around[i]
		next := pipeline
		pipeline = func() { hook(c, next) }
	}

	pipeline()
}

// runStages executes steps 2-7 of the pipeline in order. Halts and faults
// unwind naturally, skipping every remaining stage at every level.
func (r *Router) runStages(c *Context, m *Match) {
	for _, h := range r.before {
		h(c)
	}
	for _, ep := range m.Hierarchy {
		for _, h := range ep.metadataHooks {
			h(c)
		}
	}
	for _, ep := range m.Hierarchy {
		for _, h := range ep.beforeHooks {
			h(c)
		}
	}

	m.Final.Invoke(c)

	for i := len(m.Hierarchy) - 1; i >= 0; i-- {
		for _, h := range m.Hierarchy[i].afterHooks {
			h(c)
		}
	}
	for _, h := range r.after {
		h(c)
	}
}

// rescueBoundary intercepts raised faults exactly once per dispatch.
// The halt signal is re-raised untouched. A matched rescue hook ends the
// dispatch normally; it may itself re-raise, which propagates unmodified.
// Unmatched faults are re-raised to the Dispatch caller.
func (r *Router) rescueBoundary(c *Context) {
	rec := recover()
	if rec == nil {
		return
	}
	if isHalt(rec) {
		panic(rec)
	}

	f := asFault(rec)
	if hook := r.rescues.Resolve(f); hook != nil {
		hook(c, f)
		return
	}

	r.emit(DiagUnmatchedFault, "fault reached the dispatch boundary unhandled",
		map[string]any{"kind": string(f.Kind), "message": f.Message})
	panic(rec)
}
