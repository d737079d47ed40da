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
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// noopLogger is a singleton no-op logger used when no observability is
// configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger. ObservabilityRecorder
// implementations return it when logging is disabled.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// Context is the per-request execution context threaded through every
// lifecycle stage: global hooks, hierarchy hooks, the terminal handler,
// and rescue hooks all receive the same instance.
//
// Metadata is a single shared mutable map created fresh for each dispatch.
// There is no isolation between hierarchy levels: a deeper hook writing a
// key silently overwrites a shallower hook's value, and the handler sees
// the last write.
//
// ⚠️ THREAD SAFETY: Context is NOT thread-safe. One instance belongs to
// one dispatch; do not retain it past the request or share it across
// goroutines. Copy what you need before starting async work.
type Context struct {
	Request  *Request
	Response *Response

	// Metadata is the request-scoped key-value context. Hooks at every
	// level read and write it by reference.
	Metadata map[string]any

	router       *Router
	ctx          context.Context
	routePattern string
	logger       *slog.Logger
	span         trace.Span

	// Error collection, populated via Error() for hooks that want to
	// accumulate non-fatal problems and inspect them in an after hook.
	errors []error
}

// newContext creates the context for one dispatch.
func newContext(ctx context.Context, r *Router, req *Request, res *Response) *Context {
	return &Context{
		Request:  req,
		Response: res,
		Metadata: make(map[string]any),
		router:   r,
		ctx:      ctx,
		logger:   noopLogger,
	}
}

// Context returns the context.Context the dispatch was invoked with,
// enriched by the observability recorder when one is configured.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// RoutePattern returns the matched route template (e.g. "/users/{id}"),
// or a sentinel like "_not_found" when resolution missed. Use it instead
// of the raw path for metrics to keep cardinality bounded.
func (c *Context) RoutePattern() string { return c.routePattern }

// Param returns the path parameter captured under name, or "".
func (c *Context) Param(name string) string { return c.Request.Param(name) }

// Meta returns the metadata value stored under key.
func (c *Context) Meta(key string) (any, bool) {
	v, ok := c.Metadata[key]
	return v, ok
}

// SetMeta stores a metadata value. Later writes to the same key replace
// earlier ones regardless of which hierarchy level wrote first.
func (c *Context) SetMeta(key string, value any) {
	c.Metadata[key] = value
}

// Logger returns the request-scoped logger. Without an observability
// recorder this is a no-op logger, so hooks can log unconditionally.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Halt ends the pipeline immediately: no further hooks run at any level
// and the current response description is returned as-is. Halt never
// returns and is never intercepted by fault dispatch.
func (c *Context) Halt() {
	raiseHalt(c.Response)
}

// HaltWith renders a JSON body onto the response and halts.
//
// Example:
//
//	c.HaltWith(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
func (c *Context) HaltWith(code int, obj any) {
	if obj != nil {
		_ = c.Response.JSON(code, obj)
	} else {
		c.Response.NoContent(code)
	}
	raiseHalt(c.Response)
}

// Raise raises a fault of the given kind. The pipeline unwinds to the
// dispatch boundary where a rescue hook is resolved by nearest-ancestor
// kind match; an unmatched fault propagates to the Dispatch caller.
// Raise never returns.
func (c *Context) Raise(kind Kind, format string, values ...any) {
	panic(NewFault(kind, format, values...))
}

// RaiseErr raises a fault wrapping an underlying error. Never returns.
func (c *Context) RaiseErr(kind Kind, err error) {
	panic(WrapFault(kind, err))
}

// Error appends err to the context's error collection and returns it.
// Collected errors do not affect control flow; an after hook or rescue
// hook can inspect them via Errors.
func (c *Context) Error(err error) error {
	if err != nil {
		c.errors = append(c.errors, err)
	}
	return err
}

// Errors returns the errors collected during this dispatch.
func (c *Context) Errors() []error { return c.errors }

// Span returns the current OpenTelemetry span, or nil when the dispatch
// context carries none.
func (c *Context) Span() trace.Span {
	if c.span == nil && c.ctx != nil {
		c.span = trace.SpanFromContext(c.ctx)
	}
	return c.span
}

// SetSpanAttribute adds an attribute to the current span. No-op when
// tracing is not active.
func (c *Context) SetSpanAttribute(key string, value string) {
	if span := c.Span(); span != nil && span.SpanContext().IsValid() {
		span.SetAttributes(attribute.String(key, value))
	}
}

// AddSpanEvent adds an event to the current span with optional attributes.
// No-op when tracing is not active.
func (c *Context) AddSpanEvent(name string, attrs ...attribute.KeyValue) {
	if span := c.Span(); span != nil && span.SpanContext().IsValid() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}
