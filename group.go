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

import "net/http"

// Group organizes related registrations under a common path prefix with
// shared before hooks. Group hooks are merged into each endpoint at
// registration time, ahead of any hooks attached to the endpoint itself.
//
// Groups are a registration convenience; resolution and the hook
// hierarchy are unaware of them. For hooks that should also cover
// unregistered descendant paths, use a catch-all endpoint instead.
//
// Example:
//
//	api := r.Group("/api/v1", requireSession)
//	users := api.Group("/users")
//	users.GET("/{id}", showUser) // final path: /api/v1/users/{id}
type Group struct {
	router *Router
	prefix string
	before []Hook
	source string
}

// Group creates a route group rooted at prefix. Hooks passed here run
// before every endpoint registered through the group.
func (r *Router) Group(prefix string, hooks ...Hook) *Group {
	return &Group{router: r, prefix: prefix, before: hooks}
}

// Use appends shared before hooks. They apply to registrations made after
// the call; endpoints already registered are unaffected.
func (g *Group) Use(hooks ...Hook) *Group {
	g.before = append(g.before, hooks...)
	return g
}

// SetSource sets the source tag stamped on endpoints registered through
// this group. Returns the group for chaining.
func (g *Group) SetSource(source string) *Group {
	g.source = source
	return g
}

// Group creates a nested group. The child's prefix is the parent's prefix
// plus the provided one, and the parent's hooks and source tag are
// inherited.
func (g *Group) Group(prefix string, hooks ...Hook) *Group {
	merged := make([]Hook, 0, len(g.before)+len(hooks))
	merged = append(merged, g.before...)
	merged = append(merged, hooks...)

	return &Group{
		router: g.router,
		prefix: g.prefix + prefix,
		before: merged,
		source: g.source,
	}
}

// Handle registers a handler under the group's prefix and returns the
// endpoint for further hook attachment. Group hooks are installed first,
// so hooks added through the returned endpoint run after them.
func (g *Group) Handle(method, path string, handler Hook) *Endpoint {
	ep := g.router.Handle(method, g.prefix+path, handler)
	if len(g.before) > 0 {
		// Prepend: endpoint construction just happened, so these are the
		// first before hooks in its list.
		ep.AddBefore(g.before...)
	}
	if g.source != "" {
		ep.SetSource(g.source)
	}
	return ep
}

// GET registers a GET handler under the group's prefix. See Handle.
func (g *Group) GET(path string, handler Hook) *Endpoint {
	return g.Handle(http.MethodGet, path, handler)
}

// POST registers a POST handler under the group's prefix. See Handle.
func (g *Group) POST(path string, handler Hook) *Endpoint {
	return g.Handle(http.MethodPost, path, handler)
}

// PUT registers a PUT handler under the group's prefix. See Handle.
func (g *Group) PUT(path string, handler Hook) *Endpoint {
	return g.Handle(http.MethodPut, path, handler)
}

// PATCH registers a PATCH handler under the group's prefix. See Handle.
func (g *Group) PATCH(path string, handler Hook) *Endpoint {
	return g.Handle(http.MethodPatch, path, handler)
}

// DELETE registers a DELETE handler under the group's prefix. See Handle.
func (g *Group) DELETE(path string, handler Hook) *Endpoint {
	return g.Handle(http.MethodDelete, path, handler)
}

// CatchAll registers a catch-all endpoint at the group's prefix plus path
// and returns it for hook attachment. Unlike method registrations, the
// group's before hooks are copied onto the catch-all too, so descendant
// routes inherit them through the hierarchy.
func (g *Group) CatchAll(path string) *Endpoint {
	ep := g.router.CatchAll(g.prefix + path)
	if len(g.before) > 0 {
		ep.AddBefore(g.before...)
	}
	if g.source != "" {
		ep.SetSource(g.source)
	}
	return ep
}
