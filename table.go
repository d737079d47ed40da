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
	"fmt"
	"strings"
)

// routeKey identifies one registration: uppercase method (or MethodAny)
// plus the path template exactly as registered.
type routeKey struct {
	method string
	path   string
}

// entry is one stored registration. pattern is nil for literal templates,
// which resolve by exact map lookup only.
type entry struct {
	key      routeKey
	endpoint *Endpoint
	pattern  *Pattern
}

// Match is the result of resolving one request against the table.
// It is constructed per request and never stored.
type Match struct {
	// Final is the most specific matched endpoint; Invoke runs on it.
	Final *Endpoint

	// Hierarchy lists the endpoints whose hooks apply to this request,
	// ordered shallowest to deepest. It always contains at least Final.
	Hierarchy []*Endpoint

	// Params maps placeholder names to captured path segments.
	// Nil for exact matches.
	Params map[string]string
}

// Table stores route registrations and resolves (method, path) pairs into
// a Match. It is built once at startup; Register and Reset are not
// synchronized against concurrent Find calls, so table rebuilds must be
// serialized against traffic by the caller.
type Table struct {
	entries map[routeKey]*entry
	order   []*entry // registration order, drives pattern scans

	diagnostics DiagnosticHandler
}

// NewTable creates an empty route table.
func NewTable() *Table {
	return &Table{entries: make(map[routeKey]*entry)}
}

// SetDiagnostics attaches an optional diagnostic handler. Registration
// anomalies (replaced routes, overlapping patterns) are reported to it.
func (t *Table) SetDiagnostics(h DiagnosticHandler) {
	t.diagnostics = h
}

func (t *Table) emit(kind DiagnosticKind, message string, fields map[string]any) {
	if t.diagnostics != nil {
		t.diagnostics.OnDiagnostic(DiagnosticEvent{Kind: kind, Message: message, Fields: fields})
	}
}

// Register inserts an endpoint under (method, path). Re-registering the
// same key replaces the previous endpoint. The path template is compiled
// exactly once, here.
func (t *Table) Register(method, path string, ep *Endpoint) error {
	if method == "" {
		return ErrEmptyMethod
	}
	if path == "" {
		return ErrEmptyPath
	}
	if path[0] != '/' {
		return fmt.Errorf("%w: %q", ErrPathNotRooted, path)
	}

	p, err := Compile(path)
	if err != nil {
		return err
	}

	key := routeKey{method: strings.ToUpper(method), path: path}
	e := &entry{key: key, endpoint: ep, pattern: p}

	if prev, exists := t.entries[key]; exists {
		// Last write wins: replace in place so scan order stays stable.
		for i, o := range t.order {
			if o == prev {
				t.order[i] = e
				break
			}
		}
		t.entries[key] = e
		t.emit(DiagRouteReplaced, "route registration replaced",
			map[string]any{"method": key.method, "path": path})
		return nil
	}

	if p != nil {
		t.checkOverlap(key, p)
	}

	t.entries[key] = e
	t.order = append(t.order, e)
	return nil
}

// RegisterCatchAll inserts a catch-all endpoint at the endpoint's path,
// stored once under the method wildcard. One shared endpoint serves every
// concrete HTTP method, so hierarchy assembly always sees the same
// instance regardless of the request's method.
func (t *Table) RegisterCatchAll(ep *Endpoint) error {
	return t.Register(MethodAny, ep.Path(), ep)
}

// checkOverlap reports a diagnostic when a new pattern could match the
// same concrete paths as an existing same-method pattern. Resolution
// between overlapping patterns is registration-order-dependent.
func (t *Table) checkOverlap(key routeKey, p *Pattern) {
	if t.diagnostics == nil {
		return
	}
	for _, e := range t.order {
		if e.pattern == nil || e.key.method != key.method {
			continue
		}
		if p.Overlaps(e.pattern) {
			t.emit(DiagPatternOverlap, "overlapping pattern routes; earlier registration wins",
				map[string]any{
					"method":   key.method,
					"existing": e.key.path,
					"added":    key.path,
				})
		}
	}
}

// Find resolves (method, path) into a Match, or nil when nothing matches.
//
// Lookup order:
//  1. Exact lookup of (METHOD, path). No parameters are extracted.
//  2. Pattern scan over same-method entries in registration order; the
//     first matching pattern wins.
//  3. The same two steps against catch-all registrations, then the
//     deepest catch-all whose path is a segment prefix of the request
//     path. This makes a catch-all at /admin terminal for any
//     unregistered path below /admin.
func (t *Table) Find(method, path string) *Match {
	method = strings.ToUpper(method)

	if e, ok := t.entries[routeKey{method: method, path: path}]; ok {
		return t.assemble(method, path, e.endpoint, nil)
	}

	for _, e := range t.order {
		if e.pattern == nil || e.key.method != method {
			continue
		}
		if params, ok := e.pattern.Match(path); ok {
			return t.assemble(method, path, e.endpoint, params)
		}
	}

	if e, ok := t.entries[routeKey{method: MethodAny, path: path}]; ok {
		return t.assemble(method, path, e.endpoint, nil)
	}
	for _, e := range t.order {
		if e.pattern == nil || e.key.method != MethodAny {
			continue
		}
		if params, ok := e.pattern.Match(path); ok {
			return t.assemble(method, path, e.endpoint, params)
		}
	}
	if ep := t.deepestCatchAllPrefix(path); ep != nil {
		return t.assemble(method, path, ep, nil)
	}

	return nil
}

// deepestCatchAllPrefix returns the catch-all endpoint registered at the
// longest segment prefix of path, or nil.
func (t *Table) deepestCatchAllPrefix(path string) *Endpoint {
	segments := splitPath(path)
	for i := len(segments) - 1; i >= 1; i-- {
		prefix := "/" + strings.Join(segments[:i], "/")
		if e, ok := t.entries[routeKey{method: MethodAny, path: prefix}]; ok {
			return e.endpoint
		}
	}
	if e, ok := t.entries[routeKey{method: MethodAny, path: "/"}]; ok {
		return e.endpoint
	}
	return nil
}

// assemble builds the Match for a resolved final endpoint: the hierarchy
// walk visits each segment prefix of the concrete request path, shallow to
// deep, collecting the endpoints whose hooks apply.
//
// At each prefix level a catch-all registration wins over a method-specific
// one; both are appended when they are distinct registrations. Endpoints
// are never appended twice, and the final endpoint is always last.
func (t *Table) assemble(method, path string, final *Endpoint, params map[string]string) *Match {
	m := &Match{Final: final, Params: params}

	segments := splitPath(path)
	for i := 1; i <= len(segments); i++ {
		prefix := "/" + strings.Join(segments[:i], "/")

		// Catch-all first, then the method-specific registration when it
		// is distinct. appendUnique drops identity duplicates, covering
		// the case of one endpoint registered under both keys.
		if e, ok := t.entries[routeKey{method: MethodAny, path: prefix}]; ok {
			m.appendUnique(e.endpoint)
		}
		if e, ok := t.entries[routeKey{method: method, path: prefix}]; ok {
			m.appendUnique(e.endpoint)
		}
	}

	// The walk finds the final endpoint itself only for exact matches;
	// pattern-matched and prefix-matched finals are appended here. The
	// hierarchy is never empty.
	m.appendFinal()
	return m
}

func (m *Match) appendUnique(ep *Endpoint) {
	for _, existing := range m.Hierarchy {
		if existing == ep {
			return
		}
	}
	m.Hierarchy = append(m.Hierarchy, ep)
}

// appendFinal guarantees Final is present and last.
func (m *Match) appendFinal() {
	for i, existing := range m.Hierarchy {
		if existing == m.Final {
			if i == len(m.Hierarchy)-1 {
				return
			}
			m.Hierarchy = append(m.Hierarchy[:i], m.Hierarchy[i+1:]...)
			break
		}
	}
	m.Hierarchy = append(m.Hierarchy, m.Final)
}

// Len returns the number of stored registrations.
func (t *Table) Len() int { return len(t.entries) }

// Reset clears every registration. Intended for hot reload and test
// isolation; never call it while requests are in flight.
func (t *Table) Reset() {
	t.entries = make(map[routeKey]*entry)
	t.order = nil
}

// RouteInfo describes one registration for introspection and listings.
type RouteInfo struct {
	Method     string
	Path       string
	Source     string
	HasHandler bool
}

// Routes returns every registration in registration order.
func (t *Table) Routes() []RouteInfo {
	infos := make([]RouteInfo, 0, len(t.order))
	for _, e := range t.order {
		infos = append(infos, RouteInfo{
			Method:     e.key.method,
			Path:       e.key.path,
			Source:     e.endpoint.Source(),
			HasHandler: e.endpoint.HasHandler(),
		})
	}
	return infos
}
