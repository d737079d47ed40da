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
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request is the engine's view of one incoming request. It carries only
// what resolution and the lifecycle pipeline need: method, path, headers,
// query, body, and the path parameters extracted during resolution.
//
// The engine treats the request as already accepted; connection handling
// and the wire protocol live outside this module.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Query  url.Values
	Body   io.Reader

	params map[string]string
	raw    *http.Request
}

// NewRequest creates a request for direct Dispatch calls, typically from
// tests or non-HTTP hosts. The method is normalized to uppercase.
func NewRequest(method, path string) *Request {
	return &Request{
		Method: strings.ToUpper(method),
		Path:   path,
		Header: make(http.Header),
		Query:  make(url.Values),
	}
}

// FromHTTP adapts an accepted *http.Request. The original request remains
// reachable through Raw for collaborators that need the full object.
func FromHTTP(req *http.Request) *Request {
	return &Request{
		Method: req.Method,
		Path:   req.URL.Path,
		Header: req.Header,
		Query:  req.URL.Query(),
		Body:   req.Body,
		raw:    req,
	}
}

// Raw returns the backing *http.Request, or nil for requests constructed
// directly.
func (r *Request) Raw() *http.Request { return r.raw }

// Param returns the path parameter captured under name, or "".
func (r *Request) Param(name string) string { return r.params[name] }

// Params returns a copy of all captured path parameters.
// Exact matches yield an empty map.
func (r *Request) Params() map[string]string {
	out := make(map[string]string, len(r.params))
	for k, v := range r.params {
		out[k] = v
	}
	return out
}

// setParams installs the parameters extracted by route resolution.
func (r *Request) setParams(params map[string]string) {
	r.params = params
}
