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
	"runtime/debug"
)

// ServeHTTP implements http.Handler. It adapts one already-accepted HTTP
// request into a Dispatch call and writes the resulting response
// description back to the wire.
//
// ServeHTTP is also the protective boundary the engine expects around
// Dispatch: a fault that no rescue hook matched arrives here as a panic
// and is converted into a plain 500 without leaking internal detail.
//
// The engine itself does no listening, TLS, or connection handling; wire
// the router into net/http as usual:
//
//	r := dispatch.MustNew()
//	r.GET("/healthz", func(c *dispatch.Context) {
//	    c.Response.NoContent(http.StatusNoContent)
//	})
//	http.ListenAndServe(":8080", r)
func (r *Router) ServeHTTP(w http.ResponseWriter, httpReq *http.Request) {
	req := FromHTTP(httpReq)

	res := r.protectedDispatch(httpReq, req)

	if err := res.WriteTo(w); err != nil {
		r.buildLogger(httpReq.Context(), req, PatternFallback).
			Error("failed to write response", "err", err)
	}
}

// protectedDispatch contains escaped faults. The response it returns is
// always safe to write: either the pipeline's own description or an
// opaque 500.
func (r *Router) protectedDispatch(httpReq *http.Request, req *Request) (res *Response) {
	defer func() {
		if rec := recover(); rec != nil {
			f := asFault(rec)
			r.buildLogger(httpReq.Context(), req, PatternNotFound).
				Error("unhandled fault", "kind", string(f.Kind), "message", f.Message,
					"stack", string(debug.Stack()))

			res = NewResponse()
			res.Problem(http.StatusInternalServerError, "internal server error", nil)
		}
	}()

	return r.Dispatch(httpReq.Context(), req)
}
