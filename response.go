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
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"
)

// Response is the mutable response description built up during one
// dispatch. It holds status, headers, and body bytes; nothing is written
// to the wire until the host applies it (see WriteTo).
//
// Render helpers encode into a buffer before committing status or body,
// so an encoding failure leaves the description unchanged.
type Response struct {
	status int
	header http.Header
	body   []byte

	halted    bool
	committed bool
}

// NewResponse creates an empty response description.
func NewResponse() *Response {
	return &Response{header: make(http.Header)}
}

// Status returns the status code. An unset code reads as 200 so a
// description that was never rendered still applies cleanly.
func (r *Response) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// SetStatus sets the status code without touching headers or body.
func (r *Response) SetStatus(code int) {
	r.status = code
}

// Header returns the mutable header map.
func (r *Response) Header() http.Header { return r.header }

// SetHeader sets a response header, replacing any existing values.
func (r *Response) SetHeader(key, value string) {
	r.header.Set(key, value)
}

// Body returns the rendered body bytes, nil when nothing was rendered.
func (r *Response) Body() []byte { return r.body }

// Committed reports whether a body has been rendered. Render helpers
// refuse to render twice; use Overwrite to discard and start over.
func (r *Response) Committed() bool { return r.committed }

// Size returns the body size in bytes.
func (r *Response) Size() int64 { return int64(len(r.body)) }

// Halted reports whether the halt signal marked this response.
// Endpoint.Invoke skips the handler on a halted response.
func (r *Response) Halted() bool { return r.halted }

// markHalted flags the response as the carrier of a halt.
func (r *Response) markHalted() { r.halted = true }

// Overwrite discards the committed body and status so the response can be
// re-rendered. Used when a later stage must replace an earlier result,
// such as response-schema validation failing after the handler ran.
func (r *Response) Overwrite() {
	r.status = 0
	r.body = nil
	r.committed = false
}

// commit stores an encoded body. Double renders indicate a handler bug;
// the first render wins and the second is reported as an error.
func (r *Response) commit(code int, contentType string, body []byte) error {
	if r.committed {
		return ErrResponseCommitted
	}
	r.status = code
	r.header.Set("Content-Type", contentType)
	r.body = body
	r.committed = true
	return nil
}

// JSON renders obj as a compact JSON body with the given status code.
// Returns an error if encoding fails; the description is left unchanged.
func (r *Response) JSON(code int, obj any) error {
	var buf strings.Builder
	buf.Grow(256)
	if err := json.NewEncoder(&buf).Encode(obj); err != nil {
		return fmt.Errorf("JSON encoding failed for type %T: %w", obj, err)
	}
	return r.commit(code, "application/json; charset=utf-8", []byte(buf.String()))
}

// YAML renders obj as a YAML body with the given status code.
func (r *Response) YAML(code int, obj any) error {
	out, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("YAML encoding failed for type %T: %w", obj, err)
	}
	return r.commit(code, "application/yaml; charset=utf-8", out)
}

// String renders a plain-text body with the given status code.
func (r *Response) String(code int, format string, values ...any) error {
	body := format
	if len(values) > 0 {
		body = fmt.Sprintf(body, values...)
	}
	return r.commit(code, "text/plain; charset=utf-8", []byte(body))
}

// NoContent sets a bodyless response with the given status code.
func (r *Response) NoContent(code int) {
	r.status = code
	r.body = nil
	r.committed = true
}

// Problem renders the engine's structured error body: a message plus an
// optional field-error map. Used for validation failures, not-found
// results, and rescue hooks that want a uniform error shape.
func (r *Response) Problem(code int, message string, fields FieldErrors) {
	payload := map[string]any{"error": message}
	if len(fields) > 0 {
		payload["fields"] = fields
	}
	// Encoding a map of strings cannot fail.
	_ = r.JSON(code, payload)
}

// WriteTo applies the description to an http.ResponseWriter: headers,
// status, then body. It is the single point where the description leaves
// the engine.
func (r *Response) WriteTo(w http.ResponseWriter) error {
	for key, values := range r.header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(r.Status())
	if len(r.body) == 0 {
		return nil
	}
	_, err := w.Write(r.body)
	return err
}
