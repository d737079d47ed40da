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
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeHTTP_EndToEnd(t *testing.T) {
	t.Parallel()

	r := New()
	r.GET("/users/{id}", func(c *Context) {
		_ = c.Response.JSON(http.StatusOK, map[string]string{
			"id":   c.Param("id"),
			"sort": c.Request.Query.Get("sort"),
		})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/42?sort=name", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"42","sort":"name"}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestServeHTTP_NotFound(t *testing.T) {
	t.Parallel()

	r := New()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}

func TestServeHTTP_RequestBodyReachesHandler(t *testing.T) {
	t.Parallel()

	var received string
	r := New()
	r.POST("/echo", func(c *Context) {
		body, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		received = string(body)
		c.Response.NoContent(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("payload")))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "payload", received)
}

func TestServeHTTP_UnmatchedFaultBecomesOpaque500(t *testing.T) {
	t.Parallel()

	r := New()
	r.GET("/boom", func(c *Context) {
		c.Raise(KindArgument, "secret internal detail")
	})

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "secret internal detail")
}

func TestServeHTTP_RuntimePanicBecomesOpaque500(t *testing.T) {
	t.Parallel()

	r := New()
	r.GET("/panic", func(*Context) {
		var m map[string]int
		m["write"] = 1 // deliberate nil map write
	})

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServeHTTP_RescuedFaultUsesHookResponse(t *testing.T) {
	t.Parallel()

	r := New()
	r.Rescue(KindNotFound, func(c *Context, f *Fault) {
		c.Response.Problem(http.StatusNotFound, f.Message, nil)
	})
	r.GET("/users/{id}", func(c *Context) {
		c.Raise(KindNotFound, "user %s not found", c.Param("id"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/9", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"user 9 not found"}`, rec.Body.String())
}

func TestFromHTTP(t *testing.T) {
	t.Parallel()

	httpReq := httptest.NewRequest(http.MethodPut, "/items/3?full=1", strings.NewReader("body"))
	httpReq.Header.Set("X-Tenant", "acme")

	req := FromHTTP(httpReq)

	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/items/3", req.Path)
	assert.Equal(t, "1", req.Query.Get("full"))
	assert.Equal(t, "acme", req.Header.Get("X-Tenant"))
	assert.Same(t, httpReq, req.Raw())
}

func TestRequest_Params(t *testing.T) {
	t.Parallel()

	req := NewRequest("get", "/x")
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Empty(t, req.Param("id"))
	assert.Empty(t, req.Params())

	req.setParams(map[string]string{"id": "5"})
	assert.Equal(t, "5", req.Param("id"))

	// Params returns a copy; mutating it does not leak back.
	params := req.Params()
	params["id"] = "mutated"
	assert.Equal(t, "5", req.Param("id"))
}
