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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// invokeContext builds a minimal context for exercising Invoke directly,
// without going through a router dispatch.
func invokeContext(t *testing.T) *Context {
	t.Helper()
	req := NewRequest(http.MethodGet, "/test")
	return newContext(context.Background(), nil, req, NewResponse())
}

func TestEndpoint_MethodNormalized(t *testing.T) {
	t.Parallel()

	ep := NewEndpoint("post", "/users")
	assert.Equal(t, "POST", ep.Method())
	assert.Equal(t, "/users", ep.Path())
	assert.False(t, ep.IsCatchAll())
}

func TestEndpoint_CatchAll(t *testing.T) {
	t.Parallel()

	ep := NewCatchAll("/api")
	assert.Equal(t, MethodAny, ep.Method())
	assert.Equal(t, SourceCatchAll, ep.Source())
	assert.True(t, ep.IsCatchAll())
}

func TestEndpoint_Chaining(t *testing.T) {
	t.Parallel()

	ep := NewEndpoint("GET", "/users").
		AddMetadata(func(*Context) {}).
		AddBefore(func(*Context) {}).
		AddAfter(func(*Context) {}).
		SetHandler(func(*Context) {}).
		SetSource("app")

	assert.True(t, ep.HasMetadata())
	assert.True(t, ep.HasBefore())
	assert.True(t, ep.HasAfter())
	assert.True(t, ep.HasHandler())
	assert.Equal(t, "app", ep.Source())
}

func TestEndpoint_SetHandlerTwicePanics(t *testing.T) {
	t.Parallel()

	ep := NewEndpoint("GET", "/users")
	ep.SetHandler(func(*Context) {})

	assert.PanicsWithValue(t, ErrHandlerAlreadySet, func() {
		ep.SetHandler(func(*Context) {})
	})
}

func TestEndpoint_InvokeRunsHandler(t *testing.T) {
	t.Parallel()

	called := false
	ep := NewEndpoint("GET", "/users").SetHandler(func(c *Context) {
		called = true
		c.Response.String(http.StatusOK, "ok")
	})

	c := invokeContext(t)
	ep.Invoke(c)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, c.Response.Status())
	assert.Equal(t, "ok", string(c.Response.Body()))
}

func TestEndpoint_InvokeWithoutHandlerIsNoOp(t *testing.T) {
	t.Parallel()

	ep := NewEndpoint("GET", "/users")
	c := invokeContext(t)

	assert.NotPanics(t, func() { ep.Invoke(c) })
	assert.False(t, c.Response.Committed())
}

func TestEndpoint_InvokeParamValidationFailure(t *testing.T) {
	t.Parallel()

	called := false
	ep := NewEndpoint("GET", "/users/{id}").
		SetValidator(ValidatorFuncs{
			ParamsFunc: func(*Context) FieldErrors {
				return FieldErrors{"id": "must be numeric"}
			},
		}).
		SetHandler(func(*Context) { called = true })

	c := invokeContext(t)
	ep.Invoke(c)

	assert.False(t, called, "handler must not run after a parameter validation failure")
	assert.Equal(t, http.StatusBadRequest, c.Response.Status())
	assert.Contains(t, string(c.Response.Body()), "must be numeric")
}

func TestEndpoint_InvokeParamValidationOverwritesEarlierRender(t *testing.T) {
	t.Parallel()

	ep := NewEndpoint("GET", "/users/{id}").
		SetValidator(ValidatorFuncs{
			ParamsFunc: func(*Context) FieldErrors {
				return FieldErrors{"id": "must be numeric"}
			},
		}).
		SetHandler(func(*Context) {})

	// A before hook may have rendered already; the 400 must replace it,
	// not be dropped by the double-render guard.
	c := invokeContext(t)
	_ = c.Response.String(http.StatusOK, "from before hook")
	ep.Invoke(c)

	assert.Equal(t, http.StatusBadRequest, c.Response.Status())
	assert.NotContains(t, string(c.Response.Body()), "from before hook")
	assert.Contains(t, string(c.Response.Body()), "must be numeric")
}

func TestEndpoint_InvokeResponseValidationFailure(t *testing.T) {
	t.Parallel()

	ep := NewEndpoint("GET", "/users").
		SetValidator(ValidatorFuncs{
			ResponseFunc: func(*Context) FieldErrors {
				return FieldErrors{"body": "missing field"}
			},
		}).
		SetHandler(func(c *Context) {
			c.Response.String(http.StatusOK, "handler output")
		})

	c := invokeContext(t)
	ep.Invoke(c)

	assert.Equal(t, http.StatusInternalServerError, c.Response.Status())
	assert.NotContains(t, string(c.Response.Body()), "handler output")
	assert.Contains(t, string(c.Response.Body()), "missing field")
}

func TestEndpoint_InvokeSkipsHandlerWhenHalted(t *testing.T) {
	t.Parallel()

	called := false
	ep := NewEndpoint("GET", "/users").SetHandler(func(*Context) { called = true })

	c := invokeContext(t)
	c.Response.markHalted()
	ep.Invoke(c)

	assert.False(t, called)
}

func TestFieldErrors_ErrorSorted(t *testing.T) {
	t.Parallel()

	ferr := FieldErrors{"b": "second", "a": "first"}
	assert.Equal(t, "validation failed: a: first; b: second", ferr.Error())
	assert.Equal(t, "validation failed", FieldErrors{}.Error())
}
