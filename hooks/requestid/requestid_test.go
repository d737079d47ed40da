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

package requestid

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch"
)

func dispatchWith(t *testing.T, hook dispatch.Hook, req *dispatch.Request) (*dispatch.Response, string) {
	t.Helper()

	var id string
	r := dispatch.New()
	r.Before(hook)
	r.GET("/x", func(c *dispatch.Context) {
		id = FromContext(c)
		c.Response.NoContent(http.StatusOK)
	})

	res := r.Dispatch(context.Background(), req)
	return res, id
}

func TestNew_GeneratesUUID(t *testing.T) {
	t.Parallel()

	res, id := dispatchWith(t, New(), dispatch.NewRequest(http.MethodGet, "/x"))

	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "generated IDs are valid UUIDs")
	assert.Equal(t, id, res.Header().Get("X-Request-ID"))
}

func TestNew_ReusesClientID(t *testing.T) {
	t.Parallel()

	req := dispatch.NewRequest(http.MethodGet, "/x")
	req.Header.Set("X-Request-ID", "client-supplied")

	res, id := dispatchWith(t, New(), req)

	assert.Equal(t, "client-supplied", id)
	assert.Equal(t, "client-supplied", res.Header().Get("X-Request-ID"))
}

func TestNew_RejectClientID(t *testing.T) {
	t.Parallel()

	req := dispatch.NewRequest(http.MethodGet, "/x")
	req.Header.Set("X-Request-ID", "client-supplied")

	_, id := dispatchWith(t, New(WithAllowClientID(false)), req)
	assert.NotEqual(t, "client-supplied", id)
	assert.NotEmpty(t, id)
}

func TestNew_CustomHeaderAndGenerator(t *testing.T) {
	t.Parallel()

	hook := New(
		WithHeader("X-Trace-ID"),
		WithGenerator(func() string { return "fixed-id" }),
	)

	res, id := dispatchWith(t, hook, dispatch.NewRequest(http.MethodGet, "/x"))

	assert.Equal(t, "fixed-id", id)
	assert.Equal(t, "fixed-id", res.Header().Get("X-Trace-ID"))
}

func TestFromContext_MissingID(t *testing.T) {
	t.Parallel()

	var id string
	r := dispatch.New()
	r.GET("/x", func(c *dispatch.Context) {
		id = FromContext(c)
		c.Response.NoContent(http.StatusOK)
	})
	r.Dispatch(context.Background(), dispatch.NewRequest(http.MethodGet, "/x"))

	assert.Empty(t, id)
}
