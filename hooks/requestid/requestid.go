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

// Package requestid provides a before hook that attaches a unique request
// ID to each dispatch for log correlation and tracing.
package requestid

import (
	"github.com/google/uuid"

	"rivaas.dev/dispatch"
)

// MetadataKey is the key under which the request ID is stored in the
// dispatch metadata map.
const MetadataKey = "request_id"

// Option defines functional options for requestid configuration.
type Option func(*config)

// config holds the configuration for the requestid hook.
type config struct {
	headerName    string
	generator     func() string
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		headerName:    "X-Request-ID",
		generator:     func() string { return uuid.NewString() },
		allowClientID: true,
	}
}

// WithHeader sets the header consulted for client-supplied IDs and set on
// the response. Default: "X-Request-ID".
func WithHeader(name string) Option {
	return func(cfg *config) {
		cfg.headerName = name
	}
}

// WithGenerator sets a custom ID generator. Default: UUID v4.
func WithGenerator(generator func() string) Option {
	return func(cfg *config) {
		cfg.generator = generator
	}
}

// WithAllowClientID controls whether an ID already present on the request
// is reused. Default: true.
func WithAllowClientID(allow bool) Option {
	return func(cfg *config) {
		cfg.allowClientID = allow
	}
}

// New returns a before hook that ensures every dispatch carries a request
// ID: reused from the request header when allowed, generated otherwise.
// The ID is stored in the metadata map under MetadataKey and mirrored to
// the response header.
//
// Register it globally or on a catch-all endpoint:
//
//	r.Before(requestid.New())
//
// Handlers read it back from metadata:
//
//	id, _ := c.Meta(requestid.MetadataKey)
func New(opts ...Option) dispatch.Hook {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *dispatch.Context) {
		id := ""
		if cfg.allowClientID {
			id = c.Request.Header.Get(cfg.headerName)
		}
		if id == "" {
			id = cfg.generator()
		}

		c.SetMeta(MetadataKey, id)
		c.Response.SetHeader(cfg.headerName, id)
	}
}

// FromContext returns the request ID stored by New, or "".
func FromContext(c *dispatch.Context) string {
	if v, ok := c.Meta(MetadataKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
