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

// Package accesslog provides an around hook that writes one structured
// log line per dispatch, including duration and final status. Because it
// wraps the whole pipeline it observes halted responses too.
package accesslog

import (
	"log/slog"
	"time"

	"rivaas.dev/dispatch"
)

// Option defines functional options for accesslog configuration.
type Option func(*config)

// config holds the configuration for the accesslog hook.
type config struct {
	logger *slog.Logger
	level  slog.Level
}

func defaultConfig() *config {
	return &config{
		logger: nil, // fall back to the request-scoped logger
		level:  slog.LevelInfo,
	}
}

// WithLogger sets an explicit logger. By default the hook logs through
// the request-scoped logger built by the observability recorder.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithLevel sets the log level for access lines. Default: Info.
func WithLevel(level slog.Level) Option {
	return func(cfg *config) {
		cfg.level = level
	}
}

// New returns an around hook that logs each dispatch after the pipeline
// finishes. Register it first so its timing covers every other hook:
//
//	r.Around(accesslog.New(accesslog.WithLogger(logger)))
//
// A halt unwinds past the hook body, so completion of the continuation is
// observed through a deferred call rather than code after next().
func New(opts ...Option) dispatch.AroundHook {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *dispatch.Context, next dispatch.Next) {
		start := time.Now()

		defer func() {
			logger := cfg.logger
			if logger == nil {
				logger = c.Logger()
			}
			logger.Log(c.Context(), cfg.level, "request",
				"method", c.Request.Method,
				"path", c.Request.Path,
				"route", c.RoutePattern(),
				"status", c.Response.Status(),
				"size", c.Response.Size(),
				"halted", c.Response.Halted(),
				"duration", time.Since(start),
			)
		}()

		next()
	}
}
