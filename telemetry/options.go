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

package telemetry

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// Option defines functional options for Recorder configuration.
type Option func(*Recorder)

// WithServiceName sets the service name attached to request-scoped
// loggers. Default: "dispatch".
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithPrometheus selects the Prometheus provider (the default). Scrape
// output is served by Handler.
func WithPrometheus() Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
	}
}

// WithStdout selects the stdout provider. Metrics are printed
// periodically; intended for development and testing.
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
	}
}

// WithMeterProvider injects a custom OpenTelemetry meter provider,
// bypassing the built-in providers. The caller owns its lifecycle;
// Shutdown becomes a no-op.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = mp
		r.customProvider = true
	}
}

// WithLogger sets the base logger for dispatch completion lines and
// request-scoped loggers. Default: a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithExcludePaths excludes exact request paths (e.g. "/healthz") from
// metrics and access logs. Excluded dispatches still run normally.
func WithExcludePaths(paths ...string) Option {
	return func(r *Recorder) {
		for _, p := range paths {
			r.exclude[p] = struct{}{}
		}
	}
}
