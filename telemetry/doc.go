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

// Package telemetry provides an OpenTelemetry-backed observability
// recorder for the dispatch engine: dispatch counts, duration and size
// histograms, halt and fault counters, plus request-scoped structured
// loggers.
//
// Two built-in providers are supported. The Prometheus provider (default)
// exports through a private Prometheus registry exposed via Handler; the
// stdout provider prints metrics periodically and suits development.
// A custom otel metric.MeterProvider can be injected for anything else.
//
// Basic usage:
//
//	rec, err := telemetry.New(telemetry.WithServiceName("orders-api"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rec.Shutdown(context.Background())
//
//	r := dispatch.New(dispatch.WithObservability(rec))
//	http.Handle("/metrics", rec.Handler())
package telemetry
