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
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"rivaas.dev/dispatch"
)

// DefaultDurationBuckets are histogram boundaries for dispatch duration
// in seconds, covering sub-millisecond to 10 second pipelines.
var DefaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Provider selects the metrics backend.
type Provider string

const (
	// PrometheusProvider exports through a private Prometheus registry (default).
	PrometheusProvider Provider = "prometheus"
	// StdoutProvider prints metrics periodically; development and testing only.
	StdoutProvider Provider = "stdout"
)

// Recorder implements dispatch.ObservabilityRecorder on top of
// OpenTelemetry metrics. One Recorder serves one router (or several, if
// they should share instruments); all methods are safe for concurrent
// use after New returns.
type Recorder struct {
	serviceName string
	provider    Provider
	logger      *slog.Logger
	exclude     map[string]struct{}

	meterProvider  metric.MeterProvider
	ownedProvider  *sdkmetric.MeterProvider // non-nil when New built the provider
	meter          metric.Meter
	promRegistry   *promclient.Registry
	promHandler    http.Handler
	customProvider bool

	dispatches   metric.Int64Counter
	duration     metric.Float64Histogram
	responseSize metric.Int64Histogram
	halts        metric.Int64Counter
	faults       metric.Int64Counter
}

// dispatchState is the opaque token threaded from OnDispatchStart to
// OnDispatchEnd.
type dispatchState struct {
	start  time.Time
	method string
}

// New creates a Recorder and initializes its provider and instruments.
// It returns an error when the exporter or an instrument cannot be
// created, so misconfiguration surfaces at startup.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		serviceName: "dispatch",
		provider:    PrometheusProvider,
		logger:      dispatch.NoopLogger(),
		exclude:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.initProvider(); err != nil {
		return nil, err
	}
	if err := r.initInstruments(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("telemetry.MustNew: %v", err))
	}
	return r
}

func (r *Recorder) initProvider() error {
	if r.customProvider {
		if r.meterProvider == nil {
			return fmt.Errorf("custom meter provider is nil")
		}
		r.meter = r.meterProvider.Meter("rivaas.dev/dispatch/telemetry")
		return nil
	}

	switch r.provider {
	case PrometheusProvider:
		// Private registry: no collisions with the global default registry.
		r.promRegistry = promclient.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(r.promRegistry))
		if err != nil {
			return fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		r.ownedProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
		r.promHandler = promhttp.HandlerFor(r.promRegistry, promhttp.HandlerOpts{})
	case StdoutProvider:
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		r.ownedProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		)
	default:
		return fmt.Errorf("unsupported telemetry provider: %s", r.provider)
	}

	r.meterProvider = r.ownedProvider
	r.meter = r.meterProvider.Meter("rivaas.dev/dispatch/telemetry")
	return nil
}

func (r *Recorder) initInstruments() error {
	var err error

	r.dispatches, err = r.meter.Int64Counter("dispatch.requests",
		metric.WithDescription("Number of dispatched requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return fmt.Errorf("failed to create dispatch counter: %w", err)
	}

	r.duration, err = r.meter.Float64Histogram("dispatch.duration",
		metric.WithDescription("Dispatch pipeline duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultDurationBuckets...))
	if err != nil {
		return fmt.Errorf("failed to create duration histogram: %w", err)
	}

	r.responseSize, err = r.meter.Int64Histogram("dispatch.response.size",
		metric.WithDescription("Response body size"),
		metric.WithUnit("By"))
	if err != nil {
		return fmt.Errorf("failed to create response size histogram: %w", err)
	}

	r.halts, err = r.meter.Int64Counter("dispatch.halts",
		metric.WithDescription("Dispatches ended by the halt signal"),
		metric.WithUnit("{request}"))
	if err != nil {
		return fmt.Errorf("failed to create halt counter: %w", err)
	}

	r.faults, err = r.meter.Int64Counter("dispatch.faults",
		metric.WithDescription("Faults observed at the dispatch boundary"),
		metric.WithUnit("{fault}"))
	if err != nil {
		return fmt.Errorf("failed to create fault counter: %w", err)
	}

	return nil
}

// Handler returns the Prometheus scrape handler, or nil for non-Prometheus
// providers.
func (r *Recorder) Handler() http.Handler { return r.promHandler }

// RecordFault increments the fault counter. Rescue hooks may call it to
// attribute recovered faults by kind.
func (r *Recorder) RecordFault(ctx context.Context, kind string) {
	r.faults.Add(ctx, 1, metric.WithAttributes(attribute.String("fault.kind", kind)))
}

// OnDispatchStart implements dispatch.ObservabilityRecorder. Excluded
// paths return a nil state, which skips OnDispatchEnd while keeping
// context enrichment intact.
func (r *Recorder) OnDispatchStart(ctx context.Context, req *dispatch.Request) (context.Context, any) {
	if _, excluded := r.exclude[req.Path]; excluded {
		return ctx, nil
	}
	return ctx, &dispatchState{start: time.Now(), method: req.Method}
}

// BuildLogger implements dispatch.ObservabilityRecorder. The returned
// logger carries the service name, method, and route pattern.
func (r *Recorder) BuildLogger(_ context.Context, req *dispatch.Request, routePattern string) *slog.Logger {
	return r.logger.With(
		"service", r.serviceName,
		"method", req.Method,
		"route", routePattern,
	)
}

// OnDispatchEnd implements dispatch.ObservabilityRecorder.
func (r *Recorder) OnDispatchEnd(ctx context.Context, state any, res *dispatch.Response, routePattern string) {
	st, ok := state.(*dispatchState)
	if !ok {
		return
	}
	elapsed := time.Since(st.start).Seconds()

	attrs := metric.WithAttributes(
		attribute.String("http.request.method", st.method),
		attribute.String("http.route", routePattern),
		attribute.Int("http.response.status_code", res.Status()),
	)

	r.dispatches.Add(ctx, 1, attrs)
	r.duration.Record(ctx, elapsed, attrs)
	r.responseSize.Record(ctx, res.Size(), attrs)
	if res.Halted() {
		r.halts.Add(ctx, 1, attrs)
	}

	r.logger.LogAttrs(ctx, slog.LevelInfo, "dispatch complete",
		slog.String("method", st.method),
		slog.String("route", routePattern),
		slog.Int("status", res.Status()),
		slog.Float64("duration_s", elapsed),
		slog.Int64("size", res.Size()),
		slog.Bool("halted", res.Halted()),
	)
}

// Shutdown flushes and stops the provider New built. It is a no-op for
// injected custom providers, whose lifecycle belongs to the caller.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.ownedProvider == nil {
		return nil
	}
	return r.ownedProvider.Shutdown(ctx)
}

// Compile-time check that Recorder satisfies the engine's interface.
var _ dispatch.ObservabilityRecorder = (*Recorder)(nil)
