// Package telemetry keeps in-process OpenTelemetry counters for a run and
// snapshots them for the summary.
package telemetry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Metric names.
const (
	RemoteCalls    = "shopmigrate.remote.calls"
	RemoteErrors   = "shopmigrate.remote.errors"
	RemoteDuration = "shopmigrate.remote.duration"
	Throttles      = "shopmigrate.throttle.pauses"
	Outcomes       = "shopmigrate.outcomes"
)

const scopeName = "shopmigrate"

// Metrics records run counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader

	calls     metric.Int64Counter
	errors    metric.Int64Counter
	duration  metric.Float64Histogram
	throttles metric.Int64Counter
	outcomes  metric.Int64Counter
}

// New creates a meter provider backed by a manual reader.
func New() (*Metrics, error) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter(scopeName)

	m := &Metrics{provider: provider, reader: reader}

	var err error

	m.calls, err = meter.Int64Counter(RemoteCalls,
		metric.WithDescription("Remote API calls issued"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	m.errors, err = meter.Int64Counter(RemoteErrors,
		metric.WithDescription("Remote API calls that failed"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	m.duration, err = meter.Float64Histogram(RemoteDuration,
		metric.WithDescription("Remote API call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	m.throttles, err = meter.Int64Counter(Throttles,
		metric.WithDescription("Pauses taken because the cost budget ran low"),
		metric.WithUnit("{pause}"),
	)
	if err != nil {
		return nil, err
	}

	m.outcomes, err = meter.Int64Counter(Outcomes,
		metric.WithDescription("Task outcomes by entity and kind"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RemoteCall records one remote call.
func (m *Metrics) RemoteCall(ctx context.Context, operation string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", operation))

	m.calls.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)

	if err != nil {
		m.errors.Add(ctx, 1, attrs)
	}
}

// Throttled records a cost budget pause.
func (m *Metrics) Throttled(ctx context.Context) {
	if m == nil {
		return
	}

	m.throttles.Add(ctx, 1)
}

// Outcome records one task outcome.
func (m *Metrics) Outcome(ctx context.Context, entity, kind string) {
	if m == nil {
		return
	}

	m.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("kind", kind),
	))
}

// Snapshot collects every integer counter. Keys are the metric name, plus
// one "name{k=v,...}" key per attribute set.
func (m *Metrics) Snapshot(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	if m == nil {
		return out, nil
	}

	var rm metricdata.ResourceMetrics
	if err := m.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("failed to collect metrics: %w", err)
	}

	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, dp := range sum.DataPoints {
				out[md.Name] += dp.Value

				if dp.Attributes.Len() > 0 {
					out[md.Name+"{"+attrKey(dp.Attributes)+"}"] += dp.Value
				}
			}
		}
	}

	return out, nil
}

// Shutdown releases the provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}

	return m.provider.Shutdown(ctx)
}

func attrKey(set attribute.Set) string {
	parts := make([]string, 0, set.Len())

	iter := set.Iter()
	for iter.Next() {
		kv := iter.Attribute()
		parts = append(parts, string(kv.Key)+"="+kv.Value.Emit())
	}

	sort.Strings(parts)

	return strings.Join(parts, ",")
}
