package fold

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// InstrumentationName is the name used for OTEL instrumentation.
	InstrumentationName = "github.com/PythonNut/vimish-fold/pkg/fold"
)

// Metrics provides OpenTelemetry metrics for the fold package.
type Metrics struct {
	// Counters
	regionsCreatedTotal metric.Int64Counter
	regionsRemovedTotal metric.Int64Counter
	refoldTotal         metric.Int64Counter
	refoldSkippedTotal  metric.Int64Counter

	// Gauges (using UpDownCounter for gauge semantics)
	regionsActiveCount metric.Int64UpDownCounter

	// Histograms
	regionLines metric.Int64Histogram

	// initialized tracks if metrics were successfully initialized
	initialized bool
}

// NewMetrics creates a new Metrics instance with the provided meter.
// If meter is nil, uses the global meter provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	m := &Metrics{}
	var err error

	m.regionsCreatedTotal, err = meter.Int64Counter(
		"fold.regions.created.total",
		metric.WithDescription("Total number of fold regions created"),
		metric.WithUnit("{region}"),
	)
	if err != nil {
		return nil, err
	}

	m.regionsRemovedTotal, err = meter.Int64Counter(
		"fold.regions.removed.total",
		metric.WithDescription("Total number of fold regions unfolded"),
		metric.WithUnit("{region}"),
	)
	if err != nil {
		return nil, err
	}

	m.refoldTotal, err = meter.Int64Counter(
		"fold.refold.total",
		metric.WithDescription("Total number of refold operations that restored at least one region"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	m.refoldSkippedTotal, err = meter.Int64Counter(
		"fold.refold.skipped.total",
		metric.WithDescription("Total number of spans a refold could not restore"),
		metric.WithUnit("{region}"),
	)
	if err != nil {
		return nil, err
	}

	m.regionsActiveCount, err = meter.Int64UpDownCounter(
		"fold.regions.active.count",
		metric.WithDescription("Number of currently folded regions"),
		metric.WithUnit("{region}"),
	)
	if err != nil {
		return nil, err
	}

	m.regionLines, err = meter.Int64Histogram(
		"fold.region.lines",
		metric.WithDescription("Lines covered per folded region"),
		metric.WithUnit("{line}"),
		metric.WithExplicitBucketBoundaries(2, 5, 10, 25, 50, 100, 250, 500),
	)
	if err != nil {
		return nil, err
	}

	m.initialized = true
	return m, nil
}

// RecordFoldCreated records a region creation.
// Note: document paths are intentionally omitted from metrics to prevent
// cardinality explosion. Document correlation is available via structured logs.
func (m *Metrics) RecordFoldCreated(ctx context.Context, lines int) {
	if m == nil || !m.initialized {
		return
	}
	m.regionsCreatedTotal.Add(ctx, 1)
	m.regionsActiveCount.Add(ctx, 1)
	m.regionLines.Record(ctx, int64(lines))
}

// RecordUnfolded records removed regions.
func (m *Metrics) RecordUnfolded(ctx context.Context, count int) {
	if m == nil || !m.initialized {
		return
	}
	m.regionsRemovedTotal.Add(ctx, int64(count))
	m.regionsActiveCount.Add(ctx, -int64(count))
}

// RecordRefold records a refold outcome.
func (m *Metrics) RecordRefold(ctx context.Context, restored, skipped int) {
	if m == nil || !m.initialized {
		return
	}
	if restored > 0 {
		m.refoldTotal.Add(ctx, 1)
	}
	if skipped > 0 {
		m.refoldSkippedTotal.Add(ctx, int64(skipped))
	}
}

// Tracer returns a tracer for the fold package.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// SpanAttributes returns common span attributes for a document.
func SpanAttributes(document string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("fold.document", document),
	}
}

// StartSpan starts a new span with document context.
func StartSpan(ctx context.Context, name, document string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	attrs := SpanAttributes(document)
	allOpts := append([]trace.SpanStartOption{trace.WithAttributes(attrs...)}, opts...)
	return Tracer().Start(ctx, name, allOpts...)
}

// RecordError records an error on the current span.
func RecordError(ctx context.Context, err error, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.RecordError(err, trace.WithAttributes(attrs...))
	}
}

// SetSpanStatus sets the status on the current span.
func SetSpanStatus(ctx context.Context, code codes.Code, description string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetStatus(code, description)
	}
}
