package observability

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Status values attached to recorded operations.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Observability records engine operations (rank, score, scenarios) through
// an OpenTelemetry meter exported to Prometheus.
type Observability struct {
	meterProvider *metric.MeterProvider
	opCounter     otelmetric.Int64Counter
	opDuration    otelmetric.Float64Histogram
}

// New exports to the default Prometheus registry.
func New(serviceName string) (*Observability, error) {
	return NewWithRegisterer(serviceName, promclient.DefaultRegisterer)
}

func NewWithRegisterer(serviceName string, reg promclient.Registerer) (*Observability, error) {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return nil, eris.Wrap(err, "create prometheus exporter")
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	opCounter, err := meter.Int64Counter(
		"engine.operations",
		otelmetric.WithDescription("Engine operations processed"),
	)
	if err != nil {
		return nil, eris.Wrap(err, "create operation counter")
	}

	opDuration, err := meter.Float64Histogram(
		"engine.operation.duration",
		otelmetric.WithDescription("Engine operation duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, eris.Wrap(err, "create operation histogram")
	}

	return &Observability{
		meterProvider: provider,
		opCounter:     opCounter,
		opDuration:    opDuration,
	}, nil
}

// NewNoop returns an Observability that records nothing.
func NewNoop() *Observability {
	return &Observability{}
}

// RecordOperation counts one operation and records its duration.
func (o *Observability) RecordOperation(ctx context.Context, operation, source, status string, duration time.Duration) {
	if o == nil || o.opCounter == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("source", source),
		attribute.String("status", status),
	)
	o.opCounter.Add(ctx, 1, attrs)
	o.opDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// Track returns a func that records the operation when called with the
// operation's final error.
func (o *Observability) Track(ctx context.Context, operation, source string) func(err error) {
	start := time.Now()
	return func(err error) {
		status := StatusSuccess
		if err != nil {
			status = StatusError
		}
		o.RecordOperation(ctx, operation, source, status, time.Since(start))
	}
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
