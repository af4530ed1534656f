// Package instrument wraps a sorting.Strategy with metrics, tracing and
// structured logging. The wrapped strategy is itself a sorting.Strategy, so
// it can be handed to sorting.Context or sorting.SortEvenOdd unchanged.
package instrument

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/constraints"

	"github.com/king54346/sortlab/sorting"
)

const tracerName = "sortlab.sorting"

// Metrics are the prometheus collectors fed by instrumented strategies.
type Metrics struct {
	// SortsTotal counts sort calls by strategy and result ("ok", "error").
	SortsTotal *prometheus.CounterVec
	// Operations observes the operation count reported by each call.
	Operations *prometheus.HistogramVec
	// Duration observes wall time per call in seconds.
	Duration *prometheus.HistogramVec
	// OrderingViolations counts calls that failed with ErrOrderingViolated.
	OrderingViolations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SortsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sorts_total",
			Help:      "Total sort calls by strategy and result",
		}, []string{"strategy", "result"}),
		Operations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sort_operations",
			Help:      "Elementary operations performed per sort call",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 14), // 1 to ~67M
		}, []string{"strategy"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sort_duration_seconds",
			Help:      "Sort call duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 12), // 10µs to ~42s
		}, []string{"strategy"}),
		OrderingViolations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ordering_violations_total",
			Help:      "Sort calls aborted because the ordering is not total",
		}, []string{"strategy"}),
	}
}

type options struct {
	metrics *Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// Option configures Wrap.
type Option func(*options)

func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Strategy is an instrumented sorting.Strategy.
type Strategy[T constraints.Integer] struct {
	inner   sorting.Strategy[T]
	metrics *Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// Wrap instruments inner. Without options it traces through the global otel
// provider, logs to slog.Default and records no metrics.
func Wrap[T constraints.Integer](inner sorting.Strategy[T], opts ...Option) *Strategy[T] {
	if inner == nil {
		panic("assert strategy != nil")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Strategy[T]{inner: inner, metrics: o.metrics, tracer: o.tracer, logger: o.logger}
}

func (s *Strategy[T]) Name() string { return s.inner.Name() }

// Unwrap returns the instrumented strategy.
func (s *Strategy[T]) Unwrap() sorting.Strategy[T] { return s.inner }

func (s *Strategy[T]) Sort(a []T) (int, error) {
	return s.SortContext(context.Background(), a)
}

// SortContext sorts a with the wrapped strategy inside a span parented by ctx.
func (s *Strategy[T]) SortContext(ctx context.Context, a []T) (int, error) {
	name := s.inner.Name()
	ctx, span := s.tracer.Start(ctx, "sorting.Sort", trace.WithAttributes(
		attribute.String("sort.strategy", name),
		attribute.Int("sort.length", len(a)),
	))
	defer span.End()

	start := time.Now()
	steps, err := s.inner.Sort(a)
	elapsed := time.Since(start)

	span.SetAttributes(attribute.Int("sort.operations", steps))
	result := "ok"
	if err != nil {
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "sort failed",
			"strategy", name,
			"length", len(a),
			"operations", steps,
			"error", err,
		)
	} else {
		span.SetStatus(codes.Ok, "")
		s.logger.DebugContext(ctx, "sort finished",
			"strategy", name,
			"length", len(a),
			"operations", steps,
			"duration", elapsed,
		)
	}

	if m := s.metrics; m != nil {
		m.SortsTotal.WithLabelValues(name, result).Inc()
		m.Operations.WithLabelValues(name).Observe(float64(steps))
		m.Duration.WithLabelValues(name).Observe(elapsed.Seconds())
		if errors.Is(err, sorting.ErrOrderingViolated) {
			m.OrderingViolations.WithLabelValues(name).Inc()
		}
	}
	return steps, err
}
