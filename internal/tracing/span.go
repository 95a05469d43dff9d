package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/microbench/internal/runner"
)

// StartRunSpan starts a span covering one benchmark run.
func StartRunSpan(ctx context.Context, tracer trace.Tracer, label string, policy runner.Policy) (context.Context, trace.Span) {
	spanName := "bench"
	if label != "" {
		spanName = "bench " + label
	}
	return tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("bench.label", label),
			attribute.String("bench.policy", policy.String()),
		),
	)
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// LogAttributes describes the outcome recorded in log.
func LogAttributes(log runner.Log) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Int64("bench.iterations", int64(log.Iterations)),
		attribute.Int64("bench.elapsed_ns", log.Elapsed.Nanoseconds()),
	}
	if mean, err := log.Mean(); err == nil {
		attrs = append(attrs, attribute.Int64("bench.mean_ns", mean.Nanoseconds()))
	}
	return attrs
}

type tracedBencher struct {
	runner.Bencher
	tracer trace.Tracer
}

// Wrap returns a Bencher whose Run is covered by a span. Only Run is traced;
// Step is passed through untouched. A panic escaping Run is recorded on the
// span and re-raised.
func Wrap(b runner.Bencher, tracer trace.Tracer) runner.Bencher {
	if tracer == nil {
		return b
	}
	return &tracedBencher{Bencher: b, tracer: tracer}
}

func (t *tracedBencher) Run(ctx context.Context) (err error) {
	before := t.Log()
	ctx, span := StartRunSpan(ctx, t.tracer, before.Label, before.Policy)
	defer func() {
		attrs := LogAttributes(t.Log())
		if v := recover(); v != nil {
			EndSpan(span, fmt.Errorf("callback panicked: %v", v), attrs...)
			panic(v)
		}
		EndSpan(span, err, attrs...)
	}()
	return t.Bencher.Run(ctx)
}
