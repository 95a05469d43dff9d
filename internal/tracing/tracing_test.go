package tracing_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/microbench/internal/config"
	"github.com/torosent/microbench/internal/runner"
	"github.com/torosent/microbench/internal/tracing"
)

func setupTestTracer(t *testing.T) (*tracetest.InMemoryExporter, trace.Tracer) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	return exporter, tp.Tracer("test")
}

func attrs(span tracetest.SpanStub) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value, len(span.Attributes))
	for _, kv := range span.Attributes {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestInitDisabledByDefault(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	p, err := tracing.Init(context.Background(), config.TracingConfig{})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	if p.Enabled() {
		t.Error("Enabled() = true, want false when tracing disabled")
	}

	// Tracer should return a no-op (no panic)
	_, span := p.Tracer().Start(context.Background(), "test")
	span.End()
	if span.SpanContext().IsValid() {
		t.Error("no-op tracer produced a valid span context")
	}
}

func TestInitWithEndpointEnablesTracing(t *testing.T) {
	// The exporter connects lazily, so no collector is needed here.
	p, err := tracing.Init(context.Background(), config.TracingConfig{
		Endpoint:    "localhost:4317",
		Protocol:    "grpc",
		ServiceName: "test-service",
		SampleRate:  1.0,
		Insecure:    true,
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	if !p.Enabled() {
		t.Error("Enabled() = false, want true when endpoint set")
	}
}

func TestInitHTTPProtocol(t *testing.T) {
	p, err := tracing.Init(context.Background(), config.TracingConfig{
		Endpoint:   "localhost:4318",
		Protocol:   "http",
		Insecure:   true,
		SampleRate: 0.5,
	})
	if err != nil {
		t.Fatalf("Init() with http protocol error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	if !p.Enabled() {
		t.Error("Enabled() = false, want true")
	}
}

func TestInitUnsupportedProtocol(t *testing.T) {
	_, err := tracing.Init(context.Background(), config.TracingConfig{
		Endpoint: "localhost:4317",
		Protocol: "thrift",
		Insecure: true,
	})
	if err == nil {
		t.Fatal("Init() with unsupported protocol should return error")
	}
}

func TestInitInvalidSampleRate(t *testing.T) {
	tests := []struct {
		name string
		rate float64
	}{
		{"negative", -0.5},
		{"above one", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tracing.Init(context.Background(), config.TracingConfig{
				Endpoint:   "localhost:4317",
				Protocol:   "grpc",
				Insecure:   true,
				SampleRate: tt.rate,
			})
			if err == nil {
				t.Fatalf("Init() with sample_rate=%g should return error", tt.rate)
			}
		})
	}
}

func TestNilProviderSafety(t *testing.T) {
	var p *tracing.Provider
	if p.Enabled() {
		t.Error("nil provider Enabled() = true, want false")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("nil provider Shutdown() error = %v", err)
	}
	_, span := p.Tracer().Start(context.Background(), "test")
	span.End()
}

func TestWrapRecordsOneSpanPerRun(t *testing.T) {
	exporter, tracer := setupTestTracer(t)

	b := runner.NewNoSetup(func() int { return 1 }, runner.Options[int]{}.
		WithLabel("one").
		WithPolicy(runner.FixedIterations(7)))
	traced := tracing.Wrap(b, tracer)

	if err := traced.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := traced.Step(); err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Name != "bench one" {
		t.Errorf("span name = %q, want %q", span.Name, "bench one")
	}
	if span.Status.Code != codes.Ok {
		t.Errorf("span status = %v, want Ok", span.Status.Code)
	}
	got := attrs(span)
	if got["bench.policy"].AsString() != "7x" {
		t.Errorf("bench.policy = %q, want 7x", got["bench.policy"].AsString())
	}
	if got["bench.iterations"].AsInt64() != 7 {
		t.Errorf("bench.iterations = %d, want 7", got["bench.iterations"].AsInt64())
	}
	if _, ok := got["bench.mean_ns"]; !ok {
		t.Error("bench.mean_ns attribute missing")
	}
	if traced.Log().Iterations != 7 {
		t.Errorf("Iterations = %d, want 7 since Step does not record", traced.Log().Iterations)
	}
}

func TestWrapRecordsErrors(t *testing.T) {
	exporter, tracer := setupTestTracer(t)

	b := runner.NewNoSetup[int](nil, runner.Options[int]{}.WithLabel("missing"))
	err := tracing.Wrap(b, tracer).Run(context.Background())
	if !errors.Is(err, runner.ErrMissingCallback) {
		t.Fatalf("Run() error = %v, want ErrMissingCallback", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("span status = %v, want Error", spans[0].Status.Code)
	}
	if _, ok := attrs(spans[0])["bench.mean_ns"]; ok {
		t.Error("bench.mean_ns recorded for a run without iterations")
	}
}

func TestWrapRepanics(t *testing.T) {
	exporter, tracer := setupTestTracer(t)

	b := runner.NewNoSetup(func() int { panic("boom") }, runner.Options[int]{}.
		WithLabel("panics").
		WithPolicy(runner.FixedIterations(1)))

	err := runner.RunSafely(context.Background(), tracing.Wrap(b, tracer))
	var fault *runner.CallbackFault
	if !errors.As(err, &fault) {
		t.Fatalf("RunSafely() error = %v, want *CallbackFault", err)
	}
	if fault.Label != "panics" {
		t.Errorf("fault.Label = %q, want panics", fault.Label)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Status.Code != codes.Error {
		t.Fatalf("spans = %+v, want one errored span", spans)
	}
}

func TestWrapNilTracer(t *testing.T) {
	b := runner.NewNoSetup(func() int { return 0 }, runner.Options[int]{})
	if got := tracing.Wrap(b, nil); got != runner.Bencher(b) {
		t.Error("Wrap(b, nil) did not return b")
	}
}

func TestEndSpanOk(t *testing.T) {
	exporter, tracer := setupTestTracer(t)

	_, span := tracer.Start(context.Background(), "test-ok")
	tracing.EndSpan(span, nil)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status.Code != codes.Ok {
		t.Errorf("span status code = %d, want %d (Ok)", spans[0].Status.Code, codes.Ok)
	}
}
