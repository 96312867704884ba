package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
)

func TestSetupTracingStdout(t *testing.T) {
	ctx := context.Background()
	config := TracerConfig{
		ServiceName:    "cratecompat-test",
		ServiceVersion: "1.0.0",
		ExporterType:   "stdout",
		SamplingRate:   1.0,
	}

	tp, err := SetupTracing(ctx, config)
	if err != nil {
		t.Fatalf("SetupTracing() failed: %v", err)
	}
	defer func() {
		if err := ShutdownTracing(ctx, tp); err != nil {
			t.Errorf("ShutdownTracing() failed: %v", err)
		}
	}()

	_, span := Tracer("test").Start(ctx, "test-operation")
	span.SetAttributes(attribute.String("test.key", "test.value"))
	span.End()
}

func TestSetupTracingNone(t *testing.T) {
	ctx := context.Background()
	config := TracerConfig{
		ServiceName:  "cratecompat-test",
		ExporterType: "none",
		SamplingRate: 0.0,
	}

	tp, err := SetupTracing(ctx, config)
	if err != nil {
		t.Fatalf("SetupTracing() with none exporter failed: %v", err)
	}
	defer func() {
		if err := ShutdownTracing(ctx, tp); err != nil {
			t.Errorf("ShutdownTracing() failed: %v", err)
		}
	}()
}

func TestSetupTracingInvalidExporter(t *testing.T) {
	_, err := SetupTracing(context.Background(), TracerConfig{
		ServiceName:  "cratecompat-test",
		ExporterType: "invalid",
	})
	if err == nil {
		t.Error("SetupTracing with invalid exporter should return error")
	}
}

func TestDefaultTracerConfig(t *testing.T) {
	config := DefaultTracerConfig()

	if config.ServiceName != "cratecompat" {
		t.Errorf("ServiceName = %s, want cratecompat", config.ServiceName)
	}
	if config.ExporterType != "none" {
		t.Errorf("ExporterType = %s, want none", config.ExporterType)
	}
	if config.SamplingRate != 1.0 {
		t.Errorf("SamplingRate = %f, want 1.0", config.SamplingRate)
	}
}

func TestStartSpan(t *testing.T) {
	setupTestTracing(t)

	ctx, span := StartSpan(context.Background(), TracerName, "test-span")
	defer span.End()

	if !span.SpanContext().IsValid() {
		t.Error("Span context should be valid")
	}

	retrieved := trace.SpanFromContext(ctx)
	if retrieved.SpanContext().TraceID() != span.SpanContext().TraceID() {
		t.Error("context should carry the started span")
	}
}

func TestRecordError(t *testing.T) {
	setupTestTracing(t)

	ctx, span := StartSpan(context.Background(), TracerName, "test-span")
	defer span.End()

	RecordError(ctx, context.DeadlineExceeded)
	RecordError(ctx, nil)
	// Should not panic.
}

func TestShutdownTracing(t *testing.T) {
	ctx := context.Background()

	tp, err := SetupTracing(ctx, DefaultTracerConfig())
	if err != nil {
		t.Fatalf("SetupTracing() failed: %v", err)
	}

	if err := ShutdownTracing(ctx, tp); err != nil {
		t.Errorf("ShutdownTracing() failed: %v", err)
	}
}

func TestTracerFunction(t *testing.T) {
	setupTestTracing(t)

	if tracer := Tracer("test-tracer"); tracer == nil {
		t.Error("Tracer() should not return nil")
	}
}

// TestSetupTracingOTLP needs a collector listening on localhost:4317.
// To run one: docker run -d -p 4317:4317 -p 16686:16686 jaegertracing/all-in-one:latest
func TestSetupTracingOTLP(t *testing.T) {
	endpoint := "localhost:4317"

	checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Skipf("OTLP collector not available at %s: %v", endpoint, err)
	}
	defer func() { _ = conn.Close() }()

	conn.Connect()
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			break
		}
		if state == connectivity.Shutdown || state == connectivity.TransientFailure {
			t.Skipf("OTLP collector not available at %s (state: %v)", endpoint, state)
		}
		if !conn.WaitForStateChange(checkCtx, state) {
			t.Skipf("OTLP collector not available at %s (connect timeout)", endpoint)
		}
	}

	config := TracerConfig{
		ServiceName:    "cratecompat-integration-test",
		ServiceVersion: "1.0.0",
		ExporterType:   "otlp",
		OTLPEndpoint:   endpoint,
		SamplingRate:   1.0,
	}

	tp, err := SetupTracing(context.Background(), config)
	if err != nil {
		t.Fatalf("SetupTracing() with OTLP failed: %v", err)
	}
	defer func() {
		if err := ShutdownTracing(context.Background(), tp); err != nil {
			t.Errorf("ShutdownTracing() failed: %v", err)
		}
	}()

	_, span := StartSpan(context.Background(), TracerName, "integration-test-span")
	span.SetAttributes(attribute.String("test.type", "integration"))
	span.End()

	// Give the batcher a moment before shutdown flushes it.
	time.Sleep(100 * time.Millisecond)
}
