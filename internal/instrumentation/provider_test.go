package instrumentation

import (
	"context"
	"testing"
	"time"
)

func TestNewProviderDisabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if provider.Enabled() {
		t.Error("Enabled() = true, want false")
	}
	if provider.Metrics() == nil {
		t.Fatal("Metrics() = nil, want a no-op recorder")
	}
	if provider.PrometheusHandler() != nil {
		t.Error("PrometheusHandler() should be nil when disabled")
	}

	// The no-op recorder should accept calls without panicking.
	provider.Metrics().RecordToolInvocation(context.Background(), "create-doc", StatusSuccess, time.Millisecond)

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewProviderPrometheus(t *testing.T) {
	provider := newTestProvider(t)

	if !provider.Enabled() {
		t.Error("Enabled() = false, want true")
	}
	if provider.PrometheusHandler() == nil {
		t.Error("PrometheusHandler() = nil, want the exporter")
	}
	if provider.Tracer("test") == nil {
		t.Error("Tracer() = nil")
	}
}

func TestNewProviderRejectsUnknownExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		Enabled:         true,
		ServiceName:     "test",
		MetricsExporter: "graphite",
		TracingExporter: ExporterNone,
	})
	if err == nil {
		t.Fatal("NewProvider() with unknown exporter should fail")
	}
}

func TestGetTraceIDWithoutSpan(t *testing.T) {
	if got := GetTraceID(context.Background()); got != "" {
		t.Errorf("GetTraceID() = %q, want empty without a span", got)
	}
	if got := GetSpanID(context.Background()); got != "" {
		t.Errorf("GetSpanID() = %q, want empty without a span", got)
	}
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("copy-file").
		WithService(ServiceDrive).
		WithOperation(OperationCopy).
		WithAccount("work").
		WithResource("file", "file-1").
		WithReadOnly(false).
		Build()

	if len(attrs) != 7 {
		t.Fatalf("Build() returned %d attributes, want 7", len(attrs))
	}

	// Empty account should be skipped.
	attrs = NewSpanAttributeBuilder().WithAccount("").Build()
	if len(attrs) != 0 {
		t.Errorf("Build() with empty account returned %d attributes, want 0", len(attrs))
	}
}
