package observability

import (
	"bytes"
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestInitTracingDisabled(t *testing.T) {
	t.Parallel()

	shutdown, err := InitTracing(context.Background(), TracingConfig{}, "test", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
}

func TestExporterName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    TracingConfig
		expect string
	}{
		{name: "default stdout", cfg: TracingConfig{}, expect: ExporterStdout},
		{name: "endpoint implies otlp", cfg: TracingConfig{Endpoint: "collector:4318"}, expect: ExporterOTLP},
		{name: "explicit wins", cfg: TracingConfig{Exporter: " STDOUT ", Endpoint: "collector:4318"}, expect: ExporterStdout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exporterName(tt.cfg); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestNewExporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	exp, err := newExporter(context.Background(), TracingConfig{Exporter: ExporterStdout}, &buf)
	if err != nil || exp == nil {
		t.Fatalf("expected stdout exporter, got %v", err)
	}

	if _, err := newExporter(context.Background(), TracingConfig{Exporter: "zipkin"}, &buf); err == nil {
		t.Fatalf("expected unsupported exporter error")
	}
}

func TestSampleRatio(t *testing.T) {
	t.Parallel()

	for input, expect := range map[float64]float64{0: defaultSampleRatio, -1: defaultSampleRatio, 0.5: 0.5, 3: 1} {
		if got := sampleRatio(input); got != expect {
			t.Fatalf("sampleRatio(%v): expected %v, got %v", input, expect, got)
		}
	}
}
