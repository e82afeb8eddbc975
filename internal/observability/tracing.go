package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.uber.org/zap"
)

const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"

	defaultServiceName = "roadmap-matcher"
	defaultSampleRatio = 0.1
)

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled     bool              `mapstructure:"enabled"`
	Exporter    string            `mapstructure:"exporter"`
	Endpoint    string            `mapstructure:"endpoint"`
	Insecure    bool              `mapstructure:"insecure"`
	Headers     map[string]string `mapstructure:"headers"`
	SampleRatio float64           `mapstructure:"sample-ratio"`
	Environment string            `mapstructure:"environment"`
}

// ShutdownFunc flushes and stops tracing.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitTracing installs the global tracer provider. Disabled tracing keeps the otel no-op provider.
func InitTracing(ctx context.Context, cfg TracingConfig, version string, logger *zap.Logger) (ShutdownFunc, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		return noopShutdown, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(defaultServiceName),
			semconv.ServiceVersionKey.String(strings.TrimSpace(version)),
			attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
		),
	)
	if err != nil {
		logger.Warn("otel resource init failed (continuing)", zap.Error(err))
	}

	exporter, err := newExporter(ctx, cfg, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("create %s trace exporter: %w", cfg.Exporter, err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio(cfg.SampleRatio)))),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("otel tracing initialized",
		zap.String("exporter", exporterName(cfg)),
		zap.String("endpoint", cfg.Endpoint),
	)

	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, cfg TracingConfig, out io.Writer) (sdktrace.SpanExporter, error) {
	switch exporterName(cfg) {
	case ExporterOTLP:
		opts := []otlptracehttp.Option{}
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
		}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
		}
		return otlptracehttp.New(ctx, opts...)
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unsupported trace exporter %q", cfg.Exporter)
	}
}

// exporterName defaults to OTLP when an endpoint is configured and to stdout otherwise.
func exporterName(cfg TracingConfig) string {
	name := strings.ToLower(strings.TrimSpace(cfg.Exporter))
	if name != "" {
		return name
	}
	if strings.TrimSpace(cfg.Endpoint) != "" {
		return ExporterOTLP
	}
	return ExporterStdout
}

func sampleRatio(r float64) float64 {
	switch {
	case r <= 0:
		return defaultSampleRatio
	case r > 1:
		return 1
	}
	return r
}
