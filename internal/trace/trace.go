// Package trace sets up OpenTelemetry tracing for the workflow spans.
package trace

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ServiceName is reported as service.name on every span.
const ServiceName = "devcraft"

// Config selects the exporter. An empty Endpoint disables tracing.
type Config struct {
	Endpoint    string
	Insecure    bool
	SampleRatio float64
	Version     string
}

// Provider hands out tracers and flushes spans on shutdown.
type Provider struct {
	provider oteltrace.TracerProvider
	sdk      *sdktrace.TracerProvider
}

// New creates an OTLP/HTTP provider, or a no-op one when no endpoint is configured.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Endpoint == "" {
		return &Provider{provider: noop.NewTracerProvider()}, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
	}
	return NewWithExporter(exporter, cfg), nil
}

// NewWithExporter batches spans into exporter.
func NewWithExporter(exporter sdktrace.SpanExporter, cfg Config) *Provider {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(ServiceName),
		semconv.ServiceVersionKey.String(cfg.Version),
	)

	ratio := cfg.SampleRatio
	if ratio <= 0 {
		ratio = 1
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	return &Provider{provider: tp, sdk: tp}
}

// Enabled reports whether spans leave the process.
func (p *Provider) Enabled() bool {
	return p.sdk != nil
}

// Tracer returns a named tracer.
func (p *Provider) Tracer(name string) oteltrace.Tracer {
	return p.provider.Tracer(name)
}

// ForceFlush exports buffered spans.
func (p *Provider) ForceFlush(ctx context.Context) error {
	if p.sdk == nil {
		return nil
	}
	return p.sdk.ForceFlush(ctx)
}

// Shutdown flushes and closes the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}
