// Package tracing installs the OpenTelemetry tracer provider for the process.
// Finished spans are written to the zap logger at debug level.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// NewProvider builds a tracer provider tagged with serviceName. Spans are
// batched into a zap logging exporter; extra processors (tests) are added
// alongside it.
func NewProvider(serviceName string, logger *zap.Logger, processors ...sdktrace.SpanProcessor) *sdktrace.TracerProvider {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
		sdktrace.WithBatcher(&logExporter{logger: logger.Named("trace")}),
	}
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	return sdktrace.NewTracerProvider(opts...)
}

// Install builds a provider and makes it the global one.
func Install(serviceName string, logger *zap.Logger) *sdktrace.TracerProvider {
	tp := NewProvider(serviceName, logger)
	otel.SetTracerProvider(tp)
	return tp
}

type logExporter struct {
	logger *zap.Logger
}

func (e *logExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	if !e.logger.Core().Enabled(zap.DebugLevel) {
		return nil
	}
	for _, s := range spans {
		fields := []zap.Field{
			zap.String("trace_id", s.SpanContext().TraceID().String()),
			zap.String("span_id", s.SpanContext().SpanID().String()),
			zap.Duration("duration", s.EndTime().Sub(s.StartTime())),
			zap.String("status", s.Status().Code.String()),
		}
		for _, kv := range s.Attributes() {
			fields = append(fields, zap.String(string(kv.Key), kv.Value.Emit()))
		}
		e.logger.Debug(s.Name(), fields...)
	}
	return nil
}

func (e *logExporter) Shutdown(context.Context) error { return nil }
