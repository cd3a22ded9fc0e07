// Package telemetry sets up OpenTelemetry tracing for the settings
// command line tool.
package telemetry

import (
	"context"

	// Packages
	settings "github.com/mutablelogic/go-settings"
	otel "go.opentelemetry.io/otel"
	otlptracehttp "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	propagation "go.opentelemetry.io/otel/propagation"
	resource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Shutdown flushes pending spans and releases the exporter
type Shutdown func(context.Context) error

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Setup returns a tracer exporting spans over OTLP/HTTP to endpoint. When
// endpoint is empty it returns a nil tracer and a no-op shutdown, so
// tracing is opt-in.
func Setup(ctx context.Context, serviceName, version, endpoint string) (trace.Tracer, Shutdown, error) {
	noop := func(context.Context) error { return nil }
	if endpoint == "" {
		return nil, noop, nil
	}
	if serviceName == "" {
		return nil, noop, settings.ErrBadParameter.With("service name is required")
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return nil, noop, settings.ErrBadParameter.Withf("otlp exporter: %v", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, noop, settings.ErrInternalServerError.Withf("resource: %v", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return provider.Tracer(serviceName), provider.Shutdown, nil
}
