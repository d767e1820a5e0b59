package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the shared tracer for check and report runs. It is a no-op until
// InitTracer installs a real provider.
var Tracer trace.Tracer = otel.Tracer("fence")

// InitTracer wires an OTLP gRPC exporter when endpoint is non-empty and
// returns a shutdown function to flush pending spans. With an empty endpoint
// tracing stays a no-op and the returned shutdown does nothing.
func InitTracer(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(sdkresource.NewSchemaless(
			attribute.String("service.name", "fence"),
		)),
	)
	otel.SetTracerProvider(provider)
	Tracer = provider.Tracer("fence")

	return provider.Shutdown, nil
}
