package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"benchlens/internal/shared/version"
)

// Tracer is the process-wide tracer. It is a no-op until InitTracing
// installs a real provider.
var Tracer trace.Tracer = otel.Tracer("benchlens")

// InitTracing wires an OTLP gRPC exporter and installs the global tracer
// provider. The returned shutdown func flushes pending spans.
func InitTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithTimeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter for %q: %w", endpoint, err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", "benchlens"),
		attribute.String("service.version", version.Version),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	Tracer = provider.Tracer("benchlens")

	return provider.Shutdown, nil
}
