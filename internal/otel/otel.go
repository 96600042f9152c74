package otel

import (
	"context"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/jaeger"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const serviceName = "seafood-orders"

// Controller owns the process tracer provider.
type Controller struct {
	traceProvider *sdktrace.TracerProvider
}

// MustInitOtel installs a Jaeger-backed tracer provider when
// tracing.enabled is set. Otherwise the global no-op provider stays in place
// and the returned controller does nothing.
func MustInitOtel() *Controller {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !viper.GetBool("tracing.enabled") {
		return &Controller{}
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(jaeger.MustNewJaeger()),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
	)
	otel.SetTracerProvider(tp)

	return &Controller{traceProvider: tp}
}

// Shutdown flushes pending spans.
func (c *Controller) Shutdown(ctx context.Context) error {
	if c == nil || c.traceProvider == nil {
		return nil
	}

	return c.traceProvider.Shutdown(ctx)
}
