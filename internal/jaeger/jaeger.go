package jaeger

import (
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/exporters/jaeger"
)

const defaultEndpoint = "http://jaeger:14268/api/traces"

// MustNewJaeger creates a collector exporter for tracing.jaeger_endpoint.
func MustNewJaeger() *jaeger.Exporter {
	endpoint := viper.GetString("tracing.jaeger_endpoint")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(
		jaeger.WithEndpoint(endpoint),
	))
	if err != nil {
		panic(err)
	}

	return exp
}
