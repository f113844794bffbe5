// Package otel configures opt-in OpenTelemetry tracing for brasa-e-lenha processes.
package otel

import (
	"context"
	"strings"

	"github.com/Tiago21221/brasa-e-lenha/internal/platform/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the tracer scope used by brasa-e-lenha packages.
const InstrumentationName = "github.com/Tiago21221/brasa-e-lenha"

type telemetryEnv struct {
	Endpoint string  `env:"BRASA_OTEL_ENDPOINT"`
	Enabled  string  `env:"BRASA_OTEL_ENABLED"`
	Ratio    float64 `env:"BRASA_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when BRASA_OTEL_ENDPOINT is empty or BRASA_OTEL_ENABLED
// is "false", Setup returns a no-op shutdown function and no global provider
// is registered. The returned shutdown flushes pending spans.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	var cfg telemetryEnv
	if err := config.ParseEnv(&cfg); err != nil {
		return noop, err
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Enabled), "false") {
		return noop, nil
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceNamespace("brasa-e-lenha"),
		),
	)
	if err != nil {
		return noop, err
	}

	sampler := sdktrace.AlwaysSample()
	if cfg.Ratio > 0 && cfg.Ratio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Ratio))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns the process tracer for one package scope.
func Tracer(scope string) trace.Tracer {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		scope = InstrumentationName
	}
	return otel.Tracer(scope)
}
