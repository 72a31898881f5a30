// Package otel wires OpenTelemetry tracing for garoball services.
package otel

import (
	"context"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Environment variables read by Setup.
const (
	EnvEnabled     = "GAROBALL_OTEL_ENABLED"
	EnvEndpoint    = "GAROBALL_OTEL_ENDPOINT"
	EnvSampleRatio = "GAROBALL_OTEL_SAMPLE_RATIO"
)

// Settings control the exporter.
type Settings struct {
	Enabled  bool
	Endpoint string
	// SampleRatio is the fraction of root traces kept, in [0,1].
	SampleRatio float64
}

// SettingsFromEnv reads Settings from the environment. Tracing is on only
// when an endpoint is set and EnvEnabled is not "false".
func SettingsFromEnv() Settings {
	s := Settings{
		Endpoint:    strings.TrimSpace(os.Getenv(EnvEndpoint)),
		SampleRatio: 1,
	}
	s.Enabled = s.Endpoint != "" && !strings.EqualFold(os.Getenv(EnvEnabled), "false")
	if raw := strings.TrimSpace(os.Getenv(EnvSampleRatio)); raw != "" {
		if ratio, err := strconv.ParseFloat(raw, 64); err == nil && ratio >= 0 && ratio <= 1 {
			s.SampleRatio = ratio
		}
	}
	return s
}

// Setup initialises tracing for serviceName from the environment.
//
// When tracing is off Setup returns a no-op shutdown function and leaves the
// global provider alone. The returned shutdown flushes pending spans and
// should be deferred by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	return SetupWith(ctx, serviceName, SettingsFromEnv())
}

// SetupWith is Setup with explicit settings.
func SetupWith(ctx context.Context, serviceName string, settings Settings) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !settings.Enabled || settings.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(settings.Endpoint))
	if err != nil {
		return noop, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noop, err
	}

	sampler := sdktrace.AlwaysSample()
	if settings.SampleRatio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(settings.SampleRatio))
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

// Tracer returns a tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
