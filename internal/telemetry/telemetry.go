// Package telemetry wires OpenTelemetry metrics for the CLI and MCP
// server. Only metrics are exported: the library core records nothing,
// and no surviving component creates spans, so there is no tracer here.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// exportInterval is how often the periodic reader pushes metrics.
// Verification counters are low-volume; a slow cadence keeps the
// stdio server quiet.
const exportInterval = 30 * time.Second

// Shutdown flushes and stops the meter provider.
type Shutdown func(ctx context.Context) error

// Init installs the global OTLP meter provider. An empty endpoint
// disables telemetry: instruments become no-ops and the returned
// Shutdown does nothing.
func Init(ctx context.Context, endpoint, serviceName, version string, insecure bool) (Shutdown, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: metric exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry: resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(exportInterval),
		)),
	)
	otel.SetMeterProvider(provider)
	return provider.Shutdown, nil
}

// VerifyMetrics counts verification outcomes on the global meter.
type VerifyMetrics struct {
	Verifications  metric.Int64Counter
	Hallucinations metric.Int64Counter
	Disclosures    metric.Int64Counter
}

// NewVerifyMetrics registers the verification counters. Instruments are
// no-ops unless Init configured a real meter provider.
func NewVerifyMetrics() (*VerifyMetrics, error) {
	meter := otel.Meter("github.com/ashita-ai/groundcheck")

	verifications, err := meter.Int64Counter("groundcheck.verifications",
		metric.WithDescription("Completed verification calls, labeled by outcome"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: verifications counter: %w", err)
	}
	hallucinations, err := meter.Int64Counter("groundcheck.hallucinations",
		metric.WithDescription("Hallucinated claims detected"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: hallucinations counter: %w", err)
	}
	disclosures, err := meter.Int64Counter("groundcheck.disclosures",
		metric.WithDescription("Verifications that required source disclosure"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: disclosures counter: %w", err)
	}
	return &VerifyMetrics{
		Verifications:  verifications,
		Hallucinations: hallucinations,
		Disclosures:    disclosures,
	}, nil
}
