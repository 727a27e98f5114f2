package observability

import (
	"context"
	"strings"

	"github.com/railzwaylabs/subcommerce/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RegisterTracing installs a global tracer provider exporting over OTLP/HTTP.
// Without an endpoint the otel no-op provider stays in place.
func RegisterTracing(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) error {
	endpoint := strings.TrimSpace(cfg.Observability.OTLPEndpoint)
	if endpoint == "" {
		log.Debug("otlp endpoint not configured, tracing disabled")
		return nil
	}

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.Observability.ServiceName),
			attribute.String("service.version", cfg.App.Version),
			attribute.String("deployment.environment", cfg.App.Env),
		)),
	)
	otel.SetTracerProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})
	log.Info("tracing enabled", zap.String("otlp_endpoint", endpoint))
	return nil
}
