package bootstrap

import (
	"context"
	"log/slog"

	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/fx"
)

var TracingModule = fx.Module("tracing",
	fx.Invoke(InitTracer),
)

// InitTracer exports spans over OTLP/gRPC when enabled. Otherwise the
// global no-op provider stays in place.
func InitTracer(lc fx.Lifecycle, cfg config.Config) error {
	if !cfg.Tracing.Enabled {
		slog.Info("トレーシングは無効です")
		return nil
	}

	ctx := context.Background()
	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Tracing.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return errs.Wrap(err, "otlp exporter")
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.Tracing.ServiceName),
			semconv.ServiceVersionKey.String(cfg.Tracing.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(cfg.Tracing.Environment),
		),
	)
	if err != nil {
		slog.Warn("トレースリソースの構築に失敗しました", "error", err.Error())
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
	slog.Info("トレーシングを有効化しました", "endpoint", cfg.Tracing.Endpoint)
	return nil
}
