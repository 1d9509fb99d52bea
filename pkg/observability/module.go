// Package observability installs the OpenTelemetry SDK behind the global tracer and meter
// providers, so spans and counters recorded by the listing codec reach a collector.
package observability

import (
	"context"

	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/LoneWolf367/particl-market/pkg/core/config"
)

// NewObservabilityModule starts tracing and metrics as enabled by the observability section.
// With both disabled the global no-op providers stay in place.
func NewObservabilityModule() fx.Option {
	return fx.Module("observability",
		fx.Provide(newConfig),
		fx.Invoke(startTracing, startMetrics),
	)
}

func startTracing(lc fx.Lifecycle, log *zap.Logger, conf Config, app config.AppConfig) error {
	if !conf.Tracing.Enabled {
		log.Info("tracing: disabled")
		return nil
	}

	tp, err := newTracerProvider(context.Background(), conf, app)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			otel.SetTracerProvider(tp)
			otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
				propagation.TraceContext{},
				propagation.Baggage{},
			))
			log.Info("tracing initialized",
				zap.String("endpoint", conf.OtelCollectorEndpoint),
				zap.Float64("sample-ratio", conf.Tracing.SampleRatio),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return tp.Shutdown(shutdownCtx)
		},
	})
	return nil
}

func startMetrics(lc fx.Lifecycle, log *zap.Logger, conf Config, app config.AppConfig) error {
	if !conf.Metrics.Enabled {
		log.Info("metrics: disabled")
		return nil
	}

	mp, err := newMeterProvider(context.Background(), conf, app)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			otel.SetMeterProvider(mp)
			if err := otelruntime.Start(otelruntime.WithMinimumReadMemStatsInterval(runtimeStatsInterval)); err != nil {
				log.Warn("runtime metrics unavailable", zap.Error(err))
			}
			log.Info("metrics initialized",
				zap.String("endpoint", conf.OtelCollectorEndpoint),
				zap.Duration("interval", conf.Metrics.Interval),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return mp.Shutdown(shutdownCtx)
		},
	})
	return nil
}
