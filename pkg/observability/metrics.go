package observability

import (
	"context"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/LoneWolf367/particl-market/pkg/core/config"
)

func newMeterProvider(ctx context.Context, conf Config, app config.AppConfig) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(ctx, app)
	if err != nil {
		return nil, err
	}

	exp, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(conf.OtelCollectorEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(conf.Metrics.Interval))),
		sdkmetric.WithResource(res),
	), nil
}
