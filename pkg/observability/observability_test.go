package observability

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/LoneWolf367/particl-market/pkg/core/config"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := newConfig(viper.New())

	require.NoError(t, err)
	assert.False(t, cfg.Tracing.Enabled)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, defaultMetricsInterval, cfg.Metrics.Interval)
	assert.Equal(t, defaultSampleRatio, cfg.Tracing.SampleRatio)
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := map[string]map[string]any{
		"metrics without endpoint": {"observability.metrics.enabled": true},
		"sample ratio above one":   {"observability.tracing.sample-ratio": 1.5},
	}

	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			for k, val := range values {
				v.Set(k, val)
			}

			_, err := newConfig(v)

			assert.Error(t, err)
		})
	}
}

func TestNewTracerProvider_LocalMode(t *testing.T) {
	// Arrange
	conf := Config{Tracing: TracingConfig{Enabled: true, SampleRatio: 1}}
	app := config.AppConfig{ServiceName: "market-node", ServiceVersion: "test", Environment: "local"}

	// Act
	tp, err := newTracerProvider(context.Background(), conf, app)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	_, span := tp.Tracer("test").Start(context.Background(), "listing.compose")
	defer span.End()

	// Assert
	assert.True(t, span.SpanContext().IsSampled())
}

func TestWithTrace(t *testing.T) {
	// Given
	core, logs := observer.New(zapcore.InfoLevel)
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	// When
	WithTrace(ctx, zap.New(core)).Info("published")
	WithTrace(context.Background(), zap.New(core)).Info("untraced")

	// Then
	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entries[0].ContextMap()["trace_id"])
	assert.NotContains(t, entries[1].ContextMap(), "trace_id")
}

func TestNewObservabilityModule_Disabled(t *testing.T) {
	app := fx.New(
		NewObservabilityModule(),
		fx.Supply(viper.New(), zap.NewNop(), config.AppConfig{ServiceName: "market-node"}),
		fx.NopLogger,
	)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, app.Start(ctx))
	assert.NoError(t, app.Stop(ctx))
}
