package observability

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultMetricsInterval = 10 * time.Second
	defaultSampleRatio     = 1.0
	shutdownTimeout        = 5 * time.Second
	runtimeStatsInterval   = time.Second
)

type Config struct {
	// OtelCollectorEndpoint is the OTLP gRPC collector; empty keeps traces in-process.
	OtelCollectorEndpoint string        `mapstructure:"otel-collector-endpoint"`
	Tracing               TracingConfig `mapstructure:"tracing"`
	Metrics               MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	SampleRatio float64 `mapstructure:"sample-ratio"`
}

type MetricsConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

func newConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if sub := v.Sub("observability"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to load observability config: %w", err)
		}
	}
	applyDefaults(&cfg)

	if cfg.Metrics.Enabled && cfg.OtelCollectorEndpoint == "" {
		return Config{}, fmt.Errorf("observability.otel-collector-endpoint is required when metrics are enabled")
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		return Config{}, fmt.Errorf("observability.tracing.sample-ratio must be within [0, 1], got %v", cfg.Tracing.SampleRatio)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Metrics.Interval == 0 {
		cfg.Metrics.Interval = defaultMetricsInterval
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = defaultSampleRatio
	}
}
