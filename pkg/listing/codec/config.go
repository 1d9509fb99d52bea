package codec

import (
	"fmt"

	"github.com/spf13/viper"
)

const defaultMaxConcurrentResolutions = 4

type Config struct {
	// MaxConcurrentResolutions bounds the in-flight category and payload lookups of one composition.
	// 1 resolves sequentially.
	MaxConcurrentResolutions int `mapstructure:"max-concurrent-resolutions"`
}

func (c Config) Validate() error {
	if c.MaxConcurrentResolutions < 1 {
		return fmt.Errorf("max-concurrent-resolutions must be at least 1, got %d", c.MaxConcurrentResolutions)
	}
	return nil
}

func newConfig(v *viper.Viper) (Config, error) {
	cfg := Config{MaxConcurrentResolutions: defaultMaxConcurrentResolutions}

	sub := v.Sub("listing.codec")
	if sub == nil {
		return cfg, nil
	}
	if err := sub.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load listing codec config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid listing codec config: %w", err)
	}
	return cfg, nil
}
