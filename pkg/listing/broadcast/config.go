package broadcast

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Source names this node in event metadata.
	Source   string `mapstructure:"source"`
	Brokers  string `mapstructure:"brokers"`
	Topic    string `mapstructure:"topic"`
	SchemaID int    `mapstructure:"schema-id"`

	// MarketID is the local market received listings are attached to.
	MarketID        string        `mapstructure:"market-id"`
	GroupID         string        `mapstructure:"group-id"`
	AutoOffsetReset string        `mapstructure:"auto-offset-reset"`
	PollTimeout     time.Duration `mapstructure:"poll-timeout"`

	// MaxMessagesPerSecond throttles the receive loop; 0 disables the limit.
	MaxMessagesPerSecond float64 `mapstructure:"max-messages-per-second"`

	DeliveryWait      time.Duration `mapstructure:"delivery-wait"`
	MaxProduceElapsed time.Duration `mapstructure:"max-produce-elapsed"`
}

func newConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Topic:             "market.listings",
		Source:            "particl-market",
		SchemaID:          1,
		AutoOffsetReset:   "earliest",
		PollTimeout:       time.Second,
		DeliveryWait:      30 * time.Second,
		MaxProduceElapsed: 10 * time.Second,
	}

	sub := v.Sub("kafka")
	if sub == nil {
		return cfg, fmt.Errorf("kafka config is required")
	}
	if err := sub.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load kafka config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid kafka config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Brokers == "" {
		return fmt.Errorf("brokers is required")
	}
	if c.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if c.SchemaID < 0 {
		return fmt.Errorf("schema-id must not be negative")
	}
	if c.MaxMessagesPerSecond < 0 {
		return fmt.Errorf("max-messages-per-second must not be negative")
	}
	return nil
}
