package logger

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	// Level is the minimum enabled level.
	Level zapcore.Level

	// Development switches to console encoding.
	Development bool

	// OutputPaths and ErrorOutputPaths default to stderr when empty.
	OutputPaths      []string
	ErrorOutputPaths []string

	// StacktraceLevel is the minimum level that records a stacktrace. Defaults to error.
	StacktraceLevel zapcore.Level
}

func defaultConfig() Config {
	return Config{
		Level:           zapcore.InfoLevel,
		StacktraceLevel: zapcore.ErrorLevel,
	}
}

func (c Config) Validate() error {
	for field, paths := range map[string][]string{
		"outputPaths":      c.OutputPaths,
		"errorOutputPaths": c.ErrorOutputPaths,
	} {
		for i, path := range paths {
			if strings.TrimSpace(path) == "" {
				return fmt.Errorf("%s[%d] cannot be empty or whitespace", field, i)
			}
		}
	}
	return nil
}

type rawConfig struct {
	Level            string   `mapstructure:"level"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"outputPaths"`
	ErrorOutputPaths []string `mapstructure:"errorOutputPaths"`
	StacktraceLevel  string   `mapstructure:"stacktraceLevel"`
}

func newConfig(v *viper.Viper) (Config, error) {
	cfg := defaultConfig()

	sub := v.Sub("logger")
	if sub == nil {
		return cfg, nil
	}

	var raw rawConfig
	if err := sub.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("failed to load logger config: %w", err)
	}

	level, err := parseLevel(raw.Level, cfg.Level)
	if err != nil {
		return Config{}, fmt.Errorf("invalid log level: %w", err)
	}
	stacktraceLevel, err := parseLevel(raw.StacktraceLevel, cfg.StacktraceLevel)
	if err != nil {
		return Config{}, fmt.Errorf("invalid stacktrace level: %w", err)
	}

	return Config{
		Level:            level,
		Development:      raw.Development,
		OutputPaths:      raw.OutputPaths,
		ErrorOutputPaths: raw.ErrorOutputPaths,
		StacktraceLevel:  stacktraceLevel,
	}, nil
}

func parseLevel(s string, fallback zapcore.Level) (zapcore.Level, error) {
	if s == "" {
		return fallback, nil
	}
	return zapcore.ParseLevel(s)
}
