package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FilePath is the configuration file to read; empty means environment only.
type FilePath string

type viperOptions struct {
	path         *string
	noConfigFile bool
}

type ViperOption func(*viperOptions)

// WithConfigPath reads path instead of $CONFIG_FILE.
func WithConfigPath(path string) ViperOption {
	return func(o *viperOptions) {
		o.path = &path
	}
}

func WithoutConfigFile() ViperOption {
	return func(o *viperOptions) {
		o.noConfigFile = true
	}
}

// NewViperModule provides *viper.Viper. Keys read through Get can be overridden from the
// environment with dots and dashes replaced by underscores, e.g. KAFKA_TOPIC.
func NewViperModule(opts ...ViperOption) fx.Option {
	o := &viperOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return fx.Module("viper",
		fx.Supply(resolveConfigPath(o, os.Getenv)),
		fx.Provide(newViper),
		fx.Invoke(func(log *zap.Logger, v *viper.Viper) {
			log.Info("configuration loaded",
				zap.String("configFile", v.ConfigFileUsed()),
				zap.Int("keys", len(v.AllKeys())),
			)
		}),
	)
}

func resolveConfigPath(o *viperOptions, getenv func(string) string) FilePath {
	switch {
	case o.noConfigFile:
		return ""
	case o.path != nil:
		return FilePath(*o.path)
	default:
		return FilePath(getenv(envConfigFile))
	}
}

func newViper(file FilePath) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if file == "" {
		return v, nil
	}

	v.SetConfigFile(string(file))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file [%s]: %w", file, err)
	}
	return v, nil
}
