// Package config loads process configuration from the environment, an optional .env file and an
// optional YAML/JSON file read through viper.
package config

import (
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	envAppEnv            = "APP_ENV"
	envAppServiceName    = "APP_SERVICE_NAME"
	envAppServiceVersion = "APP_SERVICE_VERSION"
	envConfigFile        = "CONFIG_FILE"
)

// AppConfig identifies the running node.
type AppConfig struct {
	ServiceName    string
	ServiceVersion string
	// Environment is the deployment environment, e.g. "local", "testnet", "mainnet".
	Environment string
}

type appConfigOptions struct {
	static *AppConfig
}

type AppConfigOption func(*appConfigOptions)

// WithAppConfig supplies cfg instead of reading the environment.
func WithAppConfig(cfg AppConfig) AppConfigOption {
	return func(o *appConfigOptions) {
		o.static = &cfg
	}
}

// NewAppConfigModule provides AppConfig from APP_ENV, APP_SERVICE_NAME and APP_SERVICE_VERSION.
func NewAppConfigModule(opts ...AppConfigOption) fx.Option {
	o := &appConfigOptions{}
	for _, opt := range opts {
		opt(o)
	}

	provider := fx.Provide(func() (AppConfig, error) { return newAppConfig(os.Getenv) })
	if o.static != nil {
		provider = fx.Supply(*o.static)
	}

	return fx.Module("appconfig",
		provider,
		fx.Invoke(func(log *zap.Logger, conf AppConfig) {
			log.Info("loaded application configuration",
				zap.String("service", conf.ServiceName),
				zap.String("version", conf.ServiceVersion),
				zap.String("environment", conf.Environment),
			)
		}),
	)
}

func newAppConfig(getenv func(string) string) (AppConfig, error) {
	cfg := AppConfig{
		Environment:    getenv(envAppEnv),
		ServiceName:    getenv(envAppServiceName),
		ServiceVersion: getenv(envAppServiceVersion),
	}

	for name, value := range map[string]string{
		envAppEnv:            cfg.Environment,
		envAppServiceName:    cfg.ServiceName,
		envAppServiceVersion: cfg.ServiceVersion,
	} {
		if value == "" {
			return AppConfig{}, fmt.Errorf("%s is required", name)
		}
	}
	return cfg, nil
}
