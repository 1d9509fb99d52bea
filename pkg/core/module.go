// Package core bundles the ambient modules every market process needs: .env loading, viper
// configuration, application identity and the zap logger.
package core

import (
	"github.com/LoneWolf367/particl-market/pkg/core/config"
	"github.com/LoneWolf367/particl-market/pkg/core/logger"
	"go.uber.org/fx"
)

type coreOptions struct {
	appConfig     *config.AppConfig
	loggerConfig  *logger.Config
	configPath    string
	disableDotEnv bool
	noConfigFile  bool
}

type Option func(*coreOptions)

// WithAppConfig uses cfg instead of the APP_* environment variables.
func WithAppConfig(cfg config.AppConfig) Option {
	return func(o *coreOptions) {
		o.appConfig = &cfg
	}
}

// WithLoggerConfig uses cfg instead of the logger section.
func WithLoggerConfig(cfg logger.Config) Option {
	return func(o *coreOptions) {
		o.loggerConfig = &cfg
	}
}

// WithConfigFile reads path instead of $CONFIG_FILE.
func WithConfigFile(path string) Option {
	return func(o *coreOptions) {
		o.configPath = path
	}
}

func WithoutEnvFile() Option {
	return func(o *coreOptions) {
		o.disableDotEnv = true
	}
}

func WithoutConfigFile() Option {
	return func(o *coreOptions) {
		o.noConfigFile = true
	}
}

// NewCoreModule provides *viper.Viper, config.AppConfig and *zap.Logger.
func NewCoreModule(opts ...Option) fx.Option {
	o := &coreOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return fx.Options(
		dotEnvModule(o),
		viperModule(o),
		appConfigModule(o),
		loggerModule(o),
	)
}

func dotEnvModule(o *coreOptions) fx.Option {
	if o.disableDotEnv {
		return fx.Options()
	}
	return config.NewDotEnvModule("")
}

func viperModule(o *coreOptions) fx.Option {
	switch {
	case o.noConfigFile:
		return config.NewViperModule(config.WithoutConfigFile())
	case o.configPath != "":
		return config.NewViperModule(config.WithConfigPath(o.configPath))
	default:
		return config.NewViperModule()
	}
}

func appConfigModule(o *coreOptions) fx.Option {
	if o.appConfig != nil {
		return config.NewAppConfigModule(config.WithAppConfig(*o.appConfig))
	}
	return config.NewAppConfigModule()
}

func loggerModule(o *coreOptions) fx.Option {
	if o.loggerConfig != nil {
		return logger.NewZapLoggingModule(logger.WithLoggerConfig(*o.loggerConfig))
	}
	return logger.NewZapLoggingModule()
}
