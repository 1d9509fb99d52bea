package codec

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewCodecModule provides a Composer. CategoryResolver and PayloadResolver must be provided elsewhere.
func NewCodecModule() fx.Option {
	return fx.Module("listing-codec",
		fx.Provide(
			newConfig,
			provideComposer,
		),
	)
}

func provideComposer(conf Config, categories CategoryResolver, payloads PayloadResolver, log *zap.Logger) Composer {
	return NewComposer(categories, payloads, log.Named("listing-codec"),
		WithMaxConcurrentResolutions(conf.MaxConcurrentResolutions),
	)
}
