package mongo

import (
	"context"

	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewMongoModule provides the configured *mongodriver.Database, connected on start.
func NewMongoModule() fx.Option {
	return fx.Module("mongo",
		fx.Provide(
			newConfig,
			provideDatabase,
		),
	)
}

func provideDatabase(lc fx.Lifecycle, log *zap.Logger, conf Config) (*mongodriver.Database, error) {
	c, err := newClient(log, conf)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: c.connect,
		OnStop: func(ctx context.Context) error {
			return c.disconnect(ctx)
		},
	})

	return c.database, nil
}
