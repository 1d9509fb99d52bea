package imagedata

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/LoneWolf367/particl-market/pkg/listing/codec"
)

const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

type Config struct {
	Backend      string        `mapstructure:"backend"`
	Dir          string        `mapstructure:"dir"`
	Collection   string        `mapstructure:"collection"`
	QueryTimeout time.Duration `mapstructure:"query-timeout"`
}

// NewImageDataModule provides the codec.PayloadResolver selected by listing.imagedata.backend.
// The mongo backend needs a *mongo.Database in the graph.
func NewImageDataModule() fx.Option {
	return fx.Module("listing-imagedata",
		fx.Provide(
			newConfig,
			provideStore,
		),
	)
}

func newConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Backend:      BackendFile,
		Dir:          "images",
		Collection:   DefaultCollection,
		QueryTimeout: 5 * time.Second,
	}
	if sub := v.Sub("listing.imagedata"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to load imagedata config: %w", err)
		}
	}
	return cfg, nil
}

type storeParams struct {
	fx.In

	Conf     Config
	Log      *zap.Logger
	Database *mongo.Database `optional:"true"`
}

func provideStore(p storeParams) (codec.PayloadResolver, error) {
	switch p.Conf.Backend {
	case BackendFile:
		p.Log.Info("image payloads from files", zap.String("dir", p.Conf.Dir))
		return NewFileStore(p.Conf.Dir), nil
	case BackendMongo:
		if p.Database == nil {
			return nil, fmt.Errorf("imagedata backend %q requires the mongo module", BackendMongo)
		}
		p.Log.Info("image payloads from mongo",
			zap.String("database", p.Database.Name()),
			zap.String("collection", p.Conf.Collection),
		)
		return NewMongoStore(p.Database, p.Conf.Collection, p.Conf.QueryTimeout), nil
	default:
		return nil, fmt.Errorf("unknown imagedata backend %q", p.Conf.Backend)
	}
}
