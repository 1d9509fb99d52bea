package category

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	// File is the path of the JSON category tree.
	File     string `mapstructure:"file"`
	MarketID string `mapstructure:"market-id"`
}

// NewCategoryModule provides the *Tree loaded from listing.categories.file.
func NewCategoryModule() fx.Option {
	return fx.Module("listing-category",
		fx.Provide(
			newConfig,
			provideTree,
		),
	)
}

func newConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	sub := v.Sub("listing.categories")
	if sub == nil {
		return cfg, fmt.Errorf("listing.categories config is required")
	}
	if err := sub.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load category config: %w", err)
	}
	if cfg.File == "" {
		return cfg, fmt.Errorf("listing.categories.file is required")
	}
	return cfg, nil
}

func provideTree(conf Config, log *zap.Logger) (*Tree, error) {
	f, err := os.Open(conf.File)
	if err != nil {
		return nil, fmt.Errorf("failed to open category tree: %w", err)
	}
	defer func() { _ = f.Close() }()

	tree, err := LoadTree(f, conf.MarketID)
	if err != nil {
		return nil, err
	}

	log.Info("loaded category tree",
		zap.String("file", conf.File),
		zap.String("root", tree.Root().Key),
		zap.Int("categories", len(tree.byKey)),
	)
	return tree, nil
}
