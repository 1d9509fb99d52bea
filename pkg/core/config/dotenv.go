package config

import (
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewDotEnvModule loads path (".env" when empty) into the process environment before any other
// provider runs. Variables already set are not overridden and a missing file is not an error.
func NewDotEnvModule(path string) fx.Option {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)

	return fx.Module("dotenv",
		fx.Invoke(func(log *zap.Logger) {
			if err != nil {
				log.Debug("no .env file loaded", zap.String("path", path), zap.Error(err))
				return
			}
			log.Info("loaded .env file", zap.String("path", path))
		}),
	)
}
