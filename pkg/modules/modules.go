// Package modules assembles the fx options a market node is built from.
package modules

import (
	"go.uber.org/fx"

	"github.com/LoneWolf367/particl-market/pkg/core"
	"github.com/LoneWolf367/particl-market/pkg/listing/broadcast"
	"github.com/LoneWolf367/particl-market/pkg/listing/category"
	"github.com/LoneWolf367/particl-market/pkg/listing/codec"
	"github.com/LoneWolf367/particl-market/pkg/listing/imagedata"
	"github.com/LoneWolf367/particl-market/pkg/observability"
	"github.com/LoneWolf367/particl-market/pkg/persistence/mongo"
)

// NewCoreModule provides configuration, application identity, the logger and telemetry.
func NewCoreModule(opts ...core.Option) fx.Option {
	return fx.Options(
		core.NewCoreModule(opts...),
		observability.NewObservabilityModule(),
	)
}

// NewListingModule provides the codec with the category tree and the configured payload store.
func NewListingModule() fx.Option {
	return fx.Options(
		category.NewCategoryModule(),
		fx.Provide(func(t *category.Tree) codec.CategoryResolver { return t }),
		imagedata.NewImageDataModule(),
		codec.NewCodecModule(),
	)
}

// NewPersistenceModule provides the MongoDB database used by the mongo payload store.
func NewPersistenceModule() fx.Option {
	return mongo.NewMongoModule()
}

// NewMessagingModule provides the broadcast Publisher and Receiver.
func NewMessagingModule() fx.Option {
	return broadcast.NewBroadcastModule()
}
