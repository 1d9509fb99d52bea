package codec

import (
	"context"

	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

// CategoryResolver maps categories to and from the id path carried on the wire.
type CategoryResolver interface {
	// PathToIDs returns the ids from the category up to the root, leaf first.
	PathToIDs(ctx context.Context, category *model.ItemCategory) ([]string, error)
	// IDsToCategory finds the category identified by a leaf-first id path below root.
	IDsToCategory(ctx context.Context, ids []string, root *model.ItemCategory) (*model.ItemCategory, error)
}

// PayloadResolver loads the stored binary payload of an image variant.
// Implementations must be safe for concurrent use.
type PayloadResolver interface {
	Load(ctx context.Context, payloadID string, version model.ImageVersion) ([]byte, error)
}
