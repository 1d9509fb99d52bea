// Package codec translates listing templates into listing-add wire messages and received
// messages back into listing create requests.
//
// Both directions are single-pass and fail fast: a composition either returns a complete
// result or a *ComposeError, never a partial message or request. Category and image payload
// lookups go through injected resolvers and may run concurrently; output order always
// follows input order.
package codec

import (
	"context"
	"errors"
	"time"

	"github.com/LoneWolf367/particl-market/pkg/listing/message"
	"github.com/LoneWolf367/particl-market/pkg/listing/model"
	"go.uber.org/zap"
)

// Composer converts listings between their domain and wire representations.
type Composer interface {
	// Compose builds the wire message broadcast for a listing template.
	Compose(ctx context.Context, template *model.ListingTemplate) (*message.ListingAddMessage, error)
	// Decompose builds a create request from a received message and its delivery metadata.
	Decompose(
		ctx context.Context,
		msg *message.ListingAddMessage,
		meta model.DeliveryMetadata,
		marketID string,
		rootCategory *model.ItemCategory,
	) (*model.ListingCreateRequest, error)
}

type composer struct {
	categories    CategoryResolver
	payloads      PayloadResolver
	maxConcurrent int
	now           func() time.Time
	log           *zap.Logger
	telemetry     telemetry
}

// Option configures a Composer.
type Option func(*composer)

// WithMaxConcurrentResolutions bounds concurrent resolver calls per composition. Values below 1 are ignored.
func WithMaxConcurrentResolutions(n int) Option {
	return func(c *composer) {
		if n >= 1 {
			c.maxConcurrent = n
		}
	}
}

// WithClock replaces the clock used for the generated timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *composer) {
		c.now = now
	}
}

// NewComposer creates a Composer backed by the given resolvers.
func NewComposer(categories CategoryResolver, payloads PayloadResolver, log *zap.Logger, opts ...Option) Composer {
	if log == nil {
		log = zap.NewNop()
	}
	c := &composer{
		categories:    categories,
		payloads:      payloads,
		maxConcurrent: defaultMaxConcurrentResolutions,
		now:           time.Now,
		log:           log,
		telemetry:     newTelemetry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *composer) Compose(ctx context.Context, template *model.ListingTemplate) (*message.ListingAddMessage, error) {
	ctx, span := c.telemetry.start(ctx, directionOutbound)
	defer span.End()

	msg, err := c.compose(ctx, template)
	c.telemetry.finish(ctx, span, directionOutbound, err)
	if err != nil {
		c.logFailure(directionOutbound, err)
		return nil, err
	}
	return msg, nil
}

func (c *composer) Decompose(
	ctx context.Context,
	msg *message.ListingAddMessage,
	meta model.DeliveryMetadata,
	marketID string,
	rootCategory *model.ItemCategory,
) (*model.ListingCreateRequest, error) {
	ctx, span := c.telemetry.start(ctx, directionInbound)
	defer span.End()

	req, err := c.decompose(ctx, msg, meta, marketID, rootCategory)
	c.telemetry.finish(ctx, span, directionInbound, err)
	if err != nil {
		c.logFailure(directionInbound, err)
		return nil, err
	}
	return req, nil
}

func (c *composer) logFailure(direction string, err error) {
	fields := []zap.Field{zap.String("direction", direction), zap.Error(err)}
	var composeErr *ComposeError
	if errors.As(err, &composeErr) {
		fields = append(fields, zap.String("kind", string(composeErr.Kind)), zap.String("field", composeErr.Field))
	}
	c.log.Debug("listing composition failed", fields...)
}
