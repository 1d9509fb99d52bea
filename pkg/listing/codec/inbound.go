package codec

import (
	"context"
	"time"

	"github.com/LoneWolf367/particl-market/pkg/listing/message"
	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

func (c *composer) decompose(
	ctx context.Context,
	msg *message.ListingAddMessage,
	meta model.DeliveryMetadata,
	marketID string,
	rootCategory *model.ItemCategory,
) (*model.ListingCreateRequest, error) {
	if msg == nil {
		return nil, newError(KindMissingField, "message", nil)
	}

	payment, err := decomposePayment(msg.Item.Payment)
	if err != nil {
		return nil, err
	}
	messaging, err := decomposeMessaging(msg.Item.Messaging)
	if err != nil {
		return nil, err
	}
	objects, err := decomposeObjects(msg.Item.Objects)
	if err != nil {
		return nil, err
	}
	information, err := c.decomposeInformation(ctx, msg.Item.Information, rootCategory)
	if err != nil {
		return nil, err
	}

	return &model.ListingCreateRequest{
		Hash:        msg.Hash,
		MsgID:       meta.MsgID,
		Seller:      meta.Sender,
		Market:      meta.Market,
		MarketID:    marketID,
		ExpiryTime:  meta.DaysRetention,
		PostedAt:    meta.Sent,
		ExpiredAt:   meta.Expiration,
		ReceivedAt:  meta.Received,
		GeneratedAt: time.UnixMilli(msg.Generated),

		ItemInformation:      information,
		PaymentInformation:   payment,
		MessagingInformation: messaging,
		Objects:              objects,
	}, nil
}
