package codec

import (
	"context"
	"fmt"

	"github.com/LoneWolf367/particl-market/pkg/listing/message"
	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

func (c *composer) compose(ctx context.Context, template *model.ListingTemplate) (*message.ListingAddMessage, error) {
	if template == nil {
		return nil, newError(KindMissingField, "template", nil)
	}
	if template.ItemInformation == nil {
		return nil, newError(KindMissingField, "item.information", nil)
	}
	if template.PaymentInformation == nil {
		return nil, newError(KindMissingField, "item.payment", nil)
	}

	// Pure groups first so unsupported combinations fail before any resolver I/O.
	payment, err := composePayment(template.PaymentInformation)
	if err != nil {
		return nil, err
	}
	messaging, err := composeMessaging(template.MessagingInformation)
	if err != nil {
		return nil, err
	}
	objects, err := composeObjects(template.Objects)
	if err != nil {
		return nil, err
	}

	information, err := c.composeInformation(ctx, template.ItemInformation)
	if err != nil {
		return nil, err
	}

	item := message.Item{
		Information: *information,
		Payment:     payment,
		Messaging:   messaging,
		Objects:     objects,
	}
	hash, err := message.HashItem(item)
	if err != nil {
		return nil, fmt.Errorf("failed to hash listing item: %w", err)
	}

	return &message.ListingAddMessage{
		Type:      message.MPAListingAdd,
		Generated: c.now().UnixMilli(),
		Hash:      hash,
		Item:      item,
	}, nil
}
