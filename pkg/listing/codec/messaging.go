package codec

import (
	"fmt"

	"github.com/LoneWolf367/particl-market/pkg/listing/message"
	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

func composeMessaging(options []model.MessagingInformation) ([]message.MessagingOption, error) {
	var out []message.MessagingOption
	for i, option := range options {
		token, ok := option.Protocol.Token()
		if !ok {
			return nil, newError(KindUnknownMessagingProtocol, messagingField(i), fmt.Errorf("protocol %s", option.Protocol))
		}
		out = append(out, message.MessagingOption{Protocol: token, PublicKey: option.PublicKey})
	}
	return out, nil
}

func decomposeMessaging(options []message.MessagingOption) ([]model.MessagingInformation, error) {
	var out []model.MessagingInformation
	for i, option := range options {
		protocol, ok := model.ParseMessagingProtocol(option.Protocol)
		if !ok {
			return nil, newError(KindUnknownMessagingProtocol, messagingField(i), fmt.Errorf("token %q", option.Protocol))
		}
		out = append(out, model.MessagingInformation{Protocol: protocol, PublicKey: option.PublicKey})
	}
	return out, nil
}

func messagingField(i int) string {
	return fmt.Sprintf("item.messaging[%d]", i)
}
