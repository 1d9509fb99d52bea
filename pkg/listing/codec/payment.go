package codec

import (
	"fmt"

	"github.com/LoneWolf367/particl-market/pkg/listing/message"
	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

const paymentField = "item.payment"

func composePayment(payment *model.PaymentInformation) (message.Payment, error) {
	switch payment.Type {
	case model.SaleTypeSale:
		sale, err := composeSalePayment(payment)
		if err != nil {
			return nil, err
		}
		return sale, nil
	case model.SaleTypeAuction, model.SaleTypeFree, model.SaleTypeRent, model.SaleTypeWanted:
		return nil, newError(KindUnsupportedSaleType, paymentField, fmt.Errorf("sale type %s has no wire representation", payment.Type))
	default:
		return nil, newError(KindUnsupportedSaleType, paymentField, fmt.Errorf("unknown sale type %q", payment.Type))
	}
}

// composeSalePayment emits a single pricing option; multi-currency pricing is not supported.
func composeSalePayment(payment *model.PaymentInformation) (message.SalePayment, error) {
	if payment.Escrow == nil {
		return message.SalePayment{}, newError(KindMissingField, paymentField+".escrow", nil)
	}
	price := payment.ItemPrice
	if price == nil {
		return message.SalePayment{}, newError(KindMissingField, paymentField+".options", nil)
	}

	option := message.PaymentOption{
		Currency:  price.Currency,
		BasePrice: price.BasePrice,
	}
	if price.ShippingPrice != nil {
		option.ShippingPrice = &message.ShippingPrice{
			Domestic:      price.ShippingPrice.Domestic,
			International: price.ShippingPrice.International,
		}
	}
	if address := price.CryptoAddress; address != nil && address.Address != "" {
		option.Address = &message.CryptoAddress{
			Type:    address.Type,
			Address: address.Address,
		}
	}

	return message.SalePayment{
		Escrow: message.Escrow{
			Type: payment.Escrow.Type,
			Ratio: message.EscrowRatio{
				Buyer:  payment.Escrow.Ratio.Buyer,
				Seller: payment.Escrow.Ratio.Seller,
			},
		},
		Options: []message.PaymentOption{option},
	}, nil
}

func decomposePayment(payment message.Payment) (*model.PaymentInformation, error) {
	switch p := payment.(type) {
	case message.SalePayment:
		return decomposeSalePayment(p)
	case nil:
		return nil, newError(KindMissingField, paymentField, nil)
	default:
		return nil, newError(KindUnsupportedSaleType, paymentField, fmt.Errorf("sale type %s has no domain representation", payment.SaleType()))
	}
}

func decomposeSalePayment(payment message.SalePayment) (*model.PaymentInformation, error) {
	if len(payment.Options) == 0 {
		return nil, newError(KindMissingField, paymentField+".options", nil)
	}
	option := payment.Options[0]

	price := &model.ItemPrice{
		Currency:  option.Currency,
		BasePrice: option.BasePrice,
	}
	if option.ShippingPrice != nil {
		price.ShippingPrice = &model.ShippingPrice{
			Domestic:      option.ShippingPrice.Domestic,
			International: option.ShippingPrice.International,
		}
	}
	if address := option.Address; address != nil && address.Address != "" {
		price.CryptoAddress = &model.CryptoAddress{
			Type:    address.Type,
			Address: address.Address,
		}
	}

	return &model.PaymentInformation{
		Type: model.SaleTypeSale,
		Escrow: &model.Escrow{
			Type: payment.Escrow.Type,
			Ratio: model.EscrowRatio{
				Buyer:  payment.Escrow.Ratio.Buyer,
				Seller: payment.Escrow.Ratio.Seller,
			},
		},
		ItemPrice: price,
	}, nil
}
