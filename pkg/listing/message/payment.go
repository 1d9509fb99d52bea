package message

import (
	"encoding/json"
	"fmt"

	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

// Payment is the sale-type keyed payment union. Implemented by SalePayment and UnsupportedPayment.
type Payment interface {
	SaleType() model.SaleType
	isPayment()
}

// SalePayment is the payment variant of a fixed-price sale.
type SalePayment struct {
	Escrow  Escrow          `json:"escrow"`
	Options []PaymentOption `json:"options"`
}

type Escrow struct {
	Type  model.EscrowType `json:"type"`
	Ratio EscrowRatio      `json:"ratio"`
}

type EscrowRatio struct {
	Buyer  float64 `json:"buyer"`
	Seller float64 `json:"seller"`
}

type PaymentOption struct {
	Address       *CryptoAddress       `json:"address,omitempty"`
	Currency      model.Cryptocurrency `json:"currency"`
	BasePrice     float64              `json:"basePrice"`
	ShippingPrice *ShippingPrice       `json:"shippingPrice,omitempty"`
}

type CryptoAddress struct {
	Type    model.CryptoAddressType `json:"type"`
	Address string                  `json:"address"`
}

type ShippingPrice struct {
	Domestic      float64 `json:"domestic"`
	International float64 `json:"international"`
}

// UnsupportedPayment carries a payment whose sale type has no wire variant.
type UnsupportedPayment struct {
	Type model.SaleType
	Raw  json.RawMessage
}

func (SalePayment) SaleType() model.SaleType          { return model.SaleTypeSale }
func (p UnsupportedPayment) SaleType() model.SaleType { return p.Type }

func (SalePayment) isPayment()        {}
func (UnsupportedPayment) isPayment() {}

func (p SalePayment) MarshalJSON() ([]byte, error) {
	type alias SalePayment
	return json.Marshal(struct {
		Type model.SaleType `json:"type"`
		alias
	}{model.SaleTypeSale, alias(p)})
}

func (p UnsupportedPayment) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(struct {
		Type model.SaleType `json:"type"`
	}{p.Type})
}

func decodePayment(raw json.RawMessage) (Payment, error) {
	tag, err := peekType(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment type: %w", err)
	}

	switch model.SaleType(tag) {
	case model.SaleTypeSale:
		var p SalePayment
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to decode sale payment: %w", err)
		}
		return p, nil
	default:
		return UnsupportedPayment{Type: model.SaleType(tag), Raw: raw}, nil
	}
}
