package model

import "fmt"

// SaleType is the commercial mode of a listing.
type SaleType string

const (
	SaleTypeSale    SaleType = "SALE"
	SaleTypeAuction SaleType = "AUCTION"
	SaleTypeFree    SaleType = "FREE"
	SaleTypeRent    SaleType = "RENT"
	SaleTypeWanted  SaleType = "WANTED"
)

// EscrowType selects the escrow contract used for a sale.
type EscrowType string

const (
	EscrowTypeMAD   EscrowType = "MAD"
	EscrowTypeMADCT EscrowType = "MAD_CT"
	EscrowTypeFE    EscrowType = "FE"
)

// Cryptocurrency is the currency a price is expressed in.
type Cryptocurrency string

const (
	CurrencyPART Cryptocurrency = "PART"
	CurrencyBTC  Cryptocurrency = "BTC"
)

// CryptoAddressType distinguishes normal from stealth payment addresses.
type CryptoAddressType string

const (
	CryptoAddressNormal  CryptoAddressType = "NORMAL"
	CryptoAddressStealth CryptoAddressType = "STEALTH"
)

// ShippingAvailability tells whether a seller ships to a country.
type ShippingAvailability string

const (
	Ships        ShippingAvailability = "SHIPS"
	DoesNotShip  ShippingAvailability = "DOES_NOT_SHIP"
	AskShipping  ShippingAvailability = "ASK"
	UnknownShips ShippingAvailability = "UNKNOWN"
)

// ImageVersion tags a stored variant of an image.
type ImageVersion string

const (
	ImageVersionOriginal  ImageVersion = "ORIGINAL"
	ImageVersionResized   ImageVersion = "RESIZED"
	ImageVersionLarge     ImageVersion = "LARGE"
	ImageVersionMedium    ImageVersion = "MEDIUM"
	ImageVersionThumbnail ImageVersion = "THUMBNAIL"
)

// ProtocolDSN is the storage protocol an image payload travels with.
type ProtocolDSN string

const (
	ProtocolLocal ProtocolDSN = "LOCAL"
	ProtocolSMSG  ProtocolDSN = "SMSG"
	ProtocolIPFS  ProtocolDSN = "IPFS"
	ProtocolURL   ProtocolDSN = "URL"
)

// ObjectType is the variant tag of a custom listing object.
type ObjectType string

const (
	ObjectTypeTable    ObjectType = "TABLE"
	ObjectTypeDropdown ObjectType = "DROPDOWN"
	ObjectTypeCheckbox ObjectType = "CHECKBOX"
)

// MessagingProtocol identifies how buyers can reach the seller.
type MessagingProtocol int

const (
	MessagingProtocolUnknown MessagingProtocol = iota
	MessagingProtocolSMSG
)

var messagingProtocolTokens = map[MessagingProtocol]string{
	MessagingProtocolSMSG: "SMSG",
}

// Token returns the wire token of the protocol, false when the protocol has none.
func (p MessagingProtocol) Token() (string, bool) {
	token, ok := messagingProtocolTokens[p]
	return token, ok
}

func (p MessagingProtocol) String() string {
	if token, ok := p.Token(); ok {
		return token
	}
	return fmt.Sprintf("MessagingProtocol(%d)", int(p))
}

// ParseMessagingProtocol maps a wire token onto the closed protocol enumeration.
func ParseMessagingProtocol(token string) (MessagingProtocol, bool) {
	for p, t := range messagingProtocolTokens {
		if t == token {
			return p, true
		}
	}
	return MessagingProtocolUnknown, false
}
