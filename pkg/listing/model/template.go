// Package model holds the persisted listing aggregates the codec reads from and produces.
package model

// ListingTemplate is a seller's listing as stored locally, before it is broadcast.
type ListingTemplate struct {
	ID                   int
	Hash                 string
	ItemInformation      *ItemInformation
	PaymentInformation   *PaymentInformation
	MessagingInformation []MessagingInformation
	Objects              []ListingObject
}

type ItemInformation struct {
	Title                string
	ShortDescription     string
	LongDescription      string
	ItemCategory         *ItemCategory
	ItemLocation         *ItemLocation
	ShippingDestinations []ShippingDestination
	Images               []ItemImage
}

// ItemCategory is a node in the market's category tree.
type ItemCategory struct {
	ID             int
	Key            string
	Name           string
	Description    string
	MarketID       string
	ParentCategory *ItemCategory
	Children       []*ItemCategory
}

type ItemLocation struct {
	Region         *string
	Address        *string
	LocationMarker *LocationMarker
}

type LocationMarker struct {
	Lat         float64
	Lng         float64
	MarkerTitle *string
	MarkerText  *string
}

type ShippingDestination struct {
	Country              string
	ShippingAvailability ShippingAvailability
}

type ItemImage struct {
	Hash           string
	Featured       bool
	ItemImageDatas []ItemImageData
}

// ItemImageData is one stored variant of an image. Data is only populated on receipt;
// locally stored variants are loaded through a payload resolver.
type ItemImageData struct {
	DataID       string
	Protocol     ProtocolDSN
	Encoding     string
	ImageVersion ImageVersion
	ImageHash    string
	Data         []byte
}

type PaymentInformation struct {
	Type      SaleType
	Escrow    *Escrow
	ItemPrice *ItemPrice
}

type Escrow struct {
	Type  EscrowType
	Ratio EscrowRatio
}

type EscrowRatio struct {
	Buyer  float64
	Seller float64
}

type ItemPrice struct {
	Currency      Cryptocurrency
	BasePrice     float64
	ShippingPrice *ShippingPrice
	CryptoAddress *CryptoAddress
}

type ShippingPrice struct {
	Domestic      float64
	International float64
}

type CryptoAddress struct {
	Type    CryptoAddressType
	Address string
}

type MessagingInformation struct {
	Protocol  MessagingProtocol
	PublicKey string
}

// ListingObject is a seller-defined custom field attached to a listing.
type ListingObject struct {
	Type        ObjectType
	Description string
	ObjectID    string
	ForceInput  bool
	Order       int
	DataRows    []ObjectData
}

type ObjectData struct {
	Key   string
	Value string
}
