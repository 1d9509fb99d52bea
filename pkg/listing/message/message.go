// Package message defines the listing-add wire message exchanged between marketplace nodes.
//
// Optional records are pointers tagged omitempty so an absent domain field never appears on the
// wire. Payment and custom objects are closed sum types: every variant implements a sealed
// interface and decoding an unrecognised tag yields an explicit unsupported variant.
package message

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

// MPAListingAdd is the action type carried by every listing-add message.
const MPAListingAdd = "MPA_LISTING_ADD"

type ListingAddMessage struct {
	Type      string `json:"type"`
	Generated int64  `json:"generated"`
	Hash      string `json:"hash"`
	Item      Item   `json:"item"`
}

type Item struct {
	Information Information       `json:"information"`
	Payment     Payment           `json:"payment,omitempty"`
	Messaging   []MessagingOption `json:"messaging,omitempty"`
	Objects     []Object          `json:"objects,omitempty"`
}

type Information struct {
	Title                string             `json:"title"`
	ShortDescription     string             `json:"shortDescription"`
	LongDescription      string             `json:"longDescription"`
	Category             []string           `json:"category,omitempty"`
	Location             *Location          `json:"location,omitempty"`
	ShippingDestinations []string           `json:"shippingDestinations,omitempty"`
	Images               []ContentReference `json:"images,omitempty"`
}

type Location struct {
	Country *string         `json:"country,omitempty"`
	Address *string         `json:"address,omitempty"`
	GPS     *LocationMarker `json:"gps,omitempty"`
}

type LocationMarker struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	MarkerTitle *string `json:"marker_title,omitempty"`
	MarkerText  *string `json:"marker_text,omitempty"`
}

// ContentReference describes an image together with its resolved payload.
type ContentReference struct {
	Hash     string `json:"hash"`
	Data     []DSN  `json:"data"`
	Featured bool   `json:"featured"`
}

// DSN is one payload of a content reference. Data is base64 encoded by encoding/json.
type DSN struct {
	Protocol model.ProtocolDSN `json:"protocol"`
	Encoding string            `json:"encoding,omitempty"`
	Data     []byte            `json:"data,omitempty"`
	DataID   string            `json:"dataId,omitempty"`
}

type MessagingOption struct {
	Protocol  string `json:"protocol"`
	PublicKey string `json:"publicKey"`
}

type itemJSON struct {
	Information Information       `json:"information"`
	Payment     json.RawMessage   `json:"payment,omitempty"`
	Messaging   []MessagingOption `json:"messaging,omitempty"`
	Objects     []json.RawMessage `json:"objects,omitempty"`
}

// MarshalJSON writes the payment and object unions with their variant tags.
func (i Item) MarshalJSON() ([]byte, error) {
	out := itemJSON{
		Information: i.Information,
		Messaging:   i.Messaging,
	}
	if i.Payment != nil {
		raw, err := json.Marshal(i.Payment)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payment: %w", err)
		}
		out.Payment = raw
	}
	for idx, obj := range i.Objects {
		raw, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal object %d: %w", idx, err)
		}
		out.Objects = append(out.Objects, raw)
	}
	return json.Marshal(out)
}

// UnmarshalJSON dispatches the payment and object unions on their variant tags.
func (i *Item) UnmarshalJSON(data []byte) error {
	var in itemJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	item := Item{
		Information: in.Information,
		Messaging:   in.Messaging,
	}
	if len(in.Payment) > 0 && string(in.Payment) != "null" {
		payment, err := decodePayment(in.Payment)
		if err != nil {
			return err
		}
		item.Payment = payment
	}
	for idx, raw := range in.Objects {
		obj, err := decodeObject(raw)
		if err != nil {
			return fmt.Errorf("object %d: %w", idx, err)
		}
		item.Objects = append(item.Objects, obj)
	}

	*i = item
	return nil
}

// HashItem returns the hex SHA-256 of the item's canonical JSON encoding.
func HashItem(item Item) (string, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("failed to marshal item for hashing: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func peekType(raw json.RawMessage) (string, error) {
	var tagged struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &tagged); err != nil {
		return "", err
	}
	return tagged.Type, nil
}
