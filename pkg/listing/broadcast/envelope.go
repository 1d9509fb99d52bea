package broadcast

import (
	"encoding/binary"
	"errors"
	"fmt"

	hambavro "github.com/hamba/avro/v2"
)

const (
	magicByte       = 0x00
	wireHeaderBytes = 5
)

// ErrMalformedEnvelope marks records that can never be decoded, however often they are redelivered.
var ErrMalformedEnvelope = errors.New("malformed listing envelope")

// EnvelopeCodec encodes ListingAddEvents as [0x00][schema id][avro].
type EnvelopeCodec struct {
	schema   hambavro.Schema
	schemaID int
}

func NewEnvelopeCodec(schemaID int) (*EnvelopeCodec, error) {
	schema, err := hambavro.Parse(listingAddSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s schema: %w", ListingAddSchemaName, err)
	}
	return &EnvelopeCodec{schema: schema, schemaID: schemaID}, nil
}

func (c *EnvelopeCodec) Encode(event *ListingAddEvent) ([]byte, error) {
	payload, err := hambavro.Marshal(c.schema, event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal avro data: %w", err)
	}

	out := make([]byte, wireHeaderBytes+len(payload))
	out[0] = magicByte
	binary.BigEndian.PutUint32(out[1:wireHeaderBytes], uint32(c.schemaID))
	copy(out[wireHeaderBytes:], payload)
	return out, nil
}

func (c *EnvelopeCodec) Decode(data []byte) (*ListingAddEvent, error) {
	if len(data) < wireHeaderBytes {
		return nil, fmt.Errorf("%w: expected at least %d bytes, got %d", ErrMalformedEnvelope, wireHeaderBytes, len(data))
	}
	if data[0] != magicByte {
		return nil, fmt.Errorf("%w: invalid magic byte 0x%02x", ErrMalformedEnvelope, data[0])
	}
	if id := int(binary.BigEndian.Uint32(data[1:wireHeaderBytes])); id != c.schemaID {
		return nil, fmt.Errorf("%w: schema id %d, expected %d", ErrMalformedEnvelope, id, c.schemaID)
	}

	var event ListingAddEvent
	if err := hambavro.Unmarshal(c.schema, data[wireHeaderBytes:], &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	return &event, nil
}
