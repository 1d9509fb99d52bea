// Package imagedata stores the binary payloads of listing image variants.
package imagedata

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

// ErrPayloadNotFound is returned when no payload is stored for an id and version.
var ErrPayloadNotFound = errors.New("image payload not found")

// ErrInvalidPayloadID is returned for ids that cannot name a stored payload.
var ErrInvalidPayloadID = errors.New("invalid payload id")

func validatePayloadID(payloadID string) error {
	if payloadID == "" || payloadID != filepath.Base(payloadID) || payloadID == "." || payloadID == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidPayloadID, payloadID)
	}
	return nil
}

func storageKey(payloadID string, version model.ImageVersion, sep string) string {
	return payloadID + sep + string(version)
}
