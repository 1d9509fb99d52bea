package imagedata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

// FileStore keeps payloads as <dir>/<payloadID>-<VERSION> files.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Load(ctx context.Context, payloadID string, version model.ImageVersion) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validatePayloadID(payloadID); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(payloadID, version))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s %s", ErrPayloadNotFound, payloadID, version)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image payload: %w", err)
	}
	return data, nil
}

func (s *FileStore) Save(ctx context.Context, payloadID string, version model.ImageVersion, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validatePayloadID(payloadID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := os.WriteFile(s.path(payloadID, version), data, 0o644); err != nil {
		return fmt.Errorf("failed to write image payload: %w", err)
	}
	return nil
}

func (s *FileStore) path(payloadID string, version model.ImageVersion) string {
	return filepath.Join(s.dir, storageKey(payloadID, version, "-"))
}
