package codec

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

var errPayloadNotFound = errors.New("payload not found")

type fakeCategories struct {
	pathErr   error
	lookupErr error
	looked    [][]string
	mu        sync.Mutex
}

func (f *fakeCategories) PathToIDs(_ context.Context, category *model.ItemCategory) ([]string, error) {
	if f.pathErr != nil {
		return nil, f.pathErr
	}
	var ids []string
	for c := category; c != nil; c = c.ParentCategory {
		ids = append(ids, c.Key)
	}
	return ids, nil
}

func (f *fakeCategories) IDsToCategory(_ context.Context, ids []string, root *model.ItemCategory) (*model.ItemCategory, error) {
	f.mu.Lock()
	f.looked = append(f.looked, ids)
	f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return &model.ItemCategory{Key: ids[0], ParentCategory: root}, nil
}

type loadCall struct {
	payloadID string
	version   model.ImageVersion
}

type fakePayloads struct {
	mu       sync.Mutex
	payloads map[string][]byte
	delays   map[string]time.Duration
	calls    []loadCall
}

func newFakePayloads() *fakePayloads {
	return &fakePayloads{
		payloads: make(map[string][]byte),
		delays:   make(map[string]time.Duration),
	}
}

func (f *fakePayloads) put(payloadID string, version model.ImageVersion, data []byte) {
	f.payloads[payloadKey(payloadID, version)] = data
}

func (f *fakePayloads) Load(ctx context.Context, payloadID string, version model.ImageVersion) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, loadCall{payloadID: payloadID, version: version})
	delay := f.delays[payloadID]
	data, ok := f.payloads[payloadKey(payloadID, version)]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", payloadID, version, errPayloadNotFound)
	}
	return data, nil
}

func (f *fakePayloads) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func payloadKey(payloadID string, version model.ImageVersion) string {
	return payloadID + "-" + string(version)
}
