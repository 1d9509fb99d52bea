package imagedata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

const DefaultCollection = "image_data"

type payloadDocument struct {
	ID        string             `bson:"_id"`
	PayloadID string             `bson:"payloadId"`
	Version   model.ImageVersion `bson:"version"`
	Data      []byte             `bson:"data"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// MongoStore keeps payloads in one collection keyed by "<payloadID>:<VERSION>".
type MongoStore struct {
	coll         *mongo.Collection
	queryTimeout time.Duration
}

func NewMongoStore(db *mongo.Database, collection string, queryTimeout time.Duration) *MongoStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &MongoStore{
		coll:         db.Collection(collection),
		queryTimeout: queryTimeout,
	}
}

func (s *MongoStore) Load(ctx context.Context, payloadID string, version model.ImageVersion) ([]byte, error) {
	if err := validatePayloadID(payloadID); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc payloadDocument
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: storageKey(payloadID, version, ":")}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s %s", ErrPayloadNotFound, payloadID, version)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load image payload: %w", err)
	}
	return doc.Data, nil
}

func (s *MongoStore) Save(ctx context.Context, payloadID string, version model.ImageVersion, data []byte) error {
	if err := validatePayloadID(payloadID); err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	doc := payloadDocument{
		ID:        storageKey(payloadID, version, ":"),
		PayloadID: payloadID,
		Version:   version,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save image payload: %w", err)
	}
	return nil
}

func (s *MongoStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}
