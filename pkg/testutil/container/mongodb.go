// Package container starts throwaway backing services for integration tests.
package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/mongo"
	mongooptions "go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultMongoImage = "mongo:7"

// Mongo is a running MongoDB container with a connected client.
type Mongo struct {
	container *mongodb.MongoDBContainer
	Client    *mongo.Client
	URI       string
}

// StartMongo runs image (mongo:7 when empty) and connects to it.
func StartMongo(ctx context.Context, image string) (*Mongo, error) {
	if image == "" {
		image = defaultMongoImage
	}

	c, err := mongodb.Run(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("failed to start mongodb container: %w", err)
	}

	uri, err := c.ConnectionString(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(c)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	client, err := mongo.Connect(mongooptions.Client().ApplyURI(uri))
	if err != nil {
		_ = testcontainers.TerminateContainer(c)
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		_ = testcontainers.TerminateContainer(c)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Mongo{container: c, Client: client, URI: uri}, nil
}

func (m *Mongo) Database(name string) *mongo.Database {
	return m.Client.Database(name)
}

// Terminate disconnects the client and removes the container.
func (m *Mongo) Terminate(ctx context.Context) error {
	return errors.Join(
		m.Client.Disconnect(ctx),
		testcontainers.TerminateContainer(m.container),
	)
}
