// Package mongo manages the MongoDB client the listing payload store reads from.
package mongo

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/v2/mongo/otelmongo"
	"go.uber.org/zap"
)

type client struct {
	client   *mongodriver.Client
	database *mongodriver.Database
	conf     Config
	log      *zap.Logger
}

func newClient(log *zap.Logger, conf Config) (*client, error) {
	if err := validateConfig(conf); err != nil {
		return nil, err
	}

	clientOptions := options.Client().
		ApplyURI(buildURI(conf)).
		SetMaxPoolSize(conf.MaxPoolSize).
		SetServerSelectionTimeout(conf.ServerSelectTimeout).
		SetMonitor(otelmongo.NewMonitor())

	// Connect does not dial; the connection is verified by ping on start.
	c, err := mongodriver.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	database := conf.Database
	if database == "" {
		if cs, err := url.Parse(conf.ConnectionString); err == nil && len(cs.Path) > 1 {
			database = cs.Path[1:]
		}
	}

	return &client{
		client:   c,
		database: c.Database(database),
		conf:     conf,
		log:      log,
	}, nil
}

func validateConfig(conf Config) error {
	if conf.ConnectionString != "" {
		return nil
	}
	if conf.Host == "" || conf.Port == 0 || conf.Database == "" {
		return fmt.Errorf("invalid mongo configuration: host, port and database are required")
	}
	return nil
}

func (c *client) connect(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, c.conf.ConnectTimeout)
	defer cancel()

	if err := c.client.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("failed to ping mongo: %w", err)
	}

	c.log.Info("connected to mongo",
		zap.String("database", c.database.Name()),
		zap.Uint64("max-pool-size", c.conf.MaxPoolSize),
	)
	return nil
}

func (c *client) disconnect(ctx context.Context) error {
	disconnectCtx, cancel := context.WithTimeout(ctx, c.conf.ConnectTimeout)
	defer cancel()

	if err := c.client.Disconnect(disconnectCtx); err != nil {
		return fmt.Errorf("failed to disconnect from mongo: %w", err)
	}
	c.log.Info("disconnected from mongo")
	return nil
}

func buildURI(conf Config) string {
	if conf.ConnectionString != "" {
		return conf.ConnectionString
	}

	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(conf.Host, strconv.Itoa(conf.Port)),
		Path:   "/" + conf.Database,
	}
	if conf.Username != "" {
		u.User = url.UserPassword(conf.Username, conf.Password)
	}

	params := url.Values{}
	if conf.ReplicaSet != "" {
		params.Set("replicaSet", conf.ReplicaSet)
	}
	if conf.DirectConnection {
		params.Set("directConnection", "true")
	}
	u.RawQuery = params.Encode()

	return u.String()
}
