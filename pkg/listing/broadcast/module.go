package broadcast

import (
	"context"
	"fmt"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/LoneWolf367/particl-market/pkg/listing/codec"
)

const flushTimeoutMs = 5000

// NewBroadcastModule provides the Publisher and, for applications that supply a ListingCreator,
// the Receiver with its Kafka consumer.
func NewBroadcastModule() fx.Option {
	return fx.Module("listing-broadcast",
		fx.Provide(
			newConfig,
			provideEnvelopeCodec,
			provideProducer,
			providePublisher,
			provideReader,
			provideReceiver,
		),
	)
}

// NewReceiverModule runs the Receiver for the lifetime of the application.
func NewReceiverModule() fx.Option {
	return fx.Invoke(startReceiver)
}

func provideEnvelopeCodec(conf Config) (*EnvelopeCodec, error) {
	return NewEnvelopeCodec(conf.SchemaID)
}

func provideProducer(lc fx.Lifecycle, log *zap.Logger, conf Config) (Producer, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": conf.Brokers})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if remaining := p.Flush(flushTimeoutMs); remaining > 0 {
				log.Warn("producer closed with undelivered messages", zap.Int("remaining", remaining))
			}
			p.Close()
			return nil
		},
	})
	return p, nil
}

func providePublisher(composer codec.Composer, producer Producer, envelopes *EnvelopeCodec, conf Config, log *zap.Logger) *Publisher {
	return NewPublisher(composer, producer, envelopes, conf, log.Named("listing-publisher"))
}

func provideReader(lc fx.Lifecycle, log *zap.Logger, conf Config) (MessageReader, error) {
	if conf.GroupID == "" {
		return nil, fmt.Errorf("kafka.group-id is required to receive listings")
	}

	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  conf.Brokers,
		"group.id":           conf.GroupID,
		"auto.offset.reset":  conf.AutoOffsetReset,
		"enable.auto.commit": false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}
	if err := c.SubscribeTopics([]string{conf.Topic}, nil); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to subscribe to topic %s: %w", conf.Topic, err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := c.Close(); err != nil {
				log.Error("failed to close kafka consumer", zap.Error(err))
			}
			return nil
		},
	})
	return c, nil
}

func provideReceiver(composer codec.Composer, creator ListingCreator, envelopes *EnvelopeCodec, conf Config, log *zap.Logger) *Receiver {
	return NewReceiver(composer, creator, envelopes, conf, log.Named("listing-receiver"))
}

func startReceiver(lc fx.Lifecycle, shutdowner fx.Shutdowner, receiver *Receiver, reader MessageReader, log *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := receiver.Run(ctx, reader); err != nil {
					log.Error("listing receiver failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			wg.Wait()
			return nil
		},
	})
}
