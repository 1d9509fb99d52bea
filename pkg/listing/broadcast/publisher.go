package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/LoneWolf367/particl-market/pkg/core/logger"
	"github.com/LoneWolf367/particl-market/pkg/listing/codec"
	"github.com/LoneWolf367/particl-market/pkg/listing/message"
	"github.com/LoneWolf367/particl-market/pkg/listing/model"
	"github.com/LoneWolf367/particl-market/pkg/observability"
)

const (
	headerEventID   = "event_id"
	headerEventType = "event_type"
)

// Producer is the part of *kafka.Producer the publisher needs.
type Producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
}

type Publisher struct {
	composer  codec.Composer
	producer  Producer
	envelopes *EnvelopeCodec
	conf      Config
	log       *zap.Logger
	throttled *logger.Throttler

	now        func() time.Time
	newBackOff func() backoff.BackOff
}

func NewPublisher(composer codec.Composer, producer Producer, envelopes *EnvelopeCodec, conf Config, log *zap.Logger) *Publisher {
	return &Publisher{
		composer:  composer,
		producer:  producer,
		envelopes: envelopes,
		conf:      conf,
		log:       log,
		throttled: logger.NewThrottler(log, time.Minute),
		now:       time.Now,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 50 * time.Millisecond
			b.MaxElapsedTime = conf.MaxProduceElapsed
			return b
		},
	}
}

// Publish composes template and broadcasts it to market, waiting for the broker to acknowledge it.
func (p *Publisher) Publish(ctx context.Context, template *model.ListingTemplate, market string, daysRetention int) (*message.ListingAddMessage, error) {
	msg, err := p.composer.Compose(ctx, template)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal listing message: %w", err)
	}

	event := &ListingAddEvent{
		Metadata: EventMetadata{
			EventID:   uuid.NewString(),
			EventType: EventTypeListingAdd,
			Source:    p.conf.Source,
			Timestamp: p.now().UTC(),
			TraceID:   traceID(ctx),
		},
		Market:        market,
		Sender:        p.conf.Source,
		DaysRetention: int32(daysRetention),
		Payload:       payload,
	}
	value, err := p.envelopes.Encode(event)
	if err != nil {
		return nil, err
	}

	topic := p.conf.Topic
	record := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(msg.Hash),
		Value:          value,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(event.Metadata.EventID)},
			{Key: headerEventType, Value: []byte(EventTypeListingAdd)},
		},
	}

	if err := p.produce(ctx, record); err != nil {
		return nil, err
	}

	observability.WithTrace(ctx, p.log).Info("listing published",
		zap.String("hash", msg.Hash),
		zap.String("event-id", event.Metadata.EventID),
		zap.String("market", market),
	)
	return msg, nil
}

func (p *Publisher) produce(ctx context.Context, record *kafka.Message) error {
	deliveries := make(chan kafka.Event, 1)

	op := func() error {
		err := p.producer.Produce(record, deliveries)
		if err == nil {
			return nil
		}
		var kafkaErr kafka.Error
		if errors.As(err, &kafkaErr) && kafkaErr.Code() == kafka.ErrQueueFull {
			p.throttled.Warn("queue-full", "producer queue full, retrying", zap.String("topic", p.conf.Topic))
			return err
		}
		return backoff.Permanent(err)
	}
	if err := backoff.Retry(op, backoff.WithContext(p.newBackOff(), ctx)); err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", p.conf.Topic, err)
	}

	wait := p.conf.DeliveryWait
	if wait <= 0 {
		wait = 30 * time.Second
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("no delivery report from topic %s after %s", p.conf.Topic, wait)
	case ev := <-deliveries:
		delivered, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event %v", ev)
		}
		if delivered.TopicPartition.Error != nil {
			return fmt.Errorf("failed to deliver message to %v: %w", delivered.TopicPartition, delivered.TopicPartition.Error)
		}
		return nil
	}
}

func traceID(ctx context.Context) *string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return nil
	}
	id := sc.TraceID().String()
	return &id
}
