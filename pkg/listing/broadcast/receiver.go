package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/LoneWolf367/particl-market/pkg/core/logger"
	"github.com/LoneWolf367/particl-market/pkg/listing/codec"
	"github.com/LoneWolf367/particl-market/pkg/listing/message"
	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

// ListingCreator stores listings received from the market.
type ListingCreator interface {
	Create(ctx context.Context, req *model.ListingCreateRequest) error
}

// MessageReader is the part of *kafka.Consumer the receive loop needs.
type MessageReader interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
	CommitMessage(msg *kafka.Message) ([]kafka.TopicPartition, error)
}

type Receiver struct {
	composer  codec.Composer
	creator   ListingCreator
	envelopes *EnvelopeCodec
	conf      Config
	limiter   *rate.Limiter
	log       *zap.Logger
	throttled *logger.Throttler

	now func() time.Time
}

func NewReceiver(composer codec.Composer, creator ListingCreator, envelopes *EnvelopeCodec, conf Config, log *zap.Logger) *Receiver {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if conf.MaxMessagesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(conf.MaxMessagesPerSecond), 1)
	}
	return &Receiver{
		composer:  composer,
		creator:   creator,
		envelopes: envelopes,
		conf:      conf,
		limiter:   limiter,
		log:       log,
		throttled: logger.NewThrottler(log, time.Minute),
		now:       time.Now,
	}
}

// Handle decodes one record and hands the resulting create request to the ListingCreator.
func (r *Receiver) Handle(ctx context.Context, record *kafka.Message) error {
	event, err := r.envelopes.Decode(record.Value)
	if err != nil {
		return err
	}

	var msg message.ListingAddMessage
	if err := json.Unmarshal(event.Payload, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if msg.Type != message.MPAListingAdd {
		return fmt.Errorf("%w: unexpected message type %q", ErrMalformedEnvelope, msg.Type)
	}

	req, err := r.composer.Decompose(ctx, &msg, r.deliveryMetadata(event, record), r.conf.MarketID, nil)
	if err != nil {
		return err
	}

	if err := r.creator.Create(ctx, req); err != nil {
		return fmt.Errorf("failed to create listing %s: %w", req.Hash, err)
	}
	return nil
}

func (r *Receiver) deliveryMetadata(event *ListingAddEvent, record *kafka.Message) model.DeliveryMetadata {
	received := record.Timestamp
	if received.IsZero() {
		received = r.now()
	}
	sent := event.Metadata.Timestamp
	days := int(event.DaysRetention)

	return model.DeliveryMetadata{
		MsgID:         event.Metadata.EventID,
		Sender:        event.Sender,
		Market:        event.Market,
		DaysRetention: days,
		Sent:          sent,
		Received:      received,
		Expiration:    sent.Add(time.Duration(days) * 24 * time.Hour),
	}
}

// Run reads records until ctx is cancelled. Offsets are committed after each record is handled or
// skipped as permanently undecodable; any other failure stops the loop so the record is redelivered.
func (r *Receiver) Run(ctx context.Context, reader MessageReader) error {
	r.log.Info("starting listing receiver", zap.String("topic", r.conf.Topic))
	defer r.log.Info("listing receiver stopped")

	for {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil
		}

		record, err := reader.ReadMessage(r.conf.PollTimeout)
		if err != nil {
			var kafkaErr kafka.Error
			if errors.As(err, &kafkaErr) && kafkaErr.IsTimeout() {
				continue
			}
			r.throttled.Warn("read", "failed to read message", zap.String("topic", r.conf.Topic), zap.Error(err))
			sleep(ctx, time.Second)
			continue
		}

		if err := r.Handle(ctx, record); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !isPermanent(err) {
				return err
			}
			r.log.Error("skipping undecodable listing",
				zap.String("topic", r.conf.Topic),
				zap.Stringer("partition", record.TopicPartition),
				zap.Error(err),
			)
		}

		if _, err := reader.CommitMessage(record); err != nil {
			r.throttled.Warn("commit", "failed to commit offset", zap.Stringer("partition", record.TopicPartition), zap.Error(err))
		}
	}
}

func isPermanent(err error) bool {
	if errors.Is(err, ErrMalformedEnvelope) {
		return true
	}
	_, ok := codec.KindOf(err)
	return ok
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
