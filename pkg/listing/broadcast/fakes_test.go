package broadcast

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LoneWolf367/particl-market/pkg/listing/category"
	"github.com/LoneWolf367/particl-market/pkg/listing/codec"
	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

type fakeProducer struct {
	mu          sync.Mutex
	produced    []*kafka.Message
	failures    []error
	deliveryErr error
}

func (p *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.failures) > 0 {
		err := p.failures[0]
		p.failures = p.failures[1:]
		return err
	}
	p.produced = append(p.produced, msg)

	delivered := *msg
	delivered.TopicPartition.Partition = 0
	delivered.TopicPartition.Offset = kafka.Offset(len(p.produced))
	delivered.TopicPartition.Error = p.deliveryErr
	deliveryChan <- &delivered
	return nil
}

type fakeReader struct {
	records   []*kafka.Message
	committed []*kafka.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) ReadMessage(time.Duration) (*kafka.Message, error) {
	if len(r.records) == 0 {
		r.cancel()
		return nil, kafka.NewError(kafka.ErrTimedOut, "timed out", false)
	}
	record := r.records[0]
	r.records = r.records[1:]
	return record, nil
}

func (r *fakeReader) CommitMessage(msg *kafka.Message) ([]kafka.TopicPartition, error) {
	r.committed = append(r.committed, msg)
	return []kafka.TopicPartition{msg.TopicPartition}, nil
}

type fakeCreator struct {
	created []*model.ListingCreateRequest
	err     error
}

func (c *fakeCreator) Create(_ context.Context, req *model.ListingCreateRequest) error {
	if c.err != nil {
		return c.err
	}
	c.created = append(c.created, req)
	return nil
}

type mapPayloads map[string][]byte

func (m mapPayloads) Load(_ context.Context, payloadID string, version model.ImageVersion) ([]byte, error) {
	data, ok := m[payloadID+"-"+string(version)]
	if !ok {
		return nil, errors.New("payload not found")
	}
	return data, nil
}

func testTree(t *testing.T) *category.Tree {
	t.Helper()
	tree, err := category.NewTree(&model.ItemCategory{
		Key: "cat_ROOT",
		Children: []*model.ItemCategory{
			{Key: "cat_apparel", Children: []*model.ItemCategory{{Key: "cat_shoes"}}},
		},
	})
	require.NoError(t, err)
	return tree
}

func testComposer(t *testing.T) codec.Composer {
	t.Helper()
	payloads := mapPayloads{"sneaker-RESIZED": []byte("resized-bytes")}
	return codec.NewComposer(testTree(t), payloads, zap.NewNop(),
		codec.WithClock(func() time.Time { return fixedNow }),
	)
}

func testConfig() Config {
	return Config{
		Brokers:      "localhost:9092",
		Topic:        "market.listings",
		Source:       "node-a",
		SchemaID:     7,
		MarketID:     "market-1",
		PollTimeout:  10 * time.Millisecond,
		DeliveryWait: time.Second,
	}
}

func testTemplate() *model.ListingTemplate {
	return &model.ListingTemplate{
		ItemInformation: &model.ItemInformation{
			Title:            "Sneakers",
			ShortDescription: "Running shoes",
			LongDescription:  "Barely worn running shoes",
			ItemCategory:     &model.ItemCategory{Key: "cat_shoes"},
			Images: []model.ItemImage{{
				Hash: "sneaker",
				ItemImageDatas: []model.ItemImageData{
					{Protocol: model.ProtocolLocal, Encoding: "BASE64", ImageVersion: model.ImageVersionResized},
				},
			}},
		},
		PaymentInformation: &model.PaymentInformation{
			Type:   model.SaleTypeSale,
			Escrow: &model.Escrow{Type: model.EscrowTypeMADCT, Ratio: model.EscrowRatio{Buyer: 100, Seller: 100}},
			ItemPrice: &model.ItemPrice{
				Currency:  model.CurrencyPART,
				BasePrice: 3.5,
			},
		},
	}
}

func newTestPublisher(t *testing.T, producer Producer) *Publisher {
	t.Helper()
	envelopes, err := NewEnvelopeCodec(testConfig().SchemaID)
	require.NoError(t, err)

	p := NewPublisher(testComposer(t), producer, envelopes, testConfig(), zap.NewNop())
	p.now = func() time.Time { return fixedNow }
	p.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)
	}
	return p
}

func newTestReceiver(t *testing.T, creator ListingCreator) *Receiver {
	t.Helper()
	envelopes, err := NewEnvelopeCodec(testConfig().SchemaID)
	require.NoError(t, err)

	r := NewReceiver(testComposer(t), creator, envelopes, testConfig(), zap.NewNop())
	r.now = func() time.Time { return fixedNow }
	return r
}
