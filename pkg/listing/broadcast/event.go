// Package broadcast carries listing-add messages between market nodes over Kafka.
//
// The JSON wire message travels as the payload of an Avro ListingAddEvent envelope, framed in the
// Confluent wire format so standard tooling can inspect the topic.
package broadcast

import "time"

const (
	ListingAddSchemaName = "market.listing.ListingAddEvent"
	EventTypeListingAdd  = "ListingAdd"
)

const listingAddSchema = `{
  "type": "record",
  "name": "ListingAddEvent",
  "namespace": "market.listing",
  "fields": [
    {"name": "metadata", "type": {
      "type": "record",
      "name": "EventMetadata",
      "fields": [
        {"name": "event_id", "type": "string"},
        {"name": "event_type", "type": "string"},
        {"name": "source", "type": "string"},
        {"name": "timestamp", "type": {"type": "long", "logicalType": "timestamp-millis"}},
        {"name": "trace_id", "type": ["null", "string"], "default": null}
      ]
    }},
    {"name": "market", "type": "string"},
    {"name": "sender", "type": "string"},
    {"name": "days_retention", "type": "int"},
    {"name": "payload", "type": "bytes"}
  ]
}`

type EventMetadata struct {
	EventID   string    `avro:"event_id"`
	EventType string    `avro:"event_type"`
	Source    string    `avro:"source"`
	Timestamp time.Time `avro:"timestamp"`
	TraceID   *string   `avro:"trace_id"`
}

// ListingAddEvent is the envelope around one JSON-encoded listing-add message.
type ListingAddEvent struct {
	Metadata      EventMetadata `avro:"metadata"`
	Market        string        `avro:"market"`
	Sender        string        `avro:"sender"`
	DaysRetention int32         `avro:"days_retention"`
	Payload       []byte        `avro:"payload"`
}
