package codec

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/LoneWolf367/particl-market/pkg/listing/codec"

const (
	directionOutbound = "outbound"
	directionInbound  = "inbound"
)

type telemetry struct {
	tracer       trace.Tracer
	compositions metric.Int64Counter
}

func newTelemetry() telemetry {
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"listing.codec.compositions",
		metric.WithDescription("Listing compositions by direction and outcome"),
	)
	if err != nil {
		otel.Handle(err)
		counter = noop.Int64Counter{}
	}
	return telemetry{
		tracer:       otel.Tracer(instrumentationName),
		compositions: counter,
	}
}

func (t telemetry) start(ctx context.Context, direction string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "listing."+direction,
		trace.WithAttributes(attribute.String("listing.direction", direction)),
	)
}

func (t telemetry) finish(ctx context.Context, span trace.Span, direction string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if kind, ok := KindOf(err); ok {
			outcome = string(kind)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	t.compositions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("direction", direction),
		attribute.String("outcome", outcome),
	))
}
