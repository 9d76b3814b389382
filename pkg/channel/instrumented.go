package channel

import (
	"context"
	"time"

	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
	"github.com/chris-alexander-pop/integration-bus/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedChannel wraps a Channel with logging and tracing, the same
// decorator shape pkg/messaging applies to Broker/Producer/Consumer.
type InstrumentedChannel struct {
	next   Channel
	tracer trace.Tracer
}

// NewInstrumentedChannel wraps next with logging and tracing.
func NewInstrumentedChannel(next Channel) *InstrumentedChannel {
	return &InstrumentedChannel{next: next, tracer: otel.Tracer("pkg/channel")}
}

func (c *InstrumentedChannel) Name() string { return c.next.Name() }

func (c *InstrumentedChannel) Send(e *envelope.Envelope, timeout time.Duration) (bool, error) {
	ctx, span := c.tracer.Start(context.Background(), "channel.Send", trace.WithAttributes(
		attribute.String("channel.name", c.next.Name()),
		attribute.String("channel.envelope_id", e.ID()),
	))
	defer span.End()

	logger.L().InfoContext(ctx, "sending envelope", "channel", c.next.Name(), "envelope_id", e.ID())

	ok, err := c.next.Send(e, timeout)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.L().ErrorContext(ctx, "send failed", "channel", c.next.Name(), "error", err)
		return ok, err
	}
	span.SetStatus(codes.Ok, "sent")
	return ok, nil
}

// InstrumentedSubscribable wraps a Subscribable channel, adding tracing
// around dispatch to each handler in addition to InstrumentedChannel's
// Send instrumentation.
type InstrumentedSubscribable struct {
	*InstrumentedChannel
	subscribable Subscribable
}

// NewInstrumentedSubscribable wraps next with logging and tracing.
func NewInstrumentedSubscribable(next Subscribable) *InstrumentedSubscribable {
	return &InstrumentedSubscribable{InstrumentedChannel: NewInstrumentedChannel(next), subscribable: next}
}

func (c *InstrumentedSubscribable) Subscribe(h Handler) Subscription {
	return c.subscribable.Subscribe(func(e *envelope.Envelope) error {
		_, span := c.tracer.Start(context.Background(), "channel.Dispatch", trace.WithAttributes(
			attribute.String("channel.name", c.subscribable.Name()),
			attribute.String("channel.envelope_id", e.ID()),
		))
		defer span.End()

		if err := h(e); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		span.SetStatus(codes.Ok, "")
		return nil
	})
}

// InstrumentedPollable wraps a Pollable channel, adding tracing to Receive
// in addition to InstrumentedChannel's Send instrumentation.
type InstrumentedPollable struct {
	*InstrumentedChannel
	pollable Pollable
}

// NewInstrumentedPollable wraps next with logging and tracing.
func NewInstrumentedPollable(next Pollable) *InstrumentedPollable {
	return &InstrumentedPollable{InstrumentedChannel: NewInstrumentedChannel(next), pollable: next}
}

func (c *InstrumentedPollable) Receive(timeout time.Duration) (*envelope.Envelope, bool) {
	ctx, span := c.InstrumentedChannel.tracer.Start(context.Background(), "channel.Receive", trace.WithAttributes(
		attribute.String("channel.name", c.pollable.Name()),
	))
	defer span.End()

	e, ok := c.pollable.Receive(timeout)
	if ok {
		span.SetAttributes(attribute.String("channel.envelope_id", e.ID()))
		logger.L().InfoContext(ctx, "received envelope", "channel", c.pollable.Name(), "envelope_id", e.ID())
	}
	span.SetStatus(codes.Ok, "")
	return e, ok
}
