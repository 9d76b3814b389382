package router

import (
	"context"

	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
	"github.com/chris-alexander-pop/integration-bus/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedRouter wraps a Router with logging and tracing around Handle,
// the same decorator shape pkg/messaging applies to Broker/Producer/Consumer.
type InstrumentedRouter struct {
	next   *Router
	name   string
	tracer trace.Tracer
}

// NewInstrumentedRouter wraps next. name identifies this router in spans
// and logs (e.g. the router's own channel name, if it is registered as one).
func NewInstrumentedRouter(next *Router, name string) *InstrumentedRouter {
	return &InstrumentedRouter{next: next, name: name, tracer: otel.Tracer("pkg/router")}
}

// Handle resolves and forwards e, recording a span and structured log
// entries around the call.
func (r *InstrumentedRouter) Handle(e *envelope.Envelope) error {
	ctx, span := r.tracer.Start(context.Background(), "router.Handle", trace.WithAttributes(
		attribute.String("router.name", r.name),
		attribute.String("router.envelope_id", e.ID()),
	))
	defer span.End()

	err := r.next.Handle(e)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.L().ErrorContext(ctx, "router handle failed", "router", r.name, "envelope_id", e.ID(), "error", err)
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}
