package registry

import (
	"context"

	"github.com/chris-alexander-pop/integration-bus/pkg/channel"
	"github.com/chris-alexander-pop/integration-bus/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedRegistry wraps a ChannelRegistry with logging and tracing
// around Resolve, the lookup a Router performs on every Handle call.
type InstrumentedRegistry struct {
	next   *ChannelRegistry
	tracer trace.Tracer
}

// NewInstrumentedRegistry wraps next.
func NewInstrumentedRegistry(next *ChannelRegistry) *InstrumentedRegistry {
	return &InstrumentedRegistry{next: next, tracer: otel.Tracer("pkg/registry")}
}

func (r *InstrumentedRegistry) Resolve(name string) (channel.Channel, error) {
	_, span := r.tracer.Start(context.Background(), "registry.Resolve", trace.WithAttributes(attribute.String("registry.name", name)))
	defer span.End()

	ch, err := r.next.Resolve(name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.L().Debug("registry: resolve failed", "name", name, "error", err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return ch, nil
}
