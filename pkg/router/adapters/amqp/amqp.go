// Package amqp bridges AMQP deliveries into the routing engine: it turns
// an amqp.Delivery into an envelope (headers translated through the AMQP
// header mapper, routing key preserved) and supplies a ChannelKeysFunc
// that routes by that key.
package amqp

import (
	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
	"github.com/chris-alexander-pop/integration-bus/pkg/headermapper"
	"github.com/chris-alexander-pop/integration-bus/pkg/router"
	amqp "github.com/rabbitmq/amqp091-go"
)

// HeaderRoutingKey carries the delivery's routing key on the envelope so a
// router can select a destination from it after the AMQP message itself is
// out of scope.
const HeaderRoutingKey = "amqp_routingKey"

// Inbound converts an AMQP delivery into an envelope: the body becomes the
// payload, the delivery's application headers are translated through
// mapper, and the routing key is recorded under HeaderRoutingKey.
func Inbound(mapper *headermapper.Mapper[amqp.Table], d amqp.Delivery) *envelope.Envelope {
	return envelope.NewBuilder(d.Body).
		WithHeaders(mapper.ToHeaders(d.Headers)).
		WithHeader(HeaderRoutingKey, d.RoutingKey).
		Build()
}

// RoutingKeys is a router.ChannelKeysFunc selecting destinations by the
// envelope's HeaderRoutingKey header. Envelopes without one produce no
// keys, leaving the router to its default-output fallback.
func RoutingKeys(e *envelope.Envelope) ([]interface{}, error) {
	v, ok := e.Header(HeaderRoutingKey)
	if !ok {
		return nil, nil
	}
	key, ok := v.(string)
	if !ok || key == "" {
		return nil, nil
	}
	return []interface{}{key}, nil
}

// NewRouter builds a Router that dispatches inbound AMQP traffic by
// routing key, typically with config.ChannelMappings translating broker
// routing keys to bus channel names.
func NewRouter(resolver router.ChannelResolver, config router.Config) *router.Router {
	return router.New(resolver, config, RoutingKeys)
}
