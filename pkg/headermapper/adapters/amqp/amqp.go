// Package amqp adapts headermapper.Mapper to amqp.Table, the header model
// used by github.com/rabbitmq/amqp091-go.
package amqp

import (
	"github.com/chris-alexander-pop/integration-bus/pkg/headermapper"
	amqp "github.com/rabbitmq/amqp091-go"
)

// StandardHeaders is the descriptor for AMQP's own reserved header-like
// properties, surfaced to the mapper as ordinary standard headers so they
// can participate in STANDARD_REQUEST_HEADERS/STANDARD_REPLY_HEADERS
// pattern matching.
var StandardHeaders = headermapper.StandardHeaderDescriptor{
	Prefix:         "amqp_",
	RequestHeaders: []string{"contentType", "contentEncoding", "deliveryMode", "correlationId", "replyTo", "expiration", "messageId", "type", "appId"},
	ReplyHeaders:   []string{"contentType", "correlationId", "messageId"},
}

// adapter implements headermapper.Adapter[amqp.Table].
type adapter struct{}

// Adapter is the shared AMQP header adapter instance.
var Adapter headermapper.Adapter[amqp.Table] = adapter{}

func (adapter) ReadAll(native amqp.Table) map[string]interface{} {
	out := make(map[string]interface{}, len(native))
	for k, v := range native {
		out[k] = v
	}
	return out
}

func (adapter) WriteOne(native amqp.Table, name string, value interface{}) {
	native[name] = value
}

// New constructs a Mapper bound to amqp.Table using StandardHeaders and the
// shared Adapter.
func New(config headermapper.Config) *headermapper.Mapper[amqp.Table] {
	return headermapper.New(StandardHeaders, Adapter, config)
}
