// Package nats adapts headermapper.Mapper to nats.Header, the header model
// used by github.com/nats-io/nats.go.
package nats

import (
	"fmt"

	"github.com/chris-alexander-pop/integration-bus/pkg/headermapper"
	"github.com/nats-io/nats.go"
)

// StandardHeaders is the descriptor for NATS's conventional headers.
var StandardHeaders = headermapper.StandardHeaderDescriptor{
	Prefix:         "nats_",
	RequestHeaders: []string{"Nats-Msg-Id", "correlationId"},
	ReplyHeaders:   []string{"Nats-Msg-Id", "correlationId"},
}

type adapter struct{}

// Adapter is the shared NATS header adapter instance.
var Adapter headermapper.Adapter[nats.Header] = adapter{}

func (adapter) ReadAll(native nats.Header) map[string]interface{} {
	out := make(map[string]interface{}, len(native))
	for k, v := range native {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func (adapter) WriteOne(native nats.Header, name string, value interface{}) {
	s, ok := value.(string)
	if !ok {
		s = fmt.Sprint(value)
	}
	native.Set(name, s)
}

// New constructs a Mapper bound to nats.Header using StandardHeaders and
// the shared Adapter.
func New(config headermapper.Config) *headermapper.Mapper[nats.Header] {
	return headermapper.New(StandardHeaders, Adapter, config)
}
