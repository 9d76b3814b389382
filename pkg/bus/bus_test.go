package bus_test

import (
	"testing"
	"time"

	"github.com/chris-alexander-pop/integration-bus/pkg/bus"
	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
	"github.com/chris-alexander-pop/integration-bus/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeclareAndRouteEndToEnd(t *testing.T) {
	b, err := bus.New(bus.Config{})
	require.NoError(t, err)

	ordersOut, err := b.DeclareQueue("orders-out", 10)
	require.NoError(t, err)

	unrouted, err := b.DeclareQueue("unrouted", 10)
	require.NoError(t, err)

	r := b.NewRouter(router.Config{
		ResolutionRequired:               true,
		DefaultOutputChannel:             "unrouted",
		ChannelMappings:                  map[string]string{"order": "orders-out"},
		DisableDirectChannelNameFallback: true,
	}, func(e *envelope.Envelope) ([]interface{}, error) {
		kind, _ := e.Header("kind")
		s, _ := kind.(string)
		return []interface{}{s}, nil
	})

	matched := envelope.NewBuilder("widget").WithHeader("kind", "order").Build()
	require.NoError(t, r.Handle(matched))

	e, ok := ordersOut.Receive(time.Second)
	require.True(t, ok)
	assert.Equal(t, "widget", e.Payload())

	unmatched := envelope.NewBuilder("mystery").WithHeader("kind", "unknown").Build()
	require.NoError(t, r.Handle(unmatched))

	e2, ok := unrouted.Receive(time.Second)
	require.True(t, ok)
	assert.Equal(t, "mystery", e2.Payload())
}

func TestBus_InstrumentedModeStillDelivers(t *testing.T) {
	b, err := bus.New(bus.Config{Instrumented: true})
	require.NoError(t, err)

	q, err := b.DeclareQueue("work", 10)
	require.NoError(t, err)

	r := b.NewRouter(router.Config{ResolutionRequired: true}, func(e *envelope.Envelope) ([]interface{}, error) {
		return []interface{}{"work"}, nil
	})

	require.NoError(t, r.Handle(envelope.NewBuilder("x").Build()))

	e, ok := q.Receive(time.Second)
	require.True(t, ok)
	assert.Equal(t, "x", e.Payload())
}
