package router_test

import (
	"errors"
	"testing"
	"time"

	"github.com/chris-alexander-pop/integration-bus/pkg/channel"
	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
	"github.com/chris-alexander-pop/integration-bus/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingChannel is a minimal channel.Channel that records every
// envelope it receives.
type recordingChannel struct {
	name     string
	received []*envelope.Envelope
	fail     bool
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Send(e *envelope.Envelope, _ time.Duration) (bool, error) {
	if c.fail {
		return false, errors.New("send failed")
	}
	c.received = append(c.received, e)
	return true, nil
}

// mapResolver resolves names from a plain map, returning a resolution
// error for anything absent.
type mapResolver struct {
	channels map[string]channel.Channel
}

func newMapResolver() *mapResolver { return &mapResolver{channels: map[string]channel.Channel{}} }

func (r *mapResolver) register(c *recordingChannel) { r.channels[c.name] = c }

func (r *mapResolver) Resolve(name string) (channel.Channel, error) {
	if c, ok := r.channels[name]; ok {
		return c, nil
	}
	return nil, errors.New("channel not found: " + name)
}

func TestRouter_TypeRouter_DirectMatch(t *testing.T) {
	resolver := newMapResolver()
	strCh := &recordingChannel{name: "strings"}
	numCh := &recordingChannel{name: "numbers"}
	resolver.register(strCh)
	resolver.register(numCh)

	r := router.NewPayloadTypeRouter(resolver, router.Config{
		ResolutionRequired: true,
		ChannelMappings: map[string]string{
			"string": "strings",
			"int":    "numbers",
		},
	})

	require.NoError(t, r.Handle(envelope.NewBuilder("hi").Build()))
	require.NoError(t, r.Handle(envelope.NewBuilder(42).Build()))

	require.Len(t, strCh.received, 1)
	assert.Equal(t, "hi", strCh.received[0].Payload())
	require.Len(t, numCh.received, 1)
	assert.Equal(t, 42, numCh.received[0].Payload())
}

type listPayload struct{ items []string }

func (listPayload) TypeCandidates() []string {
	return []string{"mypkg.ArrayList", "mypkg.List", "mypkg.Collection", "mypkg.Object"}
}

func TestRouter_TypeRouter_InterfaceBeatsSuperclass(t *testing.T) {
	resolver := newMapResolver()
	listCh := &recordingChannel{name: "lists"}
	objCh := &recordingChannel{name: "objects"}
	resolver.register(listCh)
	resolver.register(objCh)

	r := router.NewPayloadTypeRouter(resolver, router.Config{
		ResolutionRequired: true,
		ChannelMappings: map[string]string{
			"mypkg.List":   "lists",
			"mypkg.Object": "objects",
		},
	})

	require.NoError(t, r.Handle(envelope.NewBuilder(listPayload{}).Build()))

	assert.Len(t, listCh.received, 1)
	assert.Empty(t, objCh.received)
}

func TestRouter_Fallback_DefaultOutputChannelUsedWhenNoKeyMatches(t *testing.T) {
	resolver := newMapResolver()
	defaultCh := &recordingChannel{name: "unrouted"}
	resolver.register(defaultCh)

	r := router.New(resolver, router.Config{
		ResolutionRequired:   false,
		DefaultOutputChannel: "unrouted",
	}, func(e *envelope.Envelope) ([]interface{}, error) {
		return []interface{}{"no-such-channel"}, nil
	})

	require.NoError(t, r.Handle(envelope.NewBuilder("x").Build()))
	assert.Len(t, defaultCh.received, 1)
}

func TestRouter_Fallback_DeliveryErrorWhenNoDefaultConfigured(t *testing.T) {
	resolver := newMapResolver()

	r := router.New(resolver, router.Config{
		ResolutionRequired: false,
	}, func(e *envelope.Envelope) ([]interface{}, error) {
		return []interface{}{"no-such-channel"}, nil
	})

	err := r.Handle(envelope.NewBuilder("x").Build())
	assert.Error(t, err)
}

func TestRouter_CommaSeparatedKeyFansOutToBoth(t *testing.T) {
	resolver := newMapResolver()
	a := &recordingChannel{name: "a"}
	b := &recordingChannel{name: "b"}
	resolver.register(a)
	resolver.register(b)

	r := router.New(resolver, router.Config{ResolutionRequired: true}, func(e *envelope.Envelope) ([]interface{}, error) {
		return []interface{}{"a,b"}, nil
	})

	require.NoError(t, r.Handle(envelope.NewBuilder("x").Build()))
	assert.Len(t, a.received, 1)
	assert.Len(t, b.received, 1)
}

func TestRouter_ApplySequence_StampsHeadersAcrossDestinations(t *testing.T) {
	resolver := newMapResolver()
	a := &recordingChannel{name: "a"}
	b := &recordingChannel{name: "b"}
	resolver.register(a)
	resolver.register(b)

	r := router.New(resolver, router.Config{ResolutionRequired: true, ApplySequence: true}, func(e *envelope.Envelope) ([]interface{}, error) {
		return []interface{}{"a,b"}, nil
	})

	source := envelope.NewBuilder("x").Build()
	require.NoError(t, r.Handle(source))

	require.Len(t, a.received, 1)
	require.Len(t, b.received, 1)

	seqA, _ := a.received[0].Header(envelope.HeaderSequenceNumber)
	seqB, _ := b.received[0].Header(envelope.HeaderSequenceNumber)
	assert.ElementsMatch(t, []int{1, 2}, []int{seqA.(int), seqB.(int)})

	sizeA, _ := a.received[0].Header(envelope.HeaderSequenceSize)
	assert.Equal(t, 2, sizeA)

	corrA, _ := a.received[0].Header(envelope.HeaderCorrelationID)
	assert.Equal(t, source.ID(), corrA)
}

func TestRouter_IgnoreSendFailures_ContinuesPastAFailingDestination(t *testing.T) {
	resolver := newMapResolver()
	failing := &recordingChannel{name: "failing", fail: true}
	ok := &recordingChannel{name: "ok"}
	resolver.register(failing)
	resolver.register(ok)

	r := router.New(resolver, router.Config{ResolutionRequired: true, IgnoreSendFailures: true}, func(e *envelope.Envelope) ([]interface{}, error) {
		return []interface{}{"failing,ok"}, nil
	})

	require.NoError(t, r.Handle(envelope.NewBuilder("x").Build()))
	assert.Len(t, ok.received, 1)
}

func TestRouter_ResolutionRequiredFalse_SilentlyDropsUnresolvedKey(t *testing.T) {
	resolver := newMapResolver()
	ok := &recordingChannel{name: "ok"}
	resolver.register(ok)

	r := router.New(resolver, router.Config{ResolutionRequired: false}, func(e *envelope.Envelope) ([]interface{}, error) {
		return []interface{}{"missing", "ok"}, nil
	})

	require.NoError(t, r.Handle(envelope.NewBuilder("x").Build()))
	assert.Len(t, ok.received, 1)
}
