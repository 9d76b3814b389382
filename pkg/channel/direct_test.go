package channel_test

import (
	"errors"
	"testing"

	"github.com/chris-alexander-pop/integration-bus/pkg/channel"
	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectChannel_DispatchesToSoleSubscriber(t *testing.T) {
	c := channel.NewDirectChannel("events")

	var got *envelope.Envelope
	c.Subscribe(func(e *envelope.Envelope) error {
		got = e
		return nil
	})

	e := envelope.NewBuilder("hello").Build()
	ok, err := c.Send(e, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, e, got)
}

func TestDirectChannel_NoSubscribersReturnsError(t *testing.T) {
	c := channel.NewDirectChannel("events")
	ok, err := c.Send(envelope.NewBuilder("x").Build(), 0)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestDirectChannel_FailoverToNextSubscriberInOrder(t *testing.T) {
	c := channel.NewDirectChannel("events")

	var order []string
	c.Subscribe(func(e *envelope.Envelope) error {
		order = append(order, "first")
		return errors.New("first failed")
	})
	c.Subscribe(func(e *envelope.Envelope) error {
		order = append(order, "second")
		return nil
	})
	c.Subscribe(func(e *envelope.Envelope) error {
		order = append(order, "third")
		return nil
	})

	ok, err := c.Send(envelope.NewBuilder("x").Build(), 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDirectChannel_AllSubscribersFail(t *testing.T) {
	c := channel.NewDirectChannel("events")

	c.Subscribe(func(e *envelope.Envelope) error { return errors.New("nope") })
	c.Subscribe(func(e *envelope.Envelope) error { return errors.New("also nope") })

	ok, err := c.Send(envelope.NewBuilder("x").Build(), 0)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestDirectChannel_Unsubscribe(t *testing.T) {
	c := channel.NewDirectChannel("events")

	calls := 0
	sub := c.Subscribe(func(e *envelope.Envelope) error {
		calls++
		return nil
	})
	sub.Unsubscribe()

	ok, err := c.Send(envelope.NewBuilder("x").Build(), 0)
	assert.False(t, ok)
	assert.Error(t, err)
	assert.Equal(t, 0, calls)
}
