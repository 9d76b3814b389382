package channel_test

import (
	"testing"
	"time"

	"github.com/chris-alexander-pop/integration-bus/pkg/channel"
	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWithPriority(t *testing.T, payload string, priority int) *envelope.Envelope {
	t.Helper()
	return envelope.NewBuilder(payload).
		WithHeader(envelope.HeaderPriority, priority).
		Build()
}

// TestPriorityChannel_ReceivesHighestPriorityFirst reproduces the
// priorities [1, 9, 5, 9, 1] / payloads ["a","b","c","d","e"] scenario:
// envelopes must come back highest priority first, ties broken by
// enqueue order, giving ["b", "d", "c", "a", "e"].
func TestPriorityChannel_ReceivesHighestPriorityFirst(t *testing.T) {
	c := channel.NewPriorityChannel("priority-in", 0, nil)

	priorities := []int{1, 9, 5, 9, 1}
	payloads := []string{"a", "b", "c", "d", "e"}

	for i := range payloads {
		ok, err := c.Send(buildWithPriority(t, payloads[i], priorities[i]), 0)
		require.NoError(t, err)
		require.True(t, ok)
	}

	want := []string{"b", "d", "c", "a", "e"}
	for _, expected := range want {
		e, ok := c.Receive(0)
		require.True(t, ok)
		assert.Equal(t, expected, e.Payload())
	}

	_, ok := c.Receive(0)
	assert.False(t, ok)
}

func TestPriorityChannel_SequenceNeverLeaksIntoHeaders(t *testing.T) {
	c := channel.NewPriorityChannel("priority-in", 0, nil)

	e := buildWithPriority(t, "only", 3)
	_, err := c.Send(e, 0)
	require.NoError(t, err)

	got, ok := c.Receive(0)
	require.True(t, ok)
	_, present := got.Header("__priorityChannelSequence__")
	assert.False(t, present, "enqueue sequence must not appear as a header")
	assert.Equal(t, e.Headers(), got.Headers(), "headers must pass through the channel untouched")
}

func TestPriorityChannel_MissingPriorityDefaultsToZero(t *testing.T) {
	c := channel.NewPriorityChannel("priority-in", 0, nil)

	low := envelope.NewBuilder("low").Build()
	high := buildWithPriority(t, "high", 5)

	_, err := c.Send(low, 0)
	require.NoError(t, err)
	_, err = c.Send(high, 0)
	require.NoError(t, err)

	e, ok := c.Receive(0)
	require.True(t, ok)
	assert.Equal(t, "high", e.Payload())
}

func TestPriorityChannel_ReceiveBlocksUntilSend(t *testing.T) {
	c := channel.NewPriorityChannel("priority-in", 0, nil)

	result := make(chan *envelope.Envelope, 1)
	go func() {
		e, ok := c.Receive(500 * time.Millisecond)
		if ok {
			result <- e
		} else {
			result <- nil
		}
	}()

	time.Sleep(20 * time.Millisecond)
	e := buildWithPriority(t, "late", 1)
	_, err := c.Send(e, 0)
	require.NoError(t, err)

	got := <-result
	require.NotNil(t, got)
	assert.Equal(t, "late", got.Payload())
}

func TestPriorityChannel_SendRespectsCapacity(t *testing.T) {
	c := channel.NewPriorityChannel("bounded", 1, nil)

	ok, err := c.Send(buildWithPriority(t, "first", 1), 0)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.Send(buildWithPriority(t, "second", 1), 0)
	require.NoError(t, err)
	assert.False(t, ok, "send should not block past a zero timeout when full")
}

func TestPriorityChannel_Size(t *testing.T) {
	c := channel.NewPriorityChannel("priority-in", 0, nil)
	assert.Equal(t, 0, c.Size())

	_, err := c.Send(buildWithPriority(t, "a", 1), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Size())

	_, ok := c.Receive(0)
	require.True(t, ok)
	assert.Equal(t, 0, c.Size())
}
